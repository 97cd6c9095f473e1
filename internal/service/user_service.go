package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// UserService 处理用户资料与战绩查询
type UserService struct {
	UserRepo  *repository.UserRepository
	SolveRepo *repository.SolveRepository
}

func NewUserService(userRepo *repository.UserRepository, solveRepo *repository.SolveRepository) *UserService {
	return &UserService{UserRepo: userRepo, SolveRepo: solveRepo}
}

type UserProfile struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Score       int           `json:"score"`
	SolveStreak int           `json:"solveStreak"`
	LastSolveAt *time.Time    `json:"lastSolveAt,omitempty"`
	Country     string        `json:"country,omitempty"`
	Rank        int64         `json:"rank"`
	Solves      []model.Solve `json:"solves"`
}

func (s *UserService) GetProfile(userID uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	solves, err := s.SolveRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.GetRank(user)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Score:       user.Score,
		SolveStreak: user.SolveStreak,
		LastSolveAt: user.LastSolveAt,
		Country:     user.Country,
		Rank:        rank,
		Solves:      solves,
	}, nil
}

// GetRank 排名 = 分数更高的人数 + 1
func (s *UserService) GetRank(user *model.User) (int64, error) {
	var higher int64
	err := s.UserRepo.DB.Model(&model.User{}).
		Where("disabled = ? AND score > ?", false, user.Score).
		Count(&higher).Error
	return higher + 1, err
}
