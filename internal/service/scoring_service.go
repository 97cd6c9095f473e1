package service

import (
	"ctf_platform_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

// ScoringService 计分与连击引擎。
// score 与 solveStreak 只允许在这里成对修改；提示扣分走 ApplyScore 的窄路径，只动 score。
type ScoringService struct {
	UserRepo *repository.UserRepository
}

func NewScoringService(userRepo *repository.UserRepository) *ScoringService {
	return &ScoringService{UserRepo: userRepo}
}

// ApplyScore 调整用户总分，delta 可为负（提示扣分）
func (s *ScoringService) ApplyScore(tx *gorm.DB, userID uint, delta int) error {
	user, err := s.UserRepo.FindByIDForUpdate(tx, userID)
	if err != nil {
		return err
	}
	user.Score += delta
	return tx.Save(user).Error
}

// ApplySolve 解题入账：加分并更新连续解题天数。
// 距上次解题不足一天（同一天）不加不清零；恰好一天加一；超过一天清零重计。
// LastSolveAt 无论哪个分支都推进到本次解题时间。
func (s *ScoringService) ApplySolve(tx *gorm.DB, userID uint, points int, now time.Time) error {
	user, err := s.UserRepo.FindByIDForUpdate(tx, userID)
	if err != nil {
		return err
	}

	user.Score += points

	if user.LastSolveAt == nil {
		user.SolveStreak = 1
	} else {
		daysSince := int(now.Sub(*user.LastSolveAt).Hours() / 24)
		switch {
		case daysSince == 0:
			// 同一天再次解题不影响连击
		case daysSince == 1:
			user.SolveStreak++
		default:
			user.SolveStreak = 1
		}
	}

	solvedAt := now
	user.LastSolveAt = &solvedAt
	return tx.Save(user).Error
}
