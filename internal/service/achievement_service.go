package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/pkg/logger"

	"go.uber.org/zap"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	UserRepo        *repository.UserRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		UserRepo:        userRepo,
	}
}

func (s *AchievementService) GetUserAchievements(userID uint) ([]model.Achievement, error) {
	return s.AchievementRepo.FindByUserID(userID)
}

// EvaluateOnSolve 解题后评估成就。尽力而为：授予失败只记日志，绝不让解题回滚。
func (s *AchievementService) EvaluateOnSolve(userID uint, solveCount int64, isFirstBlood bool) {
	if solveCount == 1 {
		s.award(userID, "初次解题", "icons/first_solve.png", 10)
	}
	if solveCount == 10 {
		s.award(userID, "十题达人", "icons/ten_solves.png", 50)
	}
	if solveCount == 50 {
		s.award(userID, "五十题大师", "icons/fifty_solves.png", 200)
	}
	if isFirstBlood {
		s.award(userID, "一血猎手", "icons/first_blood.png", 30)
	}
}

func (s *AchievementService) award(userID uint, name, icon string, xp int) {
	exists, err := s.AchievementRepo.ExistsByUserAndName(userID, name)
	if err != nil {
		logger.Log.Error("achievement lookup failed",
			zap.Uint("userID", userID), zap.String("name", name), zap.Error(err))
		return
	}
	if exists {
		return
	}

	err = s.AchievementRepo.Create(&model.Achievement{
		UserID:   userID,
		Name:     name,
		Icon:     icon,
		EarnedXP: xp,
	})
	if err != nil {
		logger.Log.Error("achievement award failed",
			zap.Uint("userID", userID), zap.String("name", name), zap.Error(err))
	}
}
