package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
)

// 答错渐进延迟：第1次5秒，第2次10秒，第3次起封顶15秒
const (
	firstFailureDelay  = 5 * time.Second
	secondFailureDelay = 10 * time.Second
	maxFailureDelay    = 15 * time.Second
)

// DelayForAttempts 根据连续答错次数计算下一次提交前的强制等待
func DelayForAttempts(attempts int) time.Duration {
	switch {
	case attempts <= 1:
		return firstFailureDelay
	case attempts == 2:
		return secondFailureDelay
	default:
		return maxFailureDelay
	}
}

// RateLimitService 按 (用户, 题目) 维护答错限流状态
type RateLimitService struct {
	RateLimitRepo *repository.RateLimitRepository
}

func NewRateLimitService(rateLimitRepo *repository.RateLimitRepository) *RateLimitService {
	return &RateLimitService{RateLimitRepo: rateLimitRepo}
}

// CanSubmit 判断当前是否允许提交；不允许时返回剩余等待秒数。
// 无记录或 NextAllowedAt 为空视为不受限。
func (s *RateLimitService) CanSubmit(userID, challengeID uint) (bool, int, error) {
	record, err := s.RateLimitRepo.FindByUserAndChallenge(userID, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, 0, nil
		}
		return false, 0, err
	}

	if record.NextAllowedAt == nil {
		return true, 0, nil
	}

	remaining := time.Until(*record.NextAllowedAt)
	if remaining <= 0 {
		return true, 0, nil
	}
	return false, int(math.Ceil(remaining.Seconds())), nil
}

// RecordFailure 答错后递增 attempts 并推进 NextAllowedAt，记录只增不删。
// 在事务内对限流行加锁，避免两次并发答错读到同一个旧值而少计一次。
func (s *RateLimitService) RecordFailure(tx *gorm.DB, userID, challengeID uint, now time.Time) (*model.SubmissionRateLimit, error) {
	record, err := s.RateLimitRepo.FindForUpdate(tx, userID, challengeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record = &model.SubmissionRateLimit{
			UserID:      userID,
			ChallengeID: challengeID,
		}
	}

	record.Attempts++
	record.LastAttempt = now
	next := now.Add(DelayForAttempts(record.Attempts))
	record.NextAllowedAt = &next

	if err := s.RateLimitRepo.Save(tx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Status 提交前的限流状态查询接口
type RateLimitStatus struct {
	Allowed     bool `json:"allowed"`
	WaitSeconds int  `json:"waitSeconds"`
}

func (s *RateLimitService) Status(userID, challengeID uint) (*RateLimitStatus, error) {
	allowed, wait, err := s.CanSubmit(userID, challengeID)
	if err != nil {
		return nil, err
	}
	return &RateLimitStatus{Allowed: allowed, WaitSeconds: wait}, nil
}
