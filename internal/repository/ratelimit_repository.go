package repository

import (
	"ctf_platform_backend/internal/model"

	"gorm.io/gorm"
)

// RateLimitRepository 维护 (用户, 题目) 的答错限流记录
type RateLimitRepository struct {
	DB *gorm.DB
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{DB: db}
}

func (r *RateLimitRepository) FindByUserAndChallenge(userID, challengeID uint) (*model.SubmissionRateLimit, error) {
	var record model.SubmissionRateLimit
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindForUpdate 在事务内锁定限流行，防止并发答错互相覆盖 attempts
func (r *RateLimitRepository) FindForUpdate(tx *gorm.DB, userID, challengeID uint) (*model.SubmissionRateLimit, error) {
	var record model.SubmissionRateLimit
	err := lockForUpdate(tx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save 在事务内 upsert 限流记录
func (r *RateLimitRepository) Save(tx *gorm.DB, record *model.SubmissionRateLimit) error {
	return tx.Save(record).Error
}
