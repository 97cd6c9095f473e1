package model

import (
	"time"
)

// SubmissionRateLimit 按 (用户, 题目) 维护的答错渐进限流状态，upsert 不删除
type SubmissionRateLimit struct {
	BaseModel
	UserID        uint       `gorm:"index:idx_user_challenge_rl,unique;type:bigint unsigned;not null"`
	ChallengeID   uint       `gorm:"index:idx_user_challenge_rl,unique;type:bigint unsigned;not null"`
	Attempts      int        `gorm:"default:0"` // 连续答错次数
	LastAttempt   time.Time  `gorm:"not null"`
	NextAllowedAt *time.Time // 为空表示不受限
}

func (SubmissionRateLimit) TableName() string {
	return "submission_rate_limits"
}
