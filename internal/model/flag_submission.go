package model

import (
	"time"
)

// FlagSubmission 提交审计日志，只追加，作为反作弊取证依据
type FlagSubmission struct {
	BaseModel
	UserID        uint      `gorm:"index;type:bigint unsigned;not null" json:"UserID"`
	ChallengeID   uint      `gorm:"index;type:bigint unsigned;not null" json:"ChallengeID"`
	SubmittedFlag string    `gorm:"size:255;not null" json:"SubmittedFlag"` // 原文，不是正确flag
	IsCorrect     bool      `gorm:"default:false" json:"IsCorrect"`
	IPAddress     string    `gorm:"size:45" json:"IPAddress"`
	UserAgent     string    `gorm:"size:255" json:"UserAgent"`
	SubmittedAt   time.Time `gorm:"not null;index" json:"SubmittedAt"`
}

func (FlagSubmission) TableName() string {
	return "flag_submissions"
}
