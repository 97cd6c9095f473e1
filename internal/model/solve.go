package model

import (
	"time"
)

// Solve 解题记录，(UserID, ChallengeID) 唯一；创建后不再修改
// swagger:model Solve
type Solve struct {
	BaseModel
	UserID        uint      `gorm:"index:idx_user_challenge_solve,unique;type:bigint unsigned;not null" json:"UserID"`
	ChallengeID   uint      `gorm:"index:idx_user_challenge_solve,unique;type:bigint unsigned;not null" json:"ChallengeID"`
	SolvedAt      time.Time `gorm:"not null;index" json:"SolvedAt"`
	IsFirstBlood  bool      `gorm:"default:false" json:"IsFirstBlood"`
	PointsAwarded uint      `gorm:"not null" json:"PointsAwarded"` // 得分快照，后续改题不回溯
	HintsUsed     int       `gorm:"default:0" json:"HintsUsed"`
}

func (Solve) TableName() string {
	return "solves"
}
