package model

// Hint 题目提示，解锁时按 Cost 扣分
type Hint struct {
	BaseModel
	ChallengeID uint   `gorm:"index:idx_challenge_hint,unique;type:bigint unsigned;not null" json:"ChallengeID"`
	Idx         int    `gorm:"index:idx_challenge_hint,unique;not null" json:"Idx"`
	Content     string `gorm:"type:text;not null" json:"-"` // 解锁前不下发
	Cost        int    `gorm:"default:0" json:"Cost"`
}

func (Hint) TableName() string {
	return "hints"
}

// HintUnlock 记录 (用户, 题目, 提示序号) 的解锁，保证同一提示至多扣费一次
type HintUnlock struct {
	BaseModel
	UserID      uint `gorm:"index:idx_user_hint,unique;type:bigint unsigned;not null"`
	ChallengeID uint `gorm:"index:idx_user_hint,unique;type:bigint unsigned;not null"`
	HintIdx     int  `gorm:"index:idx_user_hint,unique;not null"`
	Deducted    int  `gorm:"default:0"` // 实际扣除的分数快照
}

func (HintUnlock) TableName() string {
	return "hint_unlocks"
}
