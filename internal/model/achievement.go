package model

type Achievement struct {
	BaseModel
	UserID   uint   `gorm:"index:idx_user_achievement,unique;type:bigint unsigned" json:"UserID"`
	Name     string `gorm:"index:idx_user_achievement,unique;size:100;not null" json:"Name"`
	Icon     string `gorm:"size:255" json:"Icon"`
	EarnedXP int    `gorm:"default:0" json:"EarnedXP"`
}

func (Achievement) TableName() string {
	return "achievements"
}
