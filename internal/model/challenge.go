package model

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title       string   `gorm:"size:100;unique;not null" json:"Title"`
	Description string   `gorm:"type:text" json:"Description"`
	CategoryID  uint     `gorm:"index;type:bigint unsigned;not null" json:"CategoryID"`
	Category    Category `gorm:"foreignKey:CategoryID" json:"Category,omitempty"`
	Author      string   `gorm:"size:50" json:"Author"`
	Points      uint     `gorm:"not null" json:"Points"`
	Flag        string   `gorm:"size:255;not null" json:"-"`    // 精确匹配的密文，绝不下发
	FlagFormat  string   `gorm:"size:100" json:"FlagFormat"`    // 仅用于展示提示，不参与校验
	IsActive    bool     `gorm:"default:false" json:"IsActive"` // 是否开放提交
	TotalSolves uint     `gorm:"default:0" json:"TotalSolves"`  // 冗余计数，仅由解题记录器递增
	Hints       []Hint   `gorm:"foreignKey:ChallengeID" json:"Hints,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}
