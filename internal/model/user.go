package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name        string     `gorm:"size:100;unique;not null" json:"Name"`
	Email       string     `gorm:"size:100;unique;not null" json:"Email"`
	Password    string     `gorm:"size:100;not null" json:"-"`
	Role        UserRole   `gorm:"type:enum('user','admin');default:'user'" json:"Role"`
	Score       int        `gorm:"default:0" json:"Score"`             // 总积分，只允许计分引擎与提示扣分修改
	SolveStreak int        `gorm:"default:0" json:"SolveStreak"`       // 连续解题天数
	LastSolveAt *time.Time `gorm:"index" json:"LastSolveAt,omitempty"` // 最近一次解题时间
	Country     string     `gorm:"size:10" json:"Country"`
	Disabled    bool       `gorm:"default:false" json:"Disabled"`
	LastLogin   time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"LastLogin"`
}

func (User) TableName() string {
	return "users"
}
