package model

// Category 题目分类（Web/Pwn/Crypto等），由管理端维护
type Category struct {
	BaseModel
	Name        string `gorm:"size:50;unique;not null" json:"Name"`
	Description string `gorm:"size:255" json:"Description"`
}

func (Category) TableName() string {
	return "categories"
}
