package database

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认题目分类（首次启动时插入）
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaultCategories := []model.Category{
			{Name: "Web", Description: "Web 渗透与漏洞利用"},
			{Name: "Pwn", Description: "二进制漏洞利用"},
			{Name: "Crypto", Description: "密码学"},
			{Name: "Reverse", Description: "逆向工程"},
			{Name: "Misc", Description: "杂项"},
		}
		for _, c := range defaultCategories {
			db.Create(&c)
		}
	}

	return db, nil
}

// Migrate 建表与索引，测试库也走同一份迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Challenge{},
		&model.Hint{},
		&model.HintUnlock{},
		&model.Solve{},
		&model.FlagSubmission{},
		&model.SubmissionRateLimit{},
		&model.Achievement{},
	)
}
