package repository

import (
	"ctf_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Save(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Preload("Category").First(&challenge, id).Error
	return &challenge, err
}

// FindByIDForUpdate 在事务内对题目行加锁。
// 一血判定与 TotalSolves 递增都以这把锁作为每题的临界区。
func (r *ChallengeRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := lockForUpdate(tx).First(&challenge, id).Error
	return &challenge, err
}

func (r *ChallengeRepository) FindActive() ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("is_active = ?", true).
		Preload("Category").
		Order("category_id ASC, points ASC").
		Find(&challenges).Error
	return challenges, err
}

// FindAll 管理端列表，支持分类/状态筛选与分页
func (r *ChallengeRepository) FindAll(categoryID uint, active *bool, offset, limit int) ([]model.Challenge, int64, error) {
	var challenges []model.Challenge
	var total int64

	query := r.DB.Model(&model.Challenge{}).Preload("Category")
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&challenges).Error
	return challenges, total, err
}
