package repository

import (
	"ctf_platform_backend/internal/model"

	"gorm.io/gorm"
)

// SolveRepository 处理解题记录的数据库操作
type SolveRepository struct {
	DB *gorm.DB
}

func NewSolveRepository(db *gorm.DB) *SolveRepository {
	return &SolveRepository{DB: db}
}

// Create 在事务内创建解题记录
func (r *SolveRepository) Create(tx *gorm.DB, solve *model.Solve) error {
	return tx.Create(solve).Error
}

// ExistsByUserAndChallenge 检查 (用户, 题目) 是否已有解题记录
func (r *SolveRepository) ExistsByUserAndChallenge(tx *gorm.DB, userID, challengeID uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Solve{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&count).Error
	return count > 0, err
}

// CountByChallenge 统计题目的解题数，一血判定在题目行锁内调用
func (r *SolveRepository) CountByChallenge(tx *gorm.DB, challengeID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Solve{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}

func (r *SolveRepository) CountByUser(tx *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Solve{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *SolveRepository) FindByUser(userID uint) ([]model.Solve, error) {
	var solves []model.Solve
	err := r.DB.Where("user_id = ?", userID).Order("solved_at DESC").Find(&solves).Error
	return solves, err
}

func (r *SolveRepository) FindByChallenge(challengeID uint) ([]model.Solve, error) {
	var solves []model.Solve
	err := r.DB.Where("challenge_id = ?", challengeID).Order("solved_at ASC").Find(&solves).Error
	return solves, err
}

func (r *SolveRepository) FindRecent(limit int) ([]model.Solve, error) {
	var solves []model.Solve
	err := r.DB.Order("solved_at DESC").Limit(limit).Find(&solves).Error
	return solves, err
}
