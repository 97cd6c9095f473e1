package repository

import (
	"ctf_platform_backend/internal/model"

	"gorm.io/gorm"
)

type HintRepository struct {
	DB *gorm.DB
}

func NewHintRepository(db *gorm.DB) *HintRepository {
	return &HintRepository{DB: db}
}

func (r *HintRepository) Create(hint *model.Hint) error {
	return r.DB.Create(hint).Error
}

func (r *HintRepository) FindByChallenge(challengeID uint) ([]model.Hint, error) {
	var hints []model.Hint
	err := r.DB.Where("challenge_id = ?", challengeID).Order("idx ASC").Find(&hints).Error
	return hints, err
}

func (r *HintRepository) FindByChallengeAndIdx(tx *gorm.DB, challengeID uint, idx int) (*model.Hint, error) {
	var hint model.Hint
	err := tx.Where("challenge_id = ? AND idx = ?", challengeID, idx).First(&hint).Error
	if err != nil {
		return nil, err
	}
	return &hint, nil
}

// FindUnlock 查询用户是否已解锁某条提示
func (r *HintRepository) FindUnlock(tx *gorm.DB, userID, challengeID uint, idx int) (*model.HintUnlock, error) {
	var unlock model.HintUnlock
	err := tx.Where("user_id = ? AND challenge_id = ? AND hint_idx = ?", userID, challengeID, idx).
		First(&unlock).Error
	if err != nil {
		return nil, err
	}
	return &unlock, nil
}

func (r *HintRepository) CreateUnlock(tx *gorm.DB, unlock *model.HintUnlock) error {
	return tx.Create(unlock).Error
}

func (r *HintRepository) CountUnlocks(tx *gorm.DB, userID, challengeID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.HintUnlock{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&count).Error
	return count, err
}
