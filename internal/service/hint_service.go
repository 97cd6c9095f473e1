package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// HintService 提示解锁与扣分。
// 同一 (用户, 题目, 提示序号) 至多扣费一次，由唯一索引加事务内预检共同保证。
type HintService struct {
	HintRepo      *repository.HintRepository
	ChallengeRepo *repository.ChallengeRepository
	Scoring       *ScoringService
	DB            *gorm.DB
}

func NewHintService(
	hintRepo *repository.HintRepository,
	challengeRepo *repository.ChallengeRepository,
	scoring *ScoringService,
	db *gorm.DB,
) *HintService {
	return &HintService{
		HintRepo:      hintRepo,
		ChallengeRepo: challengeRepo,
		Scoring:       scoring,
		DB:            db,
	}
}

type HintView struct {
	Idx             int    `json:"idx"`
	Content         string `json:"content"`
	Cost            int    `json:"cost"`
	AlreadyUnlocked bool   `json:"alreadyUnlocked"`
}

// UnlockHint 解锁提示并扣分；重复解锁直接返回内容，不再扣分
func (s *HintService) UnlockHint(userID, challengeID uint, idx int) (*HintView, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	var view *HintView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		hint, err := s.HintRepo.FindByChallengeAndIdx(tx, challengeID, idx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrHintNotFound
			}
			return err
		}

		existing, err := s.HintRepo.FindUnlock(tx, userID, challengeID, idx)
		if err == nil && existing != nil {
			view = &HintView{Idx: hint.Idx, Content: hint.Content, Cost: hint.Cost, AlreadyUnlocked: true}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		unlock := &model.HintUnlock{
			UserID:      userID,
			ChallengeID: challengeID,
			HintIdx:     idx,
			Deducted:    hint.Cost,
		}
		if err := s.HintRepo.CreateUnlock(tx, unlock); err != nil {
			return err
		}

		if hint.Cost != 0 {
			if err := s.Scoring.ApplyScore(tx, userID, -hint.Cost); err != nil {
				return err
			}
		}

		view = &HintView{Idx: hint.Idx, Content: hint.Content, Cost: hint.Cost}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
