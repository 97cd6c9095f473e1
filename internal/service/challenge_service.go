package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ChallengeService 题目查询与管理端维护（flag 校验与计分不在这里）
type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	CategoryRepo  *repository.CategoryRepository
	HintRepo      *repository.HintRepository
	SolveRepo     *repository.SolveRepository
}

func NewChallengeService(
	challengeRepo *repository.ChallengeRepository,
	categoryRepo *repository.CategoryRepository,
	hintRepo *repository.HintRepository,
	solveRepo *repository.SolveRepository,
) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		CategoryRepo:  categoryRepo,
		HintRepo:      hintRepo,
		SolveRepo:     solveRepo,
	}
}

// ChallengeItem 用户可见的题目列表项，不含flag
type ChallengeItem struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	Points      uint   `json:"points"`
	TotalSolves uint   `json:"totalSolves"`
	Solved      bool   `json:"solved"`
}

type HintMeta struct {
	Idx  int `json:"idx"`
	Cost int `json:"cost"`
}

type ChallengeDetail struct {
	ChallengeItem
	Description string     `json:"description"`
	FlagFormat  string     `json:"flagFormat"`
	Hints       []HintMeta `json:"hints"`
}

type ChallengeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CategoryID  uint   `json:"categoryId" binding:"required"`
	Author      string `json:"author"`
	Points      uint   `json:"points" binding:"required"`
	Flag        string `json:"flag" binding:"required"`
	FlagFormat  string `json:"flagFormat"`
	IsActive    bool   `json:"isActive"`
}

// ListActive 用户题目列表，标注当前用户是否已解出
func (s *ChallengeService) ListActive(userID uint) ([]ChallengeItem, error) {
	challenges, err := s.ChallengeRepo.FindActive()
	if err != nil {
		return nil, err
	}

	solves, err := s.SolveRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	solvedSet := make(map[uint]bool, len(solves))
	for _, solve := range solves {
		solvedSet[solve.ChallengeID] = true
	}

	items := make([]ChallengeItem, len(challenges))
	for i, ch := range challenges {
		items[i] = ChallengeItem{
			ID:          ch.ID,
			Title:       ch.Title,
			Category:    ch.Category.Name,
			Author:      ch.Author,
			Points:      ch.Points,
			TotalSolves: ch.TotalSolves,
			Solved:      solvedSet[ch.ID],
		}
	}
	return items, nil
}

func (s *ChallengeService) GetDetail(userID, challengeID uint) (*ChallengeDetail, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}
	if !challenge.IsActive {
		return nil, util.ErrChallengeNotFound
	}

	hints, err := s.HintRepo.FindByChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	metas := make([]HintMeta, len(hints))
	for i, h := range hints {
		metas[i] = HintMeta{Idx: h.Idx, Cost: h.Cost}
	}

	solved, err := s.SolveRepo.ExistsByUserAndChallenge(s.ChallengeRepo.DB, userID, challengeID)
	if err != nil {
		return nil, err
	}

	return &ChallengeDetail{
		ChallengeItem: ChallengeItem{
			ID:          challenge.ID,
			Title:       challenge.Title,
			Category:    challenge.Category.Name,
			Author:      challenge.Author,
			Points:      challenge.Points,
			TotalSolves: challenge.TotalSolves,
			Solved:      solved,
		},
		Description: challenge.Description,
		FlagFormat:  challenge.FlagFormat,
		Hints:       metas,
	}, nil
}

// Create 管理端建题
func (s *ChallengeService) Create(req ChallengeRequest) (*model.Challenge, error) {
	if _, err := s.CategoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, util.ErrCategoryNotFound
	}
	if strings.TrimSpace(req.Flag) == "" {
		return nil, util.ErrFlagRequired
	}

	challenge := &model.Challenge{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Author:      req.Author,
		Points:      req.Points,
		Flag:        req.Flag,
		FlagFormat:  req.FlagFormat,
		IsActive:    req.IsActive,
	}
	if err := s.ChallengeRepo.Create(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// Update 管理端改题。改分只影响之后的解题，历史得分是快照。
func (s *ChallengeService) Update(challengeID uint, req ChallengeRequest) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	challenge.Title = req.Title
	challenge.Description = req.Description
	challenge.CategoryID = req.CategoryID
	challenge.Author = req.Author
	challenge.Points = req.Points
	if strings.TrimSpace(req.Flag) != "" {
		challenge.Flag = req.Flag
	}
	challenge.FlagFormat = req.FlagFormat
	challenge.IsActive = req.IsActive

	if err := s.ChallengeRepo.Update(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) SetActive(challengeID uint, active bool) error {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrChallengeNotFound
		}
		return err
	}
	challenge.IsActive = active
	return s.ChallengeRepo.Update(challenge)
}

// ListAll 管理端列表
func (s *ChallengeService) ListAll(categoryID uint, active *bool, page, limit int) ([]model.Challenge, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.ChallengeRepo.FindAll(categoryID, active, (page-1)*limit, limit)
}

type HintRequest struct {
	Idx     int    `json:"idx"`
	Content string `json:"content" binding:"required"`
	Cost    int    `json:"cost"`
}

// AddHint 管理端为题目追加提示
func (s *ChallengeService) AddHint(challengeID uint, req HintRequest) (*model.Hint, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}

	hint := &model.Hint{
		ChallengeID: challengeID,
		Idx:         req.Idx,
		Content:     req.Content,
		Cost:        req.Cost,
	}
	if err := s.HintRepo.Create(hint); err != nil {
		return nil, err
	}
	return hint, nil
}

func (s *ChallengeService) ListCategories() ([]model.Category, error) {
	return s.CategoryRepo.FindAll()
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *ChallengeService) CreateCategory(req CategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.CategoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *ChallengeService) UpdateCategory(id uint, req CategoryRequest) (*model.Category, error) {
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.CategoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *ChallengeService) DeleteCategory(id uint) error {
	if _, err := s.CategoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCategoryNotFound
		}
		return err
	}
	return s.CategoryRepo.Delete(id)
}
