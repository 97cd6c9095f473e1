package service

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"ctf_platform_backend/pkg/logger"
	"ctf_platform_backend/pkg/monitoring"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService 提交主流程：限流 → 校验 → 审计 → 记录解题 → 计分
type SubmissionService struct {
	ChallengeRepo *repository.ChallengeRepository
	SolveRepo     *repository.SolveRepository
	HintRepo      *repository.HintRepository
	RateLimit     *RateLimitService
	Scoring       *ScoringService
	Forensics     *ForensicsService
	Achievement   *AchievementService
	Scoreboard    *ScoreboardService
	DB            *gorm.DB

	mu              sync.RWMutex
	firstBloodBonus int // 一血加成，支持配置热更新
}

func NewSubmissionService(
	challengeRepo *repository.ChallengeRepository,
	solveRepo *repository.SolveRepository,
	hintRepo *repository.HintRepository,
	rateLimit *RateLimitService,
	scoring *ScoringService,
	forensics *ForensicsService,
	achievement *AchievementService,
	scoreboard *ScoreboardService,
	cfg *config.Config,
	db *gorm.DB,
) *SubmissionService {
	return &SubmissionService{
		ChallengeRepo:   challengeRepo,
		SolveRepo:       solveRepo,
		HintRepo:        hintRepo,
		RateLimit:       rateLimit,
		Scoring:         scoring,
		Forensics:       forensics,
		Achievement:     achievement,
		Scoreboard:      scoreboard,
		DB:              db,
		firstBloodBonus: cfg.Scoring.FirstBloodBonus,
	}
}

// UpdateScoringConfig 配置热更新回调
func (s *SubmissionService) UpdateScoringConfig(cfg *config.Config) {
	s.mu.Lock()
	s.firstBloodBonus = cfg.Scoring.FirstBloodBonus
	s.mu.Unlock()
}

func (s *SubmissionService) bonus() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.firstBloodBonus
}

type SubmitResult struct {
	Correct              bool `json:"correct"`
	PointsAwarded        uint `json:"pointsAwarded,omitempty"`
	IsFirstBlood         bool `json:"isFirstBlood,omitempty"`
	NextAllowedInSeconds int  `json:"nextAllowedInSeconds,omitempty"`
}

// FlagMatches 提交原文与密文两侧去首尾空白后精确比较，区分大小写。
// flag 格式提示只是展示信息，不参与匹配。
func FlagMatches(submitted, stored string) bool {
	return strings.TrimSpace(submitted) == strings.TrimSpace(stored)
}

// SubmitFlag 处理一次flag提交。
// 错误flag只返回统一提示与等待时间，不泄露任何与flag内容相关的信息。
func (s *SubmissionService) SubmitFlag(userID, challengeID uint, submittedFlag, ipAddress, userAgent string) (*SubmitResult, error) {
	if strings.TrimSpace(submittedFlag) == "" {
		return nil, util.ErrFlagRequired
	}

	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChallengeNotFound
		}
		return nil, err
	}
	if !challenge.IsActive {
		return nil, util.ErrChallengeInactive
	}

	solved, err := s.SolveRepo.ExistsByUserAndChallenge(s.DB, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if solved {
		monitoring.FlagSubmissionCounter.WithLabelValues("already_solved").Inc()
		return nil, util.ErrAlreadySolved
	}

	allowed, wait, err := s.RateLimit.CanSubmit(userID, challengeID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		monitoring.FlagSubmissionCounter.WithLabelValues("rate_limited").Inc()
		return nil, &util.RateLimitedError{WaitSeconds: wait}
	}

	now := time.Now()
	correct := FlagMatches(submittedFlag, challenge.Flag)

	// 审计日志无论对错都恰好落一条
	if err := s.Forensics.LogSubmission(userID, challengeID, submittedFlag, correct, ipAddress, userAgent, now); err != nil {
		return nil, err
	}

	if !correct {
		return s.handleWrongSubmission(userID, challengeID, now)
	}
	return s.handleCorrectSubmission(userID, challenge, now)
}

func (s *SubmissionService) handleWrongSubmission(userID, challengeID uint, now time.Time) (*SubmitResult, error) {
	var record *model.SubmissionRateLimit
	recordFailure := func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			record, txErr = s.RateLimit.RecordFailure(tx, userID, challengeID, now)
			return txErr
		})
	}
	if err := recordFailure(); err != nil {
		// 首条限流记录可能被并发提交抢先插入，撞唯一索引后重试一次走更新路径
		if err = recordFailure(); err != nil {
			return nil, err
		}
	}

	monitoring.FlagSubmissionCounter.WithLabelValues("wrong").Inc()
	return &SubmitResult{
		Correct:              false,
		NextAllowedInSeconds: int(DelayForAttempts(record.Attempts).Seconds()),
	}, nil
}

func (s *SubmissionService) handleCorrectSubmission(userID uint, challenge *model.Challenge, now time.Time) (*SubmitResult, error) {
	var solve model.Solve
	var solveCount int64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// 对题目行加锁：一血判定与 TotalSolves 递增的临界区按题目串行化，
		// 两个用户抢同一题的第一滴血时只有先拿到锁的能赢。
		locked, err := s.ChallengeRepo.FindByIDForUpdate(tx, challenge.ID)
		if err != nil {
			return err
		}

		// 锁内复查，挡掉同一用户的并发重复提交
		exists, err := s.SolveRepo.ExistsByUserAndChallenge(tx, userID, challenge.ID)
		if err != nil {
			return err
		}
		if exists {
			return util.ErrAlreadySolved
		}

		priorSolves, err := s.SolveRepo.CountByChallenge(tx, challenge.ID)
		if err != nil {
			return err
		}
		isFirstBlood := priorSolves == 0

		// 得分按题目当前分值快照，后续改分不回溯历史记录
		awarded := int(locked.Points)
		if isFirstBlood {
			awarded += s.bonus()
		}

		hintsUsed, err := s.HintRepo.CountUnlocks(tx, userID, challenge.ID)
		if err != nil {
			return err
		}

		solve = model.Solve{
			UserID:        userID,
			ChallengeID:   challenge.ID,
			SolvedAt:      now,
			IsFirstBlood:  isFirstBlood,
			PointsAwarded: uint(awarded),
			HintsUsed:     int(hintsUsed),
		}
		if err := s.SolveRepo.Create(tx, &solve); err != nil {
			return err
		}

		locked.TotalSolves++
		if err := tx.Model(&model.Challenge{}).
			Where("id = ?", locked.ID).
			Update("total_solves", locked.TotalSolves).Error; err != nil {
			return err
		}

		if err := s.Scoring.ApplySolve(tx, userID, awarded, now); err != nil {
			return err
		}

		solveCount, err = s.SolveRepo.CountByUser(tx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, util.ErrAlreadySolved) {
			monitoring.FlagSubmissionCounter.WithLabelValues("already_solved").Inc()
		}
		return nil, err
	}

	monitoring.FlagSubmissionCounter.WithLabelValues("correct").Inc()
	if solve.IsFirstBlood {
		monitoring.FirstBloodCounter.Inc()
	}

	// 成就与解题动态是尽力而为的副作用，失败不影响本次解题
	s.Achievement.EvaluateOnSolve(userID, solveCount, solve.IsFirstBlood)
	if s.Scoreboard != nil {
		if err := s.Scoreboard.PushSolveFeed(userID, challenge, &solve); err != nil {
			logger.Log.Warn("solve feed push failed",
				zap.Uint("userID", userID), zap.Uint("challengeID", challenge.ID), zap.Error(err))
		}
	}

	return &SubmitResult{
		Correct:       true,
		PointsAwarded: solve.PointsAwarded,
		IsFirstBlood:  solve.IsFirstBlood,
	}, nil
}
