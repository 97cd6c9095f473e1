package service

import (
	"ctf_platform_backend/internal/repository"
)

// AnalyticsService 管理端题目统计
type AnalyticsService struct {
	SubmissionRepo *repository.SubmissionRepository
	SolveRepo      *repository.SolveRepository
	ChallengeRepo  *repository.ChallengeRepository
}

func NewAnalyticsService(
	submissionRepo *repository.SubmissionRepository,
	solveRepo *repository.SolveRepository,
	challengeRepo *repository.ChallengeRepository,
) *AnalyticsService {
	return &AnalyticsService{
		SubmissionRepo: submissionRepo,
		SolveRepo:      solveRepo,
		ChallengeRepo:  challengeRepo,
	}
}

type ChallengeAnalytics struct {
	ChallengeID     uint    `json:"challengeId"`
	TotalAttempts   int64   `json:"totalAttempts"`
	UniqueSolvers   int64   `json:"uniqueSolvers"`
	AvgSolveSeconds float64 `json:"avgSolveSeconds"`
	Difficulty      int     `json:"difficulty"` // 1-10，无提交时默认5
}

// GetChallengeAnalytics 难度评分 = min(10, floor(attempts / max(1, solvers) * 2))
func (s *AnalyticsService) GetChallengeAnalytics(challengeID uint) (*ChallengeAnalytics, error) {
	challenge, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.SubmissionRepo.CountByChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	solves, err := s.SolveRepo.FindByChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	solvers := int64(len(solves))

	var avgSolveSeconds float64
	if solvers > 0 {
		var total float64
		for _, solve := range solves {
			total += solve.SolvedAt.Sub(challenge.CreatedAt).Seconds()
		}
		avgSolveSeconds = total / float64(solvers)
	}

	difficulty := 5
	if attempts > 0 {
		divisor := solvers
		if divisor < 1 {
			divisor = 1
		}
		difficulty = int(float64(attempts) / float64(divisor) * 2)
		if difficulty > 10 {
			difficulty = 10
		}
	}

	return &ChallengeAnalytics{
		ChallengeID:     challengeID,
		TotalAttempts:   attempts,
		UniqueSolvers:   solvers,
		AvgSolveSeconds: avgSolveSeconds,
		Difficulty:      difficulty,
	}, nil
}
