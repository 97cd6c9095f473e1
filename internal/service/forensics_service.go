package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"time"

	"github.com/google/uuid"
)

// ForensicsService 提交审计：每次提交无条件落一条记录，只追加
type ForensicsService struct {
	SubmissionRepo *repository.SubmissionRepository
}

func NewForensicsService(submissionRepo *repository.SubmissionRepository) *ForensicsService {
	return &ForensicsService{SubmissionRepo: submissionRepo}
}

func (s *ForensicsService) LogSubmission(userID, challengeID uint, submittedFlag string, isCorrect bool, ipAddress, userAgent string, submittedAt time.Time) error {
	return s.SubmissionRepo.Create(&model.FlagSubmission{
		UserID:        userID,
		ChallengeID:   challengeID,
		SubmittedFlag: submittedFlag,
		IsCorrect:     isCorrect,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
		SubmittedAt:   submittedAt,
	})
}

// ForensicsReport 管理端取证视图，全部为派生数据
type ForensicsReport struct {
	ExportID        string    `json:"exportId"`
	WrongFlags      []string  `json:"wrongFlags"`
	AttemptGapsSecs []float64 `json:"attemptGapsSeconds"`
	IPs             []string  `json:"ips"`
	UserAgents      []string  `json:"userAgents"`
}

// GetForensics 聚合某题（challengeID 为 0 表示全部）的审计数据
func (s *ForensicsService) GetForensics(challengeID uint) (*ForensicsReport, error) {
	wrongFlags, err := s.SubmissionRepo.DistinctWrongFlags(challengeID)
	if err != nil {
		return nil, err
	}

	times, err := s.SubmissionRepo.SubmissionTimes(challengeID)
	if err != nil {
		return nil, err
	}
	gaps := make([]float64, 0, len(times))
	for i := 1; i < len(times); i++ {
		gaps = append(gaps, times[i].Sub(times[i-1]).Seconds())
	}

	ips, err := s.SubmissionRepo.DistinctIPs(challengeID)
	if err != nil {
		return nil, err
	}

	agents, err := s.SubmissionRepo.DistinctUserAgents(challengeID)
	if err != nil {
		return nil, err
	}

	return &ForensicsReport{
		ExportID:        uuid.New().String(),
		WrongFlags:      wrongFlags,
		AttemptGapsSecs: gaps,
		IPs:             ips,
		UserAgents:      agents,
	}, nil
}
