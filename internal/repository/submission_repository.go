package repository

import (
	"ctf_platform_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// SubmissionRepository 处理提交审计日志，只追加不修改
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.FlagSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) CountByChallenge(challengeID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.FlagSubmission{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}

// scoped 按可选题目过滤
func (r *SubmissionRepository) scoped(challengeID uint) *gorm.DB {
	query := r.DB.Model(&model.FlagSubmission{})
	if challengeID != 0 {
		query = query.Where("challenge_id = ?", challengeID)
	}
	return query
}

// DistinctWrongFlags 取证视图：某题收到过的所有错误flag去重
func (r *SubmissionRepository) DistinctWrongFlags(challengeID uint) ([]string, error) {
	var flags []string
	err := r.scoped(challengeID).
		Where("is_correct = ?", false).
		Distinct("submitted_flag").
		Order("submitted_flag ASC").
		Pluck("submitted_flag", &flags).Error
	return flags, err
}

// SubmissionTimes 按提交时间升序返回时间戳，用于计算相邻提交间隔
func (r *SubmissionRepository) SubmissionTimes(challengeID uint) ([]time.Time, error) {
	var times []time.Time
	err := r.scoped(challengeID).
		Order("submitted_at ASC").
		Pluck("submitted_at", &times).Error
	return times, err
}

func (r *SubmissionRepository) DistinctIPs(challengeID uint) ([]string, error) {
	var ips []string
	err := r.scoped(challengeID).
		Distinct("ip_address").
		Order("ip_address ASC").
		Pluck("ip_address", &ips).Error
	return ips, err
}

func (r *SubmissionRepository) DistinctUserAgents(challengeID uint) ([]string, error) {
	var agents []string
	err := r.scoped(challengeID).
		Distinct("user_agent").
		Order("user_agent ASC").
		Pluck("user_agent", &agents).Error
	return agents, err
}
