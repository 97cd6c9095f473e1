package service

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/pkg/database"
	"ctf_platform_backend/pkg/logger"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

var testDBSeq int

// newTestDB 每个测试一个独立的内存库。
// 连接数限制为1，事务在连接池层面串行，避免 sqlite 锁冲突。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:svc_test_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	challenges  *repository.ChallengeRepository
	categories  *repository.CategoryRepository
	hints       *repository.HintRepository
	solves      *repository.SolveRepository
	submissions *repository.SubmissionRepository
	rateLimits  *repository.RateLimitRepository

	rateLimit   *RateLimitService
	scoring     *ScoringService
	forensics   *ForensicsService
	achievement *AchievementService
	submission  *SubmissionService
	analytics   *AnalyticsService
	hint        *HintService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		challenges:  repository.NewChallengeRepository(db),
		categories:  repository.NewCategoryRepository(db),
		hints:       repository.NewHintRepository(db),
		solves:      repository.NewSolveRepository(db),
		submissions: repository.NewSubmissionRepository(db),
		rateLimits:  repository.NewRateLimitRepository(db),
	}

	cfg := &config.Config{}
	cfg.Scoring.FirstBloodBonus = 0
	cfg.Scoring.ScoreboardCacheTT = 10

	env.rateLimit = NewRateLimitService(env.rateLimits)
	env.scoring = NewScoringService(env.users)
	env.forensics = NewForensicsService(env.submissions)
	env.achievement = NewAchievementService(repository.NewAchievementRepository(db), env.users)
	env.analytics = NewAnalyticsService(env.submissions, env.solves, env.challenges)
	env.hint = NewHintService(env.hints, env.challenges, env.scoring, db)
	env.submission = NewSubmissionService(
		env.challenges, env.solves, env.hints,
		env.rateLimit, env.scoring, env.forensics, env.achievement, nil,
		cfg, db,
	)

	return env
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
		Role:     model.RoleUser,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createChallenge(t *testing.T, title, flag string, points uint) *model.Challenge {
	t.Helper()
	category := &model.Category{Name: "cat-" + title}
	require.NoError(t, e.categories.Create(category))

	challenge := &model.Challenge{
		Title:      title,
		CategoryID: category.ID,
		Points:     points,
		Flag:       flag,
		IsActive:   true,
	}
	require.NoError(t, e.challenges.Create(challenge))
	return challenge
}

// clearRateLimit 测试中跳过真实等待
func (e *testEnv) clearRateLimit(t *testing.T, userID, challengeID uint) {
	t.Helper()
	past := time.Now().Add(-time.Minute)
	err := e.db.Model(&model.SubmissionRateLimit{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Update("next_allowed_at", past).Error
	require.NoError(t, err)
}
