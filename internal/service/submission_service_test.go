package service

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/util"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagMatches(t *testing.T) {
	assert.True(t, FlagMatches("CTF{abc}", "CTF{abc}"))
	assert.True(t, FlagMatches("  CTF{abc}\n", "CTF{abc}"))
	assert.True(t, FlagMatches("CTF{abc}", "\tCTF{abc} "))
	// 区分大小写
	assert.False(t, FlagMatches("ctf{abc}", "CTF{abc}"))
	assert.False(t, FlagMatches("CTF{ABC}", "CTF{abc}"))
	// 内部空白不做归一化
	assert.False(t, FlagMatches("CTF{a b}", "CTF{ab}"))
}

func TestSubmitFlagValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "validator")
	challenge := env.createChallenge(t, "crypto-1", "CTF{secret}", 100)

	_, err := env.submission.SubmitFlag(user.ID, challenge.ID, "   ", "10.0.0.1", "curl")
	assert.ErrorIs(t, err, util.ErrFlagRequired)

	_, err = env.submission.SubmitFlag(user.ID, 9999, "CTF{secret}", "10.0.0.1", "curl")
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)

	challenge.IsActive = false
	require.NoError(t, env.challenges.Update(challenge))
	_, err = env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{secret}", "10.0.0.1", "curl")
	assert.ErrorIs(t, err, util.ErrChallengeInactive)

	// 被拒绝的提交不落审计记录
	count, err := env.submissions.CountByChallenge(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSubmitWrongFlagProgressiveWait(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "guesser")
	challenge := env.createChallenge(t, "misc-1", "CTF{real}", 100)

	result, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{nope}", "10.0.0.2", "curl")
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 5, result.NextAllowedInSeconds)

	// 等待期内再次提交被限流拒绝
	_, err = env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{nope}", "10.0.0.2", "curl")
	var rateLimited *util.RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
	assert.Greater(t, rateLimited.WaitSeconds, 0)

	// 第二次答错延迟升到10秒
	env.clearRateLimit(t, user.ID, challenge.ID)
	result, err = env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{still_nope}", "10.0.0.2", "curl")
	require.NoError(t, err)
	assert.Equal(t, 10, result.NextAllowedInSeconds)

	// 第三次起封顶15秒
	env.clearRateLimit(t, user.ID, challenge.ID)
	result, err = env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{nah}", "10.0.0.2", "curl")
	require.NoError(t, err)
	assert.Equal(t, 15, result.NextAllowedInSeconds)
}

func TestSubmitFlagEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	challenge := env.createChallenge(t, "web-sqli", "CTF{union_select}", 100)

	// alice 先答错一次
	result, err := env.submission.SubmitFlag(alice.ID, challenge.ID, "CTF{wrong}", "10.0.0.3", "firefox")
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 5, result.NextAllowedInSeconds)

	// 等待期过后提交正确flag（带首尾空白），拿下一血
	env.clearRateLimit(t, alice.ID, challenge.ID)
	result, err = env.submission.SubmitFlag(alice.ID, challenge.ID, " CTF{union_select} ", "10.0.0.3", "firefox")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.True(t, result.IsFirstBlood)
	assert.Equal(t, uint(100), result.PointsAwarded)

	// bob 随后解出，不是一血
	result, err = env.submission.SubmitFlag(bob.ID, challenge.ID, "CTF{union_select}", "10.0.0.4", "chrome")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.False(t, result.IsFirstBlood)

	updatedAlice, err := env.users.FindByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, updatedAlice.Score)
	assert.Equal(t, 1, updatedAlice.SolveStreak)

	updatedChallenge, err := env.challenges.FindByID(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), updatedChallenge.TotalSolves)

	// 每次有效提交恰好一条审计记录
	count, err := env.submissions.CountByChallenge(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSubmitFlagFirstBloodBonus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "hunter")
	challenge := env.createChallenge(t, "pwn-heap", "CTF{uaf}", 200)

	cfg := &config.Config{}
	cfg.Scoring.FirstBloodBonus = 50
	env.submission.UpdateScoringConfig(cfg)

	result, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{uaf}", "10.0.0.5", "pwntools")
	require.NoError(t, err)
	assert.True(t, result.IsFirstBlood)
	assert.Equal(t, uint(250), result.PointsAwarded)

	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, updated.Score)
}

func TestSubmitFlagAlreadySolved(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "repeat")
	challenge := env.createChallenge(t, "rev-1", "CTF{xor}", 100)

	_, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{xor}", "10.0.0.6", "ida")
	require.NoError(t, err)

	_, err = env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{xor}", "10.0.0.6", "ida")
	assert.ErrorIs(t, err, util.ErrAlreadySolved)

	solves, err := env.solves.FindByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, solves, 1)
}

func TestSubmitFlagConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "racer")
	challenge := env.createChallenge(t, "race-1", "CTF{tocttou}", 100)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{tocttou}", "10.0.0.7", "go-test")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, util.ErrAlreadySolved)
	}
	assert.Equal(t, 1, successes)

	// 不变量：同一 (用户, 题目) 至多一条解题记录，分数只入账一次
	solves, err := env.solves.FindByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, solves, 1)

	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Score)
}

func TestSubmitFlagSingleFirstBloodUnderContention(t *testing.T) {
	env := newTestEnv(t)
	challenge := env.createChallenge(t, "race-2", "CTF{lock}", 100)

	const workers = 6
	users := make([]*model.User, workers)
	for i := range users {
		users[i] = env.createUser(t, fmt.Sprintf("contender-%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.submission.SubmitFlag(users[i].ID, challenge.ID, "CTF{lock}", "10.0.0.8", "go-test")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	solves, err := env.solves.FindByChallenge(challenge.ID)
	require.NoError(t, err)
	require.Len(t, solves, workers)

	firstBloods := 0
	for _, solve := range solves {
		if solve.IsFirstBlood {
			firstBloods++
		}
	}
	assert.Equal(t, 1, firstBloods)

	updated, err := env.challenges.FindByID(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(workers), updated.TotalSolves)
}

func TestSubmitFlagRecordsHintsUsed(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "hinted")
	challenge := env.createChallenge(t, "crypto-rsa", "CTF{small_e}", 100)

	require.NoError(t, env.hints.Create(&model.Hint{
		ChallengeID: challenge.ID, Idx: 1, Content: "看看指数", Cost: 20,
	}))
	_, err := env.hint.UnlockHint(user.ID, challenge.ID, 1)
	require.NoError(t, err)

	result, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{small_e}", "10.0.0.9", "sage")
	require.NoError(t, err)
	assert.True(t, result.Correct)

	solves, err := env.solves.FindByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, solves, 1)
	assert.Equal(t, 1, solves[0].HintsUsed)

	// 提示扣20分，解题得100分
	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Score)
}

func TestSubmitFlagPointsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "early")
	bob := env.createUser(t, "late")
	challenge := env.createChallenge(t, "misc-snap", "CTF{snap}", 300)

	result, err := env.submission.SubmitFlag(alice.ID, challenge.ID, "CTF{snap}", "10.0.1.1", "curl")
	require.NoError(t, err)
	assert.Equal(t, uint(300), result.PointsAwarded)

	// 管理员改分后，历史得分不回溯，新解题按新分值
	challenge.Points = 150
	require.NoError(t, env.challenges.Update(challenge))

	result, err = env.submission.SubmitFlag(bob.ID, challenge.ID, "CTF{snap}", "10.0.1.2", "curl")
	require.NoError(t, err)
	assert.Equal(t, uint(150), result.PointsAwarded)

	solves, err := env.solves.FindByChallenge(challenge.ID)
	require.NoError(t, err)
	require.Len(t, solves, 2)
	for _, solve := range solves {
		if solve.UserID == alice.ID {
			assert.Equal(t, uint(300), solve.PointsAwarded)
		} else {
			assert.Equal(t, uint(150), solve.PointsAwarded)
		}
	}
}
