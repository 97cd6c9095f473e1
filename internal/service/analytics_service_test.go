package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsDefaultDifficulty(t *testing.T) {
	env := newTestEnv(t)
	challenge := env.createChallenge(t, "no-data", "CTF{zero}", 100)

	analytics, err := env.analytics.GetChallengeAnalytics(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), analytics.TotalAttempts)
	assert.Equal(t, int64(0), analytics.UniqueSolvers)
	// 无提交数据时缺省难度5
	assert.Equal(t, 5, analytics.Difficulty)
}

func TestAnalyticsDifficultyFormula(t *testing.T) {
	env := newTestEnv(t)
	challenge := env.createChallenge(t, "hard-one", "CTF{grind}", 100)
	user := env.createUser(t, "grinder")

	// 5次答错 + 1次答对 = 6次尝试，1个解出者 → floor(6/1*2) 截断到 10
	for i := 0; i < 5; i++ {
		env.clearRateLimit(t, user.ID, challenge.ID)
		_, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{no}", "10.2.0.1", "curl")
		require.NoError(t, err)
	}
	env.clearRateLimit(t, user.ID, challenge.ID)
	_, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{grind}", "10.2.0.1", "curl")
	require.NoError(t, err)

	analytics, err := env.analytics.GetChallengeAnalytics(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), analytics.TotalAttempts)
	assert.Equal(t, int64(1), analytics.UniqueSolvers)
	assert.Equal(t, 10, analytics.Difficulty)
	assert.GreaterOrEqual(t, analytics.AvgSolveSeconds, 0.0)
}

func TestAnalyticsEasyChallenge(t *testing.T) {
	env := newTestEnv(t)
	challenge := env.createChallenge(t, "easy-one", "CTF{gift}", 50)

	// 两人各一次提交全部答对 → floor(2/2*2) = 2
	for _, name := range []string{"solver-a", "solver-b"} {
		user := env.createUser(t, name)
		_, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{gift}", "10.2.0.2", "curl")
		require.NoError(t, err)
	}

	analytics, err := env.analytics.GetChallengeAnalytics(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), analytics.TotalAttempts)
	assert.Equal(t, int64(2), analytics.UniqueSolvers)
	assert.Equal(t, 2, analytics.Difficulty)
}
