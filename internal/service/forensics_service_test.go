package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForensicsAggregation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "suspect")
	challenge := env.createChallenge(t, "web-xss", "CTF{alert}", 100)

	wrongFlags := []string{"CTF{guess1}", "CTF{guess2}", "CTF{guess1}"}
	for _, flag := range wrongFlags {
		env.clearRateLimit(t, user.ID, challenge.ID)
		result, err := env.submission.SubmitFlag(user.ID, challenge.ID, flag, "10.1.0.1", "burp")
		require.NoError(t, err)
		assert.False(t, result.Correct)
	}
	env.clearRateLimit(t, user.ID, challenge.ID)
	_, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{alert}", "10.1.0.2", "firefox")
	require.NoError(t, err)

	// 四次有效提交对应四条审计记录
	count, err := env.submissions.CountByChallenge(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	report, err := env.forensics.GetForensics(challenge.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ExportID)
	// 错误flag去重，不含正确flag
	assert.ElementsMatch(t, []string{"CTF{guess1}", "CTF{guess2}"}, report.WrongFlags)
	assert.ElementsMatch(t, []string{"10.1.0.1", "10.1.0.2"}, report.IPs)
	assert.ElementsMatch(t, []string{"burp", "firefox"}, report.UserAgents)
	// N次提交产生N-1个间隔
	assert.Len(t, report.AttemptGapsSecs, 3)
	for _, gap := range report.AttemptGapsSecs {
		assert.GreaterOrEqual(t, gap, 0.0)
	}
}

func TestForensicsEmptyChallenge(t *testing.T) {
	env := newTestEnv(t)
	challenge := env.createChallenge(t, "untouched", "CTF{quiet}", 100)

	report, err := env.forensics.GetForensics(challenge.ID)
	require.NoError(t, err)
	assert.Empty(t, report.WrongFlags)
	assert.Empty(t, report.AttemptGapsSecs)
	assert.Empty(t, report.IPs)
	assert.Empty(t, report.UserAgents)
}

func TestForensicsScopedByChallenge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "scoped")
	first := env.createChallenge(t, "scope-a", "CTF{a}", 100)
	second := env.createChallenge(t, "scope-b", "CTF{b}", 100)

	_, err := env.submission.SubmitFlag(user.ID, first.ID, "CTF{wrong_a}", "10.1.0.3", "curl")
	require.NoError(t, err)
	_, err = env.submission.SubmitFlag(user.ID, second.ID, "CTF{wrong_b}", "10.1.0.3", "curl")
	require.NoError(t, err)

	report, err := env.forensics.GetForensics(first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CTF{wrong_a}"}, report.WrongFlags)

	// challengeID 为 0 表示跨题目的全量视图
	all, err := env.forensics.GetForensics(0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"CTF{wrong_a}", "CTF{wrong_b}"}, all.WrongFlags)
}
