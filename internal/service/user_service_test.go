package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileWithRank(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.users, env.solves)

	first := env.createUser(t, "rank-first")
	second := env.createUser(t, "rank-second")
	third := env.createUser(t, "rank-third")

	require.NoError(t, env.scoring.ApplySolve(env.db, first.ID, 300, time.Now()))
	require.NoError(t, env.scoring.ApplySolve(env.db, second.ID, 200, time.Now()))
	require.NoError(t, env.scoring.ApplySolve(env.db, third.ID, 100, time.Now()))

	profile, err := users.GetProfile(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, profile.Score)
	assert.Equal(t, int64(2), profile.Rank)
	assert.Equal(t, 1, profile.SolveStreak)
}

func TestGetProfileIncludesSolves(t *testing.T) {
	env := newTestEnv(t)
	users := NewUserService(env.users, env.solves)

	user := env.createUser(t, "profiled")
	challenge := env.createChallenge(t, "profile-ch", "CTF{me}", 100)
	_, err := env.submission.SubmitFlag(user.ID, challenge.ID, "CTF{me}", "10.3.0.1", "curl")
	require.NoError(t, err)

	profile, err := users.GetProfile(user.ID)
	require.NoError(t, err)
	require.Len(t, profile.Solves, 1)
	assert.Equal(t, challenge.ID, profile.Solves[0].ChallengeID)
}
