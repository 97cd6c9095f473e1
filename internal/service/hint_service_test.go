package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockHintDeductsOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "curious")
	challenge := env.createChallenge(t, "hinted-1", "CTF{h}", 100)
	require.NoError(t, env.scoring.ApplyScore(env.db, user.ID, 100))

	require.NoError(t, env.hints.Create(&model.Hint{
		ChallengeID: challenge.ID, Idx: 1, Content: "先看cookie", Cost: 30,
	}))

	view, err := env.hint.UnlockHint(user.ID, challenge.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "先看cookie", view.Content)
	assert.Equal(t, 30, view.Cost)
	assert.False(t, view.AlreadyUnlocked)

	// 重复解锁返回内容但不再扣分
	view, err = env.hint.UnlockHint(user.ID, challenge.ID, 1)
	require.NoError(t, err)
	assert.True(t, view.AlreadyUnlocked)

	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, updated.Score)
}

func TestUnlockHintFreeHint(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "freebie")
	challenge := env.createChallenge(t, "hinted-2", "CTF{f}", 100)

	require.NoError(t, env.hints.Create(&model.Hint{
		ChallengeID: challenge.ID, Idx: 1, Content: "免费提示", Cost: 0,
	}))

	view, err := env.hint.UnlockHint(user.ID, challenge.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Cost)

	updated, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Score)
}

func TestUnlockHintNotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "loster")
	challenge := env.createChallenge(t, "hinted-3", "CTF{n}", 100)

	_, err := env.hint.UnlockHint(user.ID, challenge.ID, 7)
	assert.ErrorIs(t, err, util.ErrHintNotFound)

	_, err = env.hint.UnlockHint(user.ID, 9999, 1)
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}
