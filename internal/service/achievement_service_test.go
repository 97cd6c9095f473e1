package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateOnSolveAwards(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "achiever")

	env.achievement.EvaluateOnSolve(user.ID, 1, true)

	achievements, err := env.achievement.GetUserAchievements(user.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(achievements))
	for _, a := range achievements {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"初次解题", "一血猎手"}, names)
}

func TestEvaluateOnSolveIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "steady")

	env.achievement.EvaluateOnSolve(user.ID, 1, true)
	env.achievement.EvaluateOnSolve(user.ID, 1, true)

	achievements, err := env.achievement.GetUserAchievements(user.ID)
	require.NoError(t, err)
	assert.Len(t, achievements, 2)
}

func TestEvaluateOnSolveMilestones(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "grindmaster")

	env.achievement.EvaluateOnSolve(user.ID, 9, false)
	achievements, err := env.achievement.GetUserAchievements(user.ID)
	require.NoError(t, err)
	assert.Empty(t, achievements)

	env.achievement.EvaluateOnSolve(user.ID, 10, false)
	achievements, err = env.achievement.GetUserAchievements(user.ID)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "十题达人", achievements[0].Name)
}
