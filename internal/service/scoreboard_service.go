package service

import (
	"context"
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	scoreboardCacheKey = "ctf:scoreboard"
	solveFeedKey       = "ctf:solve_feed"
	solveFeedMaxLen    = 50
)

// ScoreboardService 排行榜与解题动态，Redis 做短TTL缓存
type ScoreboardService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	cacheTTL time.Duration
}

func NewScoreboardService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *ScoreboardService {
	return &ScoreboardService{
		UserRepo: userRepo,
		Redis:    rdb,
		cacheTTL: time.Duration(cfg.Scoring.ScoreboardCacheTT) * time.Second,
	}
}

type ScoreboardEntry struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	SolveStreak int    `json:"solveStreak"`
	Country     string `json:"country,omitempty"`
}

type SolveFeedEntry struct {
	UserID         uint      `json:"userId"`
	ChallengeID    uint      `json:"challengeId"`
	ChallengeTitle string    `json:"challengeTitle"`
	Points         uint      `json:"points"`
	IsFirstBlood   bool      `json:"isFirstBlood"`
	SolvedAt       time.Time `json:"solvedAt"`
}

func (s *ScoreboardService) GetScoreboard(limit int) ([]ScoreboardEntry, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("%s:%d", scoreboardCacheKey, limit)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []ScoreboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByScore(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]ScoreboardEntry, len(users))
	for i, user := range users {
		entries[i] = ScoreboardEntry{
			Rank:        i + 1,
			Name:        user.Name,
			Score:       user.Score,
			SolveStreak: user.SolveStreak,
			Country:     user.Country,
		}
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			s.Redis.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return entries, nil
}

// PushSolveFeed 解题后推送动态，列表截断到固定长度
func (s *ScoreboardService) PushSolveFeed(userID uint, challenge *model.Challenge, solve *model.Solve) error {
	if s.Redis == nil {
		return nil
	}

	entry := SolveFeedEntry{
		UserID:         userID,
		ChallengeID:    challenge.ID,
		ChallengeTitle: challenge.Title,
		Points:         solve.PointsAwarded,
		IsFirstBlood:   solve.IsFirstBlood,
		SolvedAt:       solve.SolvedAt,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pipe := s.Redis.Pipeline()
	pipe.LPush(ctx, solveFeedKey, data)
	pipe.LTrim(ctx, solveFeedKey, 0, solveFeedMaxLen-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *ScoreboardService) GetSolveFeed() ([]SolveFeedEntry, error) {
	if s.Redis == nil {
		return []SolveFeedEntry{}, nil
	}

	ctx := context.Background()
	items, err := s.Redis.LRange(ctx, solveFeedKey, 0, solveFeedMaxLen-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]SolveFeedEntry, 0, len(items))
	for _, item := range items {
		var entry SolveFeedEntry
		if json.Unmarshal([]byte(item), &entry) == nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
