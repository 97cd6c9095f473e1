package controller

import (
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ScoreboardController struct {
	ScoreboardService *service.ScoreboardService
}

func NewScoreboardController(scoreboardService *service.ScoreboardService) *ScoreboardController {
	return &ScoreboardController{ScoreboardService: scoreboardService}
}

// @Summary 排行榜
// @Description 按总分排序的用户排行
// @Tags 排行榜
// @Produce json
// @Param limit query int false "返回数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/scoreboard [get]
func (c *ScoreboardController) GetScoreboard(ctx *gin.Context) {
	limit := 20
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	entries, err := c.ScoreboardService.GetScoreboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// @Summary 解题动态
// @Description 最近的解题动态（含一血标记）
// @Tags 排行榜
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/solves/feed [get]
func (c *ScoreboardController) GetSolveFeed(ctx *gin.Context) {
	feed, err := c.ScoreboardService.GetSolveFeed()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, feed)
}
