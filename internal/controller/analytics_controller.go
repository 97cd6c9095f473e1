package controller

import (
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 题目统计
// @Description 提交总数、解题人数、平均解题耗时与难度评分
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/challenges/{id}/analytics [get]
func (c *AnalyticsController) GetChallengeAnalytics(ctx *gin.Context) {
	challengeID := util.MustParseUint(ctx.Param("id"))

	analytics, err := c.AnalyticsService.GetChallengeAnalytics(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}
