package controller

import (
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ForensicsController struct {
	ForensicsService *service.ForensicsService
}

func NewForensicsController(forensicsService *service.ForensicsService) *ForensicsController {
	return &ForensicsController{ForensicsService: forensicsService}
}

// @Summary 提交取证
// @Description 聚合提交审计：错误flag去重、相邻提交间隔、IP与UA列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param challenge_id query int false "题目ID，缺省为全部"
// @Success 200 {object} util.Response
// @Router /api/admin/forensics [get]
func (c *ForensicsController) GetForensics(ctx *gin.Context) {
	challengeID := util.MustParseUint(ctx.Query("challenge_id"))

	report, err := c.ForensicsService.GetForensics(challengeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
