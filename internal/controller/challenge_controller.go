package controller

import (
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService  *service.ChallengeService
	SubmissionService *service.SubmissionService
	RateLimitService  *service.RateLimitService
	HintService       *service.HintService
}

func NewChallengeController(
	challengeService *service.ChallengeService,
	submissionService *service.SubmissionService,
	rateLimitService *service.RateLimitService,
	hintService *service.HintService,
) *ChallengeController {
	return &ChallengeController{
		ChallengeService:  challengeService,
		SubmissionService: submissionService,
		RateLimitService:  rateLimitService,
		HintService:       hintService,
	}
}

// @Summary 题目列表
// @Description 当前开放的题目，标注本人是否已解出
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/challenges [get]
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	items, err := c.ChallengeService.ListActive(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"total": len(items), "challenges": items})
}

// @Summary 题目详情
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) GetChallengeDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	detail, err := c.ChallengeService.GetDetail(user.UserID, challengeID)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// SubmitFlagRequest flag提交请求体
type SubmitFlagRequest struct {
	Flag string `json:"flag" binding:"required"`
}

// @Summary 提交Flag
// @Description 校验flag，正确则记录解题并计分；错误只返回统一提示与等待时间
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body SubmitFlagRequest true "提交内容"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在或未开放"
// @Failure 409 {object} util.Response "已解出"
// @Failure 429 {object} util.Response "提交过于频繁"
// @Router /api/challenges/{id}/submit [post]
func (c *ChallengeController) SubmitFlag(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitFlagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "flag is required")
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	result, err := c.SubmissionService.SubmitFlag(
		user.UserID,
		challengeID,
		req.Flag,
		ctx.ClientIP(),
		ctx.Request.UserAgent(),
	)
	if err != nil {
		var rateLimited *util.RateLimitedError
		switch {
		case errors.Is(err, util.ErrFlagRequired):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrChallengeNotFound), errors.Is(err, util.ErrChallengeInactive):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrAlreadySolved):
			util.Error(ctx, http.StatusConflict, err.Error())
		case errors.As(err, &rateLimited):
			ctx.JSON(http.StatusTooManyRequests, util.Response{
				Code:    http.StatusTooManyRequests,
				Message: "too many wrong attempts",
				Data:    gin.H{"waitSeconds": rateLimited.WaitSeconds},
			})
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 提交限流状态
// @Description 当前是否允许对该题提交，以及剩余等待秒数
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id}/ratelimit [get]
func (c *ChallengeController) GetRateLimitStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	status, err := c.RateLimitService.Status(user.UserID, challengeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// @Summary 解锁提示
// @Description 解锁题目提示并扣分，重复解锁不重复扣费
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param idx path int true "提示序号"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/challenges/{id}/hints/{idx}/unlock [post]
func (c *ChallengeController) UnlockHint(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	idx, err := strconv.Atoi(ctx.Param("idx"))
	if err != nil {
		util.BadRequest(ctx, "invalid hint index")
		return
	}

	view, err := c.HintService.UnlockHint(user.UserID, challengeID, idx)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) || errors.Is(err, util.ErrHintNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// ---- 管理端 ----

// @Summary 管理端题目列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/challenges [get]
func (c *ChallengeController) AdminListChallenges(ctx *gin.Context) {
	categoryID := util.MustParseUint(ctx.Query("category_id"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	var active *bool
	if activeStr := ctx.Query("active"); activeStr != "" {
		v := activeStr == "true"
		active = &v
	}

	challenges, total, err := c.ChallengeService.ListAll(categoryID, active, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  challenges,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 管理端建题
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ChallengeRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/admin/challenges [post]
func (c *ChallengeController) AdminCreateChallenge(ctx *gin.Context) {
	var req service.ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challenge, err := c.ChallengeService.Create(req)
	if err != nil {
		if errors.Is(err, util.ErrCategoryNotFound) || errors.Is(err, util.ErrFlagRequired) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": challenge.ID})
}

// @Summary 管理端改题
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.ChallengeRequest true "题目信息"
// @Success 200 {object} util.Response
// @Router /api/admin/challenges/{id} [put]
func (c *ChallengeController) AdminUpdateChallenge(ctx *gin.Context) {
	var req service.ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	challenge, err := c.ChallengeService.Update(challengeID, req)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": challenge.ID})
}

// AdminSetActiveRequest 上下架请求体
type AdminSetActiveRequest struct {
	Active bool `json:"active"`
}

// @Summary 管理端题目上下架
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/challenges/{id}/active [patch]
func (c *ChallengeController) AdminSetActive(ctx *gin.Context) {
	var req AdminSetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	if err := c.ChallengeService.SetActive(challengeID, req.Active); err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"active": req.Active})
}

// @Summary 管理端追加提示
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.HintRequest true "提示内容"
// @Success 201 {object} util.Response
// @Router /api/admin/challenges/{id}/hints [post]
func (c *ChallengeController) AdminAddHint(ctx *gin.Context) {
	var req service.HintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challengeID := util.MustParseUint(ctx.Param("id"))
	hint, err := c.ChallengeService.AddHint(challengeID, req)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": hint.ID, "idx": hint.Idx})
}
