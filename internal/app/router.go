package app

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/middleware"
	"ctf_platform_backend/internal/model"

	"ctf_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerPlayerRoutes(authGroup, c)
	}

	// 3. 管理端接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/categories", c.category.ListCategories)
		public.GET("/scoreboard", c.scoreboard.GetScoreboard)
		public.GET("/solves/feed", c.scoreboard.GetSolveFeed)
	}
}

func (a *App) registerPlayerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.GetProfile)
	rg.GET("/achievements", c.achievement.GetUserAchievements)

	// 题目与提交
	rg.GET("/challenges", c.challenge.ListChallenges)
	rg.GET("/challenges/:id", c.challenge.GetChallengeDetail)
	rg.POST("/challenges/:id/submit", c.challenge.SubmitFlag)
	rg.GET("/challenges/:id/ratelimit", c.challenge.GetRateLimitStatus)
	rg.POST("/challenges/:id/hints/:idx/unlock", c.challenge.UnlockHint)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/challenges", c.challenge.AdminListChallenges)
		admin.POST("/challenges", c.challenge.AdminCreateChallenge)
		admin.PUT("/challenges/:id", c.challenge.AdminUpdateChallenge)
		admin.PATCH("/challenges/:id/active", c.challenge.AdminSetActive)
		admin.POST("/challenges/:id/hints", c.challenge.AdminAddHint)
		admin.GET("/challenges/:id/analytics", c.analytics.GetChallengeAnalytics)

		admin.POST("/categories", c.category.CreateCategory)
		admin.PUT("/categories/:id", c.category.UpdateCategory)
		admin.DELETE("/categories/:id", c.category.DeleteCategory)

		admin.GET("/forensics", c.forensics.GetForensics)
	}
}
