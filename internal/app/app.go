package app

import (
	"context"
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/controller"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/service"
	"ctf_platform_backend/pkg/configwatcher"
	"ctf_platform_backend/pkg/database"
	"ctf_platform_backend/pkg/logger"
	"ctf_platform_backend/pkg/monitoring"
	"ctf_platform_backend/pkg/security"
	"ctf_platform_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	category    *repository.CategoryRepository
	challenge   *repository.ChallengeRepository
	hint        *repository.HintRepository
	solve       *repository.SolveRepository
	submission  *repository.SubmissionRepository
	rateLimit   *repository.RateLimitRepository
	achievement *repository.AchievementRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	challenge   *service.ChallengeService
	rateLimit   *service.RateLimitService
	scoring     *service.ScoringService
	forensics   *service.ForensicsService
	achievement *service.AchievementService
	scoreboard  *service.ScoreboardService
	submission  *service.SubmissionService
	analytics   *service.AnalyticsService
	hint        *service.HintService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	challenge   *controller.ChallengeController
	category    *controller.CategoryController
	scoreboard  *controller.ScoreboardController
	achievement *controller.AchievementController
	forensics   *controller.ForensicsController
	analytics   *controller.AnalyticsController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		category:    repository.NewCategoryRepository(db),
		challenge:   repository.NewChallengeRepository(db),
		hint:        repository.NewHintRepository(db),
		solve:       repository.NewSolveRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		rateLimit:   repository.NewRateLimitRepository(db),
		achievement: repository.NewAchievementRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.solve)
	s.challenge = service.NewChallengeService(repos.challenge, repos.category, repos.hint, repos.solve)
	s.rateLimit = service.NewRateLimitService(repos.rateLimit)
	s.scoring = service.NewScoringService(repos.user)
	s.forensics = service.NewForensicsService(repos.submission)
	s.achievement = service.NewAchievementService(repos.achievement, repos.user)
	s.scoreboard = service.NewScoreboardService(repos.user, rdb, cfg)
	s.analytics = service.NewAnalyticsService(repos.submission, repos.solve, repos.challenge)
	s.hint = service.NewHintService(repos.hint, repos.challenge, s.scoring, db)

	s.submission = service.NewSubmissionService(
		repos.challenge,
		repos.solve,
		repos.hint,
		s.rateLimit,
		s.scoring,
		s.forensics,
		s.achievement,
		s.scoreboard,
		cfg,
		db,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		challenge:   controller.NewChallengeController(s.challenge, s.submission, s.rateLimit, s.hint),
		category:    controller.NewCategoryController(s.challenge),
		scoreboard:  controller.NewScoreboardController(s.scoreboard),
		achievement: controller.NewAchievementController(s.achievement),
		forensics:   controller.NewForensicsController(s.forensics),
		analytics:   controller.NewAnalyticsController(s.analytics),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 监听配置文件，热更新计分参数
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(cfg interface{}) {
		newCfg, ok := cfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("config reloaded",
			zap.Int("firstBloodBonus", newCfg.Scoring.FirstBloodBonus))
		for _, callback := range a.configCallbacks {
			callback(newCfg)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 默认管理员账号走凭证签发服务创建，不写在迁移里
	if err := services.auth.EnsureDefaultAdmin(); err != nil {
		logger.Log.Fatal("Failed to ensure default admin", zap.Error(err))
	}

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("ctf-arena", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(services.submission.UpdateScoringConfig)
	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
