package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/ascenso/config"
	"github.com/lshigami/ascenso/database"
	_ "github.com/lshigami/ascenso/docs" // Swagger docs
	adminctrl "github.com/lshigami/ascenso/internal/controller/admin"
	userctrl "github.com/lshigami/ascenso/internal/controller/user"
	"github.com/lshigami/ascenso/internal/dto"
	"github.com/lshigami/ascenso/internal/logger"
	"github.com/lshigami/ascenso/internal/middleware"
	"github.com/lshigami/ascenso/internal/repository"
	"github.com/lshigami/ascenso/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Ascenso Exam Attempt API
// @version 1.0
// @description Timed exam attempts for teacher promotion: start or resume, ordered navigation, answer saving, expiry and scoring by track.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewTimeAuthority,
		),

		fx.Provide(
			repository.NewExamRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewSubTestResultRepository,
		),

		fx.Provide(
			service.NewAttemptLocker,
			service.NewAccessPolicy,
			service.NewAnswerStore,
			service.NewScoringService,
			service.NewFeedbackGenerator,
			service.NewAttemptService,
			service.NewExpirySweeper,
		),

		fx.Provide(
			userctrl.NewAttemptController,
			func(sweeper *service.ExpirySweeper) *adminctrl.AttemptAdminController {
				return adminctrl.NewAttemptAdminController(sweeper)
			},
		),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartExpirySweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Application stop failed")
	}
}

func ConfigureLogger(cfg *config.Config) {
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
}

func NewTimeAuthority(cfg *config.Config) *service.TimeAuthority {
	return service.NewTimeAuthority(service.NewSystemClock(), cfg.Location())
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("request_id", param.Request.Header.Get(middleware.RequestIDHeader)).
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.UserIDHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: !containsWildcard(cfg.Server.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	attemptCtrl *userctrl.AttemptController,
	adminCtrl *adminctrl.AttemptAdminController,
) {
	api := router.Group("/api/v1", middleware.Identity(cfg.JWTSecret))
	attemptCtrl.RegisterRoutes(api)
	adminCtrl.RegisterRoutes(api.Group("/admin", middleware.RequireUsers(cfg.Server.AdminUserIDs)))

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam attempt API starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func StartExpirySweeper(lc fx.Lifecycle, cfg *config.Config, sweeper *service.ExpirySweeper) {
	if !cfg.Sweep.Enabled {
		log.Info().Msg("Expiry sweeper disabled; overdue attempts are finalized on next access only")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: sweeper.Stop,
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
