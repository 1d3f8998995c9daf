package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-seating-api/api/swagger"
	"github.com/noah-isme/sma-seating-api/internal/handler"
	"github.com/noah-isme/sma-seating-api/internal/middleware"
	"github.com/noah-isme/sma-seating-api/internal/models"
	"github.com/noah-isme/sma-seating-api/internal/repository"
	"github.com/noah-isme/sma-seating-api/internal/service"
	"github.com/noah-isme/sma-seating-api/pkg/cache"
	"github.com/noah-isme/sma-seating-api/pkg/config"
	"github.com/noah-isme/sma-seating-api/pkg/database"
	"github.com/noah-isme/sma-seating-api/pkg/events"
	"github.com/noah-isme/sma-seating-api/pkg/jobs"
	"github.com/noah-isme/sma-seating-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-seating-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-seating-api/pkg/middleware/requestid"
)

// @title SMA Seating API
// @version 1.0.0
// @description Exam seating allocation over school rooms and class rosters
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Seating.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, seating cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Seating.CacheTTL, logr, cfg.Seating.CacheEnabled && redisClient != nil)

	roomRepo := repository.NewRoomRepository(db)
	overrideRepo := repository.NewSeatOverrideRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	layoutRepo := repository.NewSeatingLayoutRepository(db)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewAMQPPublisher(cfg.Events.URL, logr)
	}
	defer publisher.Close() //nolint:errcheck

	queue := jobs.NewQueue("seating-events", jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		MaxRetries: cfg.Events.Retries,
		Logger:     logr,
	})
	var dispatcher *service.LayoutEventDispatcher
	if cfg.Events.Enabled {
		dispatcher = service.NewLayoutEventDispatcher(queue, publisher, cfg.Events.Queue, metrics, logr)
		queue.Start(ctx)
		defer queue.Stop()
	}

	tokenSvc := service.NewTokenService(cfg.JWT)
	roomSvc := service.NewRoomService(roomRepo, overrideRepo, cacheSvc, validate, logr)
	seatingSvc := service.NewSeatingService(roomRepo, overrideRepo, rosterRepo, layoutRepo, cacheSvc, dispatcher, metrics, validate, logr, service.SeatingServiceConfig{
		CacheTTL: cfg.Seating.CacheTTL,
		MaxSeats: cfg.Seating.MaxSeats,
	})

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["cache"] = handler.PingFunc(cacheRepo.Ping)
	}

	r := newRouter(cfg, logr, routes{
		metrics:           handler.NewMetricsHandler(metrics, checks),
		rooms:             handler.NewRoomHandler(roomSvc),
		seating:           handler.NewSeatingHandler(seatingSvc),
		tokens:            tokenSvc,
		metricsMiddleware: middleware.Metrics(metrics),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type routes struct {
	metrics           *handler.MetricsHandler
	rooms             *handler.RoomHandler
	seating           *handler.SeatingHandler
	tokens            *service.TokenService
	metricsMiddleware gin.HandlerFunc
}

func newRouter(cfg *config.Config, logr *zap.Logger, h routes) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(h.metricsMiddleware)

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	managers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)

	api := r.Group(cfg.APIPrefix, middleware.JWT(h.tokens))

	rooms := api.Group("/rooms")
	rooms.GET("", h.rooms.List)
	rooms.POST("", managers, h.rooms.Create)
	rooms.GET("/:id", h.rooms.Get)
	rooms.DELETE("/:id", managers, h.rooms.Delete)
	rooms.PATCH("/:id/availability", staff, h.rooms.SetAvailability)
	rooms.GET("/:id/seats", h.rooms.SeatMap)
	rooms.POST("/:id/seats/:coordinate/toggle", staff, h.rooms.ToggleSeat)

	seating := api.Group("/seating")
	seating.POST("/allocate", h.seating.Allocate)
	seating.POST("/preview", h.seating.Preview)
	seating.POST("/layouts", staff, h.seating.SaveLayout)
	seating.GET("/layouts", h.seating.ListLayouts)
	seating.GET("/layouts/:id", h.seating.GetLayout)
	seating.DELETE("/layouts/:id", managers, h.seating.DeleteLayout)
	seating.GET("/layouts/:id/export", h.seating.ExportLayout)

	return r
}
