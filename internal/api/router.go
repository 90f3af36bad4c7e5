package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/tubeworks/media-api/docs"
	"github.com/tubeworks/media-api/internal/api/handler"
	"github.com/tubeworks/media-api/internal/api/middleware"
	"github.com/tubeworks/media-api/internal/core/service"
	"github.com/tubeworks/media-api/internal/infrastructure/config"
	mongodb "github.com/tubeworks/media-api/internal/infrastructure/db/mongo"
	redisdb "github.com/tubeworks/media-api/internal/infrastructure/db/redis"
	"github.com/tubeworks/media-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the view dispatcher, which the caller starts and owns.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("media"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	videoRepo := mongodb.NewVideoRepository(db)
	likeRepo := mongodb.NewLikeRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	accessCodec := service.NewTokenCodec(cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenTTL)
	refreshCodec := service.NewTokenCodec(cfg.Auth.RefreshTokenSecret, cfg.Auth.RefreshTokenTTL)

	authService := service.NewAuthService(userRepo, accessCodec, refreshCodec, service.BcryptHasher{}, log)
	viewMarker := redisdb.NewViewMarker(rdb, 0)
	videoService := service.NewVideoService(videoRepo, userRepo, likeRepo, viewMarker, log)
	engagementService := service.NewEngagementService(videoRepo, likeRepo, commentRepo, log)

	dispatcher := queue.NewDispatcher(0, videoService, log)
	videoService.SetViewQueue(dispatcher)

	authHandler := handler.NewAuthHandler(authService)
	videoHandler := handler.NewVideoHandler(videoService)
	engagementHandler := handler.NewEngagementHandler(engagementService)

	requireAuth := middleware.Auth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	// --- Auth & account routes ---
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh", authHandler.Refresh)
	users.POST("/logout", authHandler.Logout, requireAuth)
	users.GET("/me", authHandler.Me, requireAuth)
	users.PATCH("/me", authHandler.UpdateProfile, requireAuth)
	users.POST("/change-password", authHandler.ChangePassword, requireAuth)

	// --- Video routes ---
	videos := e.Group("/api/videos")
	videos.GET("", videoHandler.List)
	videos.GET("/watch/:id", videoHandler.Watch, optionalAuth)
	videos.POST("/publish", videoHandler.Publish, requireAuth)
	videos.PATCH("/:id", videoHandler.Update, requireAuth)
	videos.DELETE("/:id", videoHandler.Delete, requireAuth)
	videos.PATCH("/:id/toggle-publish", videoHandler.TogglePublish, requireAuth)

	// --- Engagement routes ---
	e.POST("/api/likes/toggle/v/:id", engagementHandler.ToggleLike, requireAuth)
	e.POST("/api/comments/v/:id", engagementHandler.AddComment, requireAuth)
	e.GET("/api/comments/v/:id", engagementHandler.ListComments)
	e.DELETE("/api/comments/:id", engagementHandler.DeleteComment, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, dispatcher
}
