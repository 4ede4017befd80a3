// Package server contains the HTTP handlers and routing for the blog API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "blogapi/docs" // swagger docs
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/notifications"
	"blogapi/internal/repository"
	"blogapi/internal/service"
	redispkg "blogapi/pkg/redis"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	serviceName = "Blog API"
	apiVersion  = "1.0.0"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	notifier       *notifications.Notifier
	postService    *service.PostService
	userService    *service.UserService
	commentService *service.CommentService
}

// NewServer connects the database and, when configured, Redis, then builds the server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redispkg.Connect(cfg.RedisURL, 5*time.Second)
		if err != nil {
			middleware.Logger.Warn("Redis unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			middleware.Logger.Info("Redis connected successfully")
		}
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blog-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		notifier:       notifications.NewNotifier(redisClient),
	}
	server.postService = service.NewPostService(server.postRepo, server.userRepo)
	server.userService = service.NewUserService(server.userRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.postRepo, server.userRepo)

	return server, nil
}

// CommentService exposes the comment capability to in-process callers.
func (s *Server) CommentService() *service.CommentService {
	return s.commentService
}

// NewApp builds the Fiber application with the full middleware chain and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: ErrorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// ErrorHandler renders errors that escaped a handler, including Fiber's own
// 404/405 errors, in the standard failure envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		appErr := &models.AppError{Code: models.CodeNotFound, Message: fe.Message}
		if fe.Code != fiber.StatusNotFound {
			appErr.Code = models.CodeValidation
		}
		if fe.Code >= fiber.StatusInternalServerError {
			middleware.Logger.ErrorContext(c.UserContext(), "Unhandled error", slog.String("error", err.Error()))
		}
		return models.RespondWithError(c, fe.Code, appErr)
	}

	middleware.Logger.ErrorContext(c.UserContext(), "Unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))

	app.Use(middleware.TracingMiddleware())

	// Propagates request and trace IDs into the request context.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Banner)
	app.Get("/health", s.HealthCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/api-docs/*", swagger.HandlerDefault)

	createLimit := s.config.RateLimitCreatePerMinute
	if createLimit <= 0 {
		createLimit = 30
	}

	api := app.Group("/api")

	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	users.Post("/", middleware.RateLimit(s.redis, createLimit, time.Minute, "create_user"), s.CreateUser)
	users.Get("/:id", s.GetUser)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.RateLimit(s.redis, createLimit, time.Minute, "create_post"), s.CreatePost)
	// Fixed paths before the generic /:id route.
	posts.Get("/published", s.GetPublishedPosts)
	posts.Get("/featured", s.GetFeaturedPosts)
	posts.Get("/slug/:slug", s.GetPostBySlug)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Patch("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
}

// Banner handles GET /
func (s *Server) Banner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to blog API",
		"version": apiVersion,
		"doc":     "/api-docs",
		"endpoints": fiber.Map{
			"user": "/api/users",
			"post": "/api/posts",
		},
	})
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timeStamp": time.Now().UTC().Format(time.RFC3339Nano),
		"service":   serviceName,
	})
}

// ReadinessCheck handles readiness probe requests. Redis only counts when it
// has been configured.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"service": serviceName,
		"version": apiVersion,
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"timeStamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("Error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("Error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("Error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
