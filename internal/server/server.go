// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"time"

	"threads/internal/cache"
	"threads/internal/config"
	"threads/internal/database"
	"threads/internal/middleware"
	"threads/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config           *config.Config
	db               *gorm.DB
	redis            *redis.Client
	promMiddleware   *fiberprometheus.FiberPrometheus
	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	followRepo       repository.FollowRepository
	replyRepo        repository.ReplyRepository
	notificationRepo repository.NotificationRepository
}

// NewServer creates a new server instance, establishing the database and
// Redis connections from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	return &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("threads-api"),
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		replyRepo:        repository.NewReplyRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	auth := app.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)

	users := app.Group("/users")
	users.Get("/", s.GetUsers)
	// Specific routes before generic /:id
	users.Get("/profile", s.AuthRequired(), s.GetProfile)
	users.Put("/profile", s.AuthRequired(), s.UpdateProfile)
	users.Post("/:id/follow", s.AuthRequired(), s.FollowUser)
	users.Post("/:id/unfollow", s.AuthRequired(), s.UnfollowUser)
	users.Get("/:id", s.GetUser)

	posts := app.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Post("/:id/like", s.AuthRequired(), s.LikePost)
	posts.Post("/:id/unlike", s.AuthRequired(), s.UnlikePost)
	posts.Get("/:id/replies", s.GetPostReplies)
	posts.Post("/:id/replies", s.AuthRequired(), s.CreateReply)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	notifications := app.Group("/notifications", s.AuthRequired())
	notifications.Get("/", s.GetNotifications)
	notifications.Post("/:id/read", s.MarkNotificationRead)

	search := app.Group("/search")
	search.Get("/users", s.SearchUsers)
	search.Get("/posts", s.SearchPosts)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
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

	// The cache is optional; readiness only reports it.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
