package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/athena-edu/backend/internal/api"
	"github.com/athena-edu/backend/internal/assistant"
	"github.com/athena-edu/backend/internal/cache"
	"github.com/athena-edu/backend/internal/config"
	"github.com/athena-edu/backend/internal/db"
	"github.com/athena-edu/backend/internal/middleware"
	"github.com/athena-edu/backend/internal/models"
	"github.com/athena-edu/backend/internal/observ"
	"github.com/athena-edu/backend/internal/repository/postgres"
	"github.com/athena-edu/backend/internal/rooms"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline: take as long as needed to connect.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	redisClient, err := cache.New(context.Background(), cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Repositories share the pool; it is goroutine-safe. Assigning
	// through the interface types proves the stores satisfy them.
	pool := database.Pool()
	roomRepo := postgres.NewRoomStore(pool)
	userRepo := postgres.NewUserStore(pool)
	profileRepo := postgres.NewProfileStore(pool)

	roomService := rooms.NewService(roomRepo, userRepo, logger)
	ragClient := assistant.NewRAGClient(cfg.RAGServiceURL, logger)
	quizStore := assistant.NewRedisQuizStore(redisClient, time.Duration(cfg.QuizTTLMin)*time.Minute)

	accessTTL := time.Duration(cfg.AccessTokenTTLMin) * time.Minute
	refreshTTL := time.Duration(cfg.RefreshTokenTTLDay) * 24 * time.Hour

	authHandler := api.NewAuthHandler(userRepo, profileRepo, cfg.JWTSecret, accessTTL, refreshTTL, logger)
	roomHandler := api.NewRoomHandler(roomService, logger)
	profileHandler := api.NewProfileHandler(profileRepo, logger)
	teacherHandler := api.NewTeacherHandler(userRepo, profileRepo, logger)
	adminHandler := api.NewAdminHandler(userRepo, profileRepo, logger)
	assistantHandler := api.NewAssistantHandler(ragClient, quizStore, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())
	srv.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public: the load balancer health check and the endpoints that
	// produce tokens in the first place.
	srv.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	srv.POST("/v1/auth/register/student", authHandler.RegisterStudent)
	srv.POST("/v1/auth/register/teacher", authHandler.RegisterTeacher)
	srv.POST("/v1/auth/login", authHandler.Login)
	srv.POST("/v1/auth/refresh", authHandler.Refresh)

	// Everything else requires a valid access token.
	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	roomHandler.Register(v1)

	v1.GET("/teachers", teacherHandler.List)

	student := v1.Group("", middleware.RequireRole(models.RoleStudent))
	student.GET("/student/profile", profileHandler.GetStudent)
	student.PUT("/student/profile", profileHandler.UpdateStudent)

	teacher := v1.Group("", middleware.RequireRole(models.RoleTeacher))
	teacher.GET("/teacher/profile", profileHandler.GetTeacher)
	teacher.PUT("/teacher/profile", profileHandler.UpdateTeacher)

	admin := v1.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.POST("/register", authHandler.RegisterAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:userId", adminHandler.DeleteUser)
	admin.GET("/stats", adminHandler.Stats)

	learners := v1.Group("/assistant", middleware.RequireRole(models.RoleStudent, models.RoleTeacher))
	learners.POST("/ask", assistantHandler.Ask)
	learners.GET("/health", assistantHandler.Health)
	learners.POST("/quiz", assistantHandler.GenerateQuiz)
	learners.POST("/quiz/grade", assistantHandler.GradeQuiz)
	learners.GET("/stream", assistantHandler.Stream)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
		)
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	// In-flight requests get a grace period before the listener dies.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
