package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowledgehub-server/internal/auth"
	"knowledgehub-server/internal/config"
	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/infrastructure/ai"
	"knowledgehub-server/internal/infrastructure/cache"
	"knowledgehub-server/internal/infrastructure/database"
	"knowledgehub-server/internal/infrastructure/database/repositories"
	"knowledgehub-server/internal/interfaces/handlers"
	"knowledgehub-server/internal/obs"
	"knowledgehub-server/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles everything the HTTP layer needs. Split out from Run
// so tests can assemble a router over in-memory implementations.
type Services struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Docs     *services.DocumentService
	Comments *services.CommentService
	Ratings  *services.RatingService
	AI       services.AIClient
}

func Run(cfg config.Config) error {
	if err := logger.InitLogger(cfg.Env); err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo := repositories.NewUserRepository(db.Pool())
	docRepo := repositories.NewDocumentRepository(db.Pool())
	commentRepo := repositories.NewCommentRepository(db.Pool())
	ratingRepo := repositories.NewRatingRepository(db.Pool())

	cacheSvc := services.NewRedisCacheService(redisClient, cfg.Auth.CacheDuration)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	aiClient := ai.NewClient(cfg.AI)

	svcs := Services{
		Auth:     services.NewAuthService(userRepo, tokens),
		Users:    services.NewUserService(userRepo),
		Docs:     services.NewDocumentService(docRepo, cacheSvc, aiClient),
		Comments: services.NewCommentService(commentRepo),
		Ratings:  services.NewRatingService(ratingRepo, docRepo, cacheSvc),
		AI:       aiClient,
	}

	obs.Init()
	r := NewRouter(svcs, cfg.Storage)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func NewRouter(svcs Services, storage config.StorageConfig) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svcs.Auth)
	docHandler := handlers.NewDocumentHandler(svcs.Docs, svcs.AI, storage)
	commentHandler := handlers.NewCommentHandler(svcs.Comments, svcs.Docs)
	ratingHandler := handlers.NewRatingHandler(svcs.Ratings, svcs.Docs)
	adminHandler := handlers.NewAdminHandler(svcs.Users)
	homeHandler := handlers.NewHomeHandler(svcs.Docs)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.CORSMiddleware())
	r.Use(obs.Instrument())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(obs.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.GET("/validate", authHandler.Validate)
	}

	docs := api.Group("/documents")
	{
		docs.GET("/search", handlers.OptionalAuth(svcs.Auth), docHandler.Search)
		docs.GET("/recent", docHandler.Recent)
		docs.GET("/popular", docHandler.Popular)
		docs.GET("/ai/status", docHandler.AIStatus)
		docs.GET("/my-documents", handlers.AuthRequired(svcs.Auth), docHandler.MyDocuments)
		docs.POST("/upload", handlers.AuthRequired(svcs.Auth), docHandler.Upload)
		docs.GET("/:id", handlers.OptionalAuth(svcs.Auth), docHandler.GetByID)
		docs.GET("/:id/download", handlers.OptionalAuth(svcs.Auth), docHandler.Download)
		docs.PUT("/:id", handlers.AuthRequired(svcs.Auth), docHandler.Update)
		docs.DELETE("/:id", handlers.AuthRequired(svcs.Auth), docHandler.Delete)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:documentId", commentHandler.ListByDocument)
		comments.POST("/:documentId", handlers.AuthRequired(svcs.Auth), commentHandler.Add)
		comments.PUT("/:commentId", handlers.AuthRequired(svcs.Auth), commentHandler.Update)
		comments.DELETE("/:commentId", handlers.AuthRequired(svcs.Auth), commentHandler.Delete)
	}

	ratings := api.Group("/ratings")
	{
		ratings.POST("/:documentId", handlers.AuthRequired(svcs.Auth), ratingHandler.AddOrUpdate)
		ratings.GET("/:documentId/user", handlers.AuthRequired(svcs.Auth), ratingHandler.UserRating)
		ratings.GET("/:documentId/all", ratingHandler.ListByDocument)
		ratings.DELETE("/:ratingId", handlers.AuthRequired(svcs.Auth), ratingHandler.Delete)
	}

	admin := api.Group("/admin/users", handlers.AuthRequired(svcs.Auth), handlers.AdminRequired())
	{
		admin.GET("", adminHandler.ListUsers)
		admin.POST("", adminHandler.CreateUser)
		admin.GET("/:id", adminHandler.GetUser)
		admin.PUT("/:id", adminHandler.UpdateUser)
		admin.PUT("/:id/password", adminHandler.UpdatePassword)
		admin.PUT("/:id/block", adminHandler.BlockUser)
		admin.DELETE("/:id", adminHandler.DeleteUser)
	}

	api.GET("/home/dashboard", handlers.AuthRequired(svcs.Auth), homeHandler.Dashboard)

	return r
}
