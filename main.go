package main

import (
	"context"
	"errors"
	"fmt"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/controllers"
	"gin-marketplace/infra"
	"gin-marketplace/logger"
	"gin-marketplace/middlewares"
	"gin-marketplace/repositories"
	"gin-marketplace/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupRouter(db *gorm.DB, sessionService services.ISessionService, cfg *infra.Config) *gin.Engine {
	userRepository := repositories.NewUserRepository(db)
	itemRepository := repositories.NewItemRepository(db)

	itemService := services.NewItemService(itemRepository)
	itemController := controllers.NewItemController(itemService)

	authService := services.NewAuthService(userRepository, sessionService)
	authController := controllers.NewAuthController(authService, cfg.Session.TTL, cfg.IsProd())

	userController := controllers.NewUserController(services.NewUserService(userRepository, itemRepository))
	cartController := controllers.NewCartController(services.NewCartService(userRepository, itemRepository))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.Default())
	r.Use(apperrors.ErrorMiddleware())
	r.Use(middlewares.FlashMiddleware(cfg.IsProd()))
	r.Use(middlewares.SessionMiddleware(authService, cfg.IsProd()))

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Cannot find %s", ctx.Request.URL.Path)})
	})

	guest := middlewares.Guarded(middlewares.RequireGuest)
	authenticated := middlewares.Guarded(middlewares.RequireAuthenticated)
	owner := middlewares.Guarded(
		middlewares.ValidateIdentifier,
		middlewares.RequireAuthenticated,
		middlewares.RequireOwnership(itemService),
	)
	loginLimit := middlewares.RateLimitMiddleware(cfg.Login.RatePerMinute, cfg.Login.Burst)

	r.GET(constants.PathHome, userController.Home)

	userRouter := r.Group("/users")
	userRouter.GET("/new", guest, authController.SignupForm)
	userRouter.POST("", guest, loginLimit, authController.Signup)
	userRouter.GET("/login", guest, authController.LoginForm)
	userRouter.POST("/login", guest, loginLimit, authController.Login)
	userRouter.GET("/profile", authenticated, userController.Profile)
	userRouter.GET("/logout", authenticated, authController.Logout)

	cartRouter := r.Group("/users/cart", authenticated)
	cartRouter.GET("", cartController.View)
	cartRouter.POST("/purchase", cartController.Purchase)
	cartRouter.POST("/:id/add", cartController.Add)
	cartRouter.POST("/:id/remove", cartController.Remove)

	itemRouter := r.Group("/items")
	itemRouter.GET("", itemController.FindAll)
	itemRouter.GET("/new", authenticated, itemController.New)
	itemRouter.POST("", authenticated, itemController.Create)
	itemRouter.GET("/:id", middlewares.Guarded(middlewares.ValidateIdentifier), itemController.FindById)
	itemRouter.GET("/:id/edit", owner, itemController.Edit)
	itemRouter.PUT("/:id", owner, itemController.Update)
	itemRouter.DELETE("/:id", owner, itemController.Delete)

	return r
}

func initDB(cfg *infra.Config) (*gorm.DB, error) {
	db, err := infra.SetupDB(cfg)
	if err != nil {
		return nil, err
	}

	// DB_NAMEが未設定の場合はインメモリなので常にマイグレーションする
	if cfg.Database.AutoMigrate || cfg.Database.Name == "" {
		if err := infra.MigrateMarketplace(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// setupSessionRepository opens the configured session store. The returned func releases it.
func setupSessionRepository(cfg *infra.Config) (repositories.ISessionRepository, func(), error) {
	if cfg.Session.Store == infra.SessionStoreRedis {
		client, err := infra.SetupRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisSessionRepository(client), func() { _ = client.Close() }, nil
	}

	sessionDB, err := infra.SetupSessionDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := infra.MigrateSessions(sessionDB); err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := sessionDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repositories.NewSessionRepository(sessionDB), closeDB, nil
}

func main() {
	infra.Initialize()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Log.Sync() }()

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := initDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to set up database", zap.Error(err))
	}

	sessionRepository, closeSessions, err := setupSessionRepository(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to set up session store", zap.Error(err))
	}
	defer closeSessions()

	sessionService := services.NewSessionService(sessionRepository, cfg.Session.Secret, cfg.Session.TTL)
	if err := sessionService.Purge(context.Background()); err != nil {
		logger.Log.Warn("Failed to purge expired sessions", zap.Error(err))
	}

	r := setupRouter(db, sessionService, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middlewares.MethodOverride(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	logger.Log.Info("Server exited")
}
