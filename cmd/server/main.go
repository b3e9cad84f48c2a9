package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wish-lottery-backend/internal/common/config"
	"wish-lottery-backend/internal/common/logger"
	"wish-lottery-backend/internal/common/middleware"
	drawhttp "wish-lottery-backend/internal/features/draw/delivery/http"
	drawservice "wish-lottery-backend/internal/features/draw/service"
	"wish-lottery-backend/internal/features/view"
	viewhttp "wish-lottery-backend/internal/features/view/delivery/http"
	wishlisthttp "wish-lottery-backend/internal/features/wishlist/delivery/http"
	"wish-lottery-backend/internal/features/wishlist/repository"
	memoryrepo "wish-lottery-backend/internal/features/wishlist/repository/memory"
	redisrepo "wish-lottery-backend/internal/features/wishlist/repository/redis"
	wishlistservice "wish-lottery-backend/internal/features/wishlist/service"
	redisplatform "wish-lottery-backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()

	logger.Init("wish-lottery-backend", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Str("store", cfg.Store.Backend).Msg("Starting Wish Lottery Backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo repository.Repository
	var redisClient *redisplatform.Client

	switch cfg.Store.Backend {
	case "memory":
		repo = memoryrepo.NewMemoryRepository()
	default:
		client, err := redisplatform.Open(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		redisClient = client
		defer redisClient.Close()
		repo = redisrepo.NewRedisRepository(client.Client)
		logger.Info().Msg("Redis connection established")
	}

	wishlistSvc := wishlistservice.NewWishlistService(repo)
	drawSvc := drawservice.NewDrawService(repo, time.Duration(cfg.Draw.SpinIntervalMS)*time.Millisecond)
	viewRouter := view.NewRouter()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	wishlisthttp.NewWishlistHandler(wishlistSvc).RegisterRoutes(v1)
	drawhttp.NewDrawHandler(drawSvc).RegisterRoutes(v1)
	viewhttp.NewViewHandler(viewRouter).RegisterRoutes(v1)

	registerProbes(router, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	// A spinning draw must not leave its ticker behind.
	drawSvc.Reset()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func registerProbes(router *gin.Engine, redisClient *redisplatform.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "wish-lottery-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "redis unavailable",
					"details": err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "wish-lottery-backend",
		})
	})
}
