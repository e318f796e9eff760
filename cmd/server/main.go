package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/api"
	"github.com/tessera-app/tessera/internal/config"
	"github.com/tessera-app/tessera/internal/db"
	"github.com/tessera-app/tessera/internal/events"
	"github.com/tessera-app/tessera/internal/middleware"
	"github.com/tessera-app/tessera/internal/observ"
	"github.com/tessera-app/tessera/internal/repository/postgres"
	"github.com/tessera-app/tessera/internal/service"
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

	// Startup has no parent deadline — take as long as the connections
	// need. Per-request contexts take over once the server is up.
	database, err := db.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	rdb, err := db.NewRedis(context.Background(), cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	// Repositories share the pool; it is goroutine-safe.
	pool := database.Pool()
	likeRepo := postgres.NewLikeStore(pool)
	matchRepo := postgres.NewMatchStore(pool)
	convoRepo := postgres.NewConversationStore(pool)
	messageRepo := postgres.NewMessageStore(pool)

	publisher := events.NewPublisher(rdb, logger)

	matching := service.NewMatching(likeRepo, matchRepo, publisher, logger)
	relationship := service.NewRelationship(matchRepo, convoRepo, publisher, logger)
	messaging := service.NewMessaging(convoRepo, messageRepo, publisher, logger)

	likeHandler := api.NewLikeHandler(matching, logger)
	matchHandler := api.NewMatchHandler(matching, relationship, logger)
	convoHandler := api.NewConversationHandler(messaging, logger)
	eventsHandler := api.NewEventsHandler(publisher, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Health is public — load balancers hit it without headers.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Everything else needs an acting user.
	v1 := srv.Group("/v1")
	v1.Use(middleware.Identity())

	v1.POST("/likes", likeHandler.Record)
	v1.GET("/likers", likeHandler.PendingLikers)

	v1.GET("/matches", matchHandler.List)
	v1.POST("/matches/:userID/unmatch", matchHandler.Unmatch)
	v1.POST("/matches/:userID/block", matchHandler.Block)
	v1.POST("/matches/:userID/friends", matchHandler.Friends)
	v1.POST("/matches/:userID/graceful-exit", matchHandler.GracefulExit)

	v1.GET("/conversations", convoHandler.List)
	v1.GET("/unread", convoHandler.TotalUnread)
	v1.POST("/conversations/:userID/messages", convoHandler.Send)
	v1.GET("/conversations/:userID/messages", convoHandler.ListMessages)
	v1.POST("/conversations/:userID/read", convoHandler.MarkRead)
	v1.GET("/conversations/:userID/unread", convoHandler.Unread)
	v1.DELETE("/conversations/:userID", convoHandler.Hide)

	v1.GET("/events", eventsHandler.Stream)

	logger.Info("starting tessera",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)
	return srv.Run(":" + cfg.Port)
}
