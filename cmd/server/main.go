package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chatapp "github.com/adisyon/backend/internal/application/chat"
	inventoryapp "github.com/adisyon/backend/internal/application/inventory"
	kitchenapp "github.com/adisyon/backend/internal/application/kitchen"
	ledgerapp "github.com/adisyon/backend/internal/application/ledger"
	"github.com/adisyon/backend/internal/infrastructure/cache"
	"github.com/adisyon/backend/internal/infrastructure/config"
	"github.com/adisyon/backend/internal/infrastructure/event"
	"github.com/adisyon/backend/internal/infrastructure/logger"
	"github.com/adisyon/backend/internal/infrastructure/persistence"
	"github.com/adisyon/backend/internal/interfaces/http/handler"
	"github.com/adisyon/backend/internal/interfaces/http/middleware"
	"github.com/adisyon/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Adisyon Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Conversation sessions: Redis when enabled, process memory otherwise
	var sessions chatapp.SessionStore
	if cfg.Redis.Enabled {
		redisSessions, err := cache.NewRedisSessionStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Chat.SessionTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisSessions.Close()
		}()
		sessions = redisSessions
		log.Info("Redis session store connected")
	} else {
		memSessions := cache.NewInMemorySessionStore(cfg.Chat.SessionTTL)
		defer func() {
			_ = memSessions.Close()
		}()
		sessions = memSessions
		log.Info("Using in-memory session store")
	}

	// Event bus and kitchen ticket fan-out
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(kitchenapp.NewTicketHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	uow := persistence.NewGormUnitOfWork(db)
	consumption := inventoryapp.NewConsumptionService(log)
	tabService := ledgerapp.NewTabService(
		uow,
		consumption,
		eventBus,
		nil,
		decimal.NewFromFloat(cfg.Ledger.SettlementEpsilon),
		log,
	)
	chatService := chatapp.NewService(
		persistence.NewGormCatalogProvider(db),
		persistence.NewGormStockProvider(db),
		sessions,
		tabService,
		cfg.Chat.SingleTokenThreshold,
		cfg.Chat.MultiTokenThreshold,
		log,
	)

	// HTTP engine and middleware
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS())
	engine.Use(middleware.BranchMiddleware())

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewChatHandler(chatService)).
		Register(handler.NewTabHandler(tabService)).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
