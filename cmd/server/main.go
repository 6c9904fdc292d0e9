package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/vending-fleet/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/vending-fleet/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/vending-fleet/internal/adapter/queue"
	wsAdapter "github.com/seu-repo/vending-fleet/internal/adapter/websocket"
	"github.com/seu-repo/vending-fleet/internal/observability/telemetry"
	"github.com/seu-repo/vending-fleet/internal/service/health"
	"github.com/seu-repo/vending-fleet/internal/service/simulation"
	"github.com/seu-repo/vending-fleet/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := telemetry.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting vending fleet simulator",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(
			cfg.OpenTelemetry.ServiceName,
			cfg.App.Version,
			cfg.OpenTelemetry.Jaeger.Endpoint,
			cfg.OpenTelemetry.Jaeger.SamplerParam,
		)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Build the simulation engine
	engine := simulation.NewEngine(cfg.Simulation, logger.Named("simulation"))

	healthService := health.NewService(cfg.App.Version, logger.Named("health"))
	healthService.RegisterChecker("simulation", health.RunningChecker(engine.Running))

	// 5. Live feed hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsHub := wsAdapter.NewHub(cfg.LiveFeed.SendBuffer, logger.Named("live_feed"))
	go wsHub.Run(ctx)
	if cfg.LiveFeed.Enabled {
		wsHub.Attach(engine)
	}

	// 6. Outbound mirror (optional)
	var forwarder *queue.Forwarder
	if cfg.Queue.Driver != "" {
		mq, err := queue.Open(cfg.Queue.Driver, cfg.Queue.URL, queue.Options{
			MaxReconnects: cfg.Queue.MaxReconnects,
			ReconnectWait: cfg.Queue.ReconnectWait,
			Timeout:       cfg.Queue.Timeout,
		}, logger.Named("queue"))
		if err != nil {
			logger.Fatal("Failed to connect to message queue", zap.String("driver", cfg.Queue.Driver), zap.Error(err))
		}
		forwarder = queue.NewForwarder(mq, queue.ForwarderOptions{
			SubjectPrefix: cfg.Queue.SubjectPrefix,
			Buffer:        cfg.Queue.Buffer,
			Breaker: queue.BreakerOptions{
				MaxRequests:      cfg.CircuitBreaker.MaxRequests,
				Interval:         cfg.CircuitBreaker.Interval,
				Timeout:          cfg.CircuitBreaker.Timeout,
				FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
				MinRequests:      cfg.CircuitBreaker.MinRequests,
			},
		}, logger.Named("mirror"))
		forwarder.Attach(engine)
		healthService.RegisterChecker("mirror", health.BreakerChecker(forwarder.BreakerState))

		txSubject, evSubject := forwarder.Subjects()
		logger.Info("Outbound mirror enabled",
			zap.String("driver", cfg.Queue.Driver),
			zap.String("transactions_subject", txSubject),
			zap.String("events_subject", evSubject),
		)
	}

	// 7. Initialize Fiber App
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	handlers.NewFleetHandler(engine, logger).Register(app.Group("/api/v1"))

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Real-time updates WebSocket
	app.Get("/ws/updates", websocket.New(func(c *websocket.Conn) {
		wsHub.Serve(c)
	}))

	// 8. Start generating
	engine.Start()
	txPeriod, evPeriod := engine.Periods()
	logger.Info("Simulation running",
		zap.Int("machines", len(engine.Snapshot().Machines)),
		zap.Duration("transaction_period", txPeriod),
		zap.Duration("event_period", evPeriod),
	)

	// 9. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	engine.Stop()
	wsHub.Detach()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if forwarder != nil {
		if err := forwarder.Close(); err != nil {
			logger.Error("Error closing message queue", zap.Error(err))
		}
	}

	logger.Info("Server exited gracefully")
}
