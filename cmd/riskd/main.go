package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/bibbank/upi-risk/internal/application/usecase"
	"github.com/bibbank/upi-risk/internal/auth"
	"github.com/bibbank/upi-risk/internal/domain/port"
	"github.com/bibbank/upi-risk/internal/infrastructure/config"
	"github.com/bibbank/upi-risk/internal/infrastructure/messaging"
	"github.com/bibbank/upi-risk/internal/infrastructure/strategy"
	"github.com/bibbank/upi-risk/internal/observability"
	grpcpresentation "github.com/bibbank/upi-risk/internal/presentation/grpc"
	"github.com/bibbank/upi-risk/internal/presentation/middleware"
	"github.com/bibbank/upi-risk/internal/presentation/rest"
)

func main() {
	if err := run(); err != nil {
		slog.Error("riskd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	logger.Info("starting riskd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"environment", cfg.Environment,
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: "riskd",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		Enabled:     cfg.TracingEnabled,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: "riskd"})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer meterProvider.Shutdown(context.Background())

	predictionMetrics, err := observability.NewPredictionMetrics(meterProvider.Meter(observability.MeterName))
	if err != nil {
		return err
	}

	// Strategy is selected once; Validate runs inside NewPredictor.
	predictor, err := strategy.NewPredictor(cfg, logger)
	if err != nil {
		return err
	}

	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	predictUC := usecase.NewPredictTransaction(predictor,
		usecase.WithPublisher(publisher),
		usecase.WithMetrics(predictionMetrics),
		usecase.WithLogger(logger),
	)

	var jwtService *auth.JWTService
	if cfg.JWTSecret != "" {
		jwtService, err = auth.NewJWTService(auth.JWTConfig{
			Secret:     cfg.JWTSecret,
			Issuer:     cfg.JWTIssuer,
			Expiration: time.Hour,
		})
		if err != nil {
			return fmt.Errorf("failed to configure jwt: %w", err)
		}
		logger.Info("authentication enabled", "issuer", cfg.JWTIssuer)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit)
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(predictUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger, grpcpresentation.ServerOptions{
		JWTService: jwtService,
		Reflection: cfg.GRPCReflection,
	})

	// HTTP server.
	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Service:        predictUC,
			Logger:         logger,
			MetricsHandler: metricsHandler,
			JWTService:     jwtService,
			RateLimiter:    limiter,
			RequestTimeout: 60 * time.Second,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("riskd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"strategy", predictUC.Strategy(),
	)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	logger.Info("shutting down riskd")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("riskd stopped")
	return serveErr
}

// newPublisher returns the Kafka publisher when brokers are configured and a
// log publisher otherwise, together with its close function.
func newPublisher(cfg config.Config, logger *slog.Logger) (port.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka not configured, events will be logged")
		return messaging.NewLogPublisher(logger), func() {}
	}

	publisher := messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), cfg.KafkaTopic, logger)
	logger.Info("publishing events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close kafka publisher", "error", err)
		}
	}
}
