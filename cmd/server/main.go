// Command server runs the payment gateway integration service: the HTTP API,
// the metrics endpoint, and the Authorize.Net client behind them.
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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/commercekit/authnet-gateway/internal/adapters/authnet"
	"github.com/commercekit/authnet-gateway/internal/adapters/logging"
	"github.com/commercekit/authnet-gateway/internal/adapters/postgres"
	"github.com/commercekit/authnet-gateway/internal/adapters/secrets"
	"github.com/commercekit/authnet-gateway/internal/config"
	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	"github.com/commercekit/authnet-gateway/internal/handlers"
	"github.com/commercekit/authnet-gateway/internal/services/payment"
	"github.com/commercekit/authnet-gateway/internal/services/paymentmethod"
	"github.com/commercekit/authnet-gateway/internal/services/profile"
	"github.com/commercekit/authnet-gateway/pkg/observability"
	"github.com/commercekit/authnet-gateway/pkg/timeutil"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting payment gateway service",
		zap.String("version", "0.1.0"),
		zap.Bool("sandbox", cfg.Gateway.Sandbox),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.ConnectionString())
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	// Merchant credentials
	if err := loadGatewayCredentials(ctx, cfg, logger); err != nil {
		logger.Fatal("Failed to load gateway credentials", zap.Error(err))
	}

	// Gateway client
	loggerAdapter := logging.NewZapLogger(logger)
	client := authnet.NewClientWithDefaults(authnet.Config{
		APILoginID:        cfg.Gateway.APILoginID,
		TransactionKey:    cfg.Gateway.TransactionKey,
		Sandbox:           cfg.Gateway.Sandbox,
		RequestsPerSecond: cfg.Gateway.RequestsPerSecond,
		Burst:             cfg.Gateway.Burst,
	}, loggerAdapter)

	// Repositories
	customerRepo := postgres.NewCustomerRepository(pool)
	methodRepo := postgres.NewPaymentMethodRepository(pool, customerRepo)
	paymentRepo := postgres.NewPaymentRepository(pool, methodRepo)

	// Services
	providerKey := domain.ProviderKey(cfg.Gateway.GatewayID)
	clock := timeutil.SystemClock{}
	resolver := profile.NewResolver(client, customerRepo, providerKey, clock, loggerAdapter)
	orchestrator := payment.NewOrchestrator(client, paymentRepo, methodRepo, providerKey, clock, loggerAdapter)
	lifecycle := paymentmethod.NewLifecycle(resolver, client, methodRepo, providerKey, loggerAdapter)

	// HTTP API
	paymentHandler := handlers.NewPaymentHandler(orchestrator, paymentRepo, loggerAdapter)
	methodHandler := handlers.NewPaymentMethodHandler(lifecycle, methodRepo, customerRepo, loggerAdapter)
	router := handlers.NewRouter(paymentHandler, methodHandler)

	apiServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("HTTP API listening", zap.String("addr", apiServer.Addr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Metrics and health
	healthChecker := observability.NewHealthChecker(pool, func(ctx context.Context) error {
		resp, err := client.AuthenticateTest(ctx)
		if err != nil {
			return err
		}
		if resp.ResultCode != gateway.ResultCodeOk {
			return fmt.Errorf("gateway credential check failed: %s", resp.LeadingMessage().Text)
		}
		return nil
	})
	metricsServer := observability.StartMetricsServer(
		fmt.Sprintf("%d", cfg.Server.MetricsPort),
		healthChecker,
		func(err error) {
			logger.Error("Metrics server error", zap.Error(err))
		},
	)
	logger.Info("Metrics server listening", zap.Int("port", cfg.Server.MetricsPort))

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}

// buildLogger constructs the zap logger from config
func buildLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// loadGatewayCredentials fills in the merchant credentials from the configured
// secret backend when they are not set in the environment.
func loadGatewayCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var manager ports.SecretManager

	switch cfg.Secrets.Backend {
	case "env", "":
		return nil

	case "local":
		manager = secrets.NewLocalSecretManager(cfg.Secrets.LocalPath, logger)

	case "aws":
		awsCfg := secrets.DefaultAWSSecretsManagerConfig(cfg.Secrets.AWSRegion)
		awsCfg.Endpoint = cfg.Secrets.AWSEndpoint
		var err error
		manager, err = secrets.NewAWSSecretsManager(ctx, awsCfg, logger)
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown secrets backend %q", cfg.Secrets.Backend)
	}

	if cfg.Gateway.APILoginID == "" {
		secret, err := manager.GetSecret(ctx, cfg.Secrets.LoginIDPath)
		if err != nil {
			return fmt.Errorf("load API login id: %w", err)
		}
		cfg.Gateway.APILoginID = strings.TrimSpace(secret.Value)
	}
	if cfg.Gateway.TransactionKey == "" {
		secret, err := manager.GetSecret(ctx, cfg.Secrets.TransactionKeyPath)
		if err != nil {
			return fmt.Errorf("load transaction key: %w", err)
		}
		cfg.Gateway.TransactionKey = strings.TrimSpace(secret.Value)
	}
	if cfg.Gateway.APILoginID == "" || cfg.Gateway.TransactionKey == "" {
		return fmt.Errorf("gateway credentials are empty after secret lookup")
	}
	return nil
}
