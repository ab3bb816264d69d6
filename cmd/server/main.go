package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tukang/tukang-api/internal/config"
	"github.com/tukang/tukang-api/internal/handlers"
	"github.com/tukang/tukang-api/internal/mailer"
	"github.com/tukang/tukang-api/internal/middleware"
	"github.com/tukang/tukang-api/internal/repository"
	"github.com/tukang/tukang-api/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.Log.Level).Warn("Unknown LOG_LEVEL, keeping info")
	}

	ctx := context.Background()

	pool, err := repository.NewPool(ctx, cfg.Database.URL, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize PostgreSQL")
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(ctx, pool, logger); err != nil {
			logger.WithError(err).Fatal("Failed to migrate database")
		}
	}

	otpStore, closeOTPStore, err := initOTPStore(ctx, cfg, pool, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize OTP store")
	}
	defer closeOTPStore()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	workerRepo := repository.NewWorkerRepository(pool, logger)

	// Initialize services
	otpService := service.NewOTPService(otpStore, initMailer(cfg, logger), &cfg.OTP, logger)
	accountService := service.NewAccountService(userRepo, otpService, &cfg.Auth, logger)
	workerService := service.NewWorkerService(workerRepo, logger)

	router := setupRouter(
		handlers.NewAuthHandlers(otpService, accountService, logger),
		handlers.NewAccountHandlers(accountService, logger),
		handlers.NewAdminHandlers(accountService, workerService, logger),
		handlers.NewWorkerHandlers(workerService, logger),
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":      cfg.Server.Port,
			"otp_store": cfg.OTP.Store,
			"mailer":    cfg.Mail.Provider,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// initOTPStore returns the configured OTP backend and a func releasing any
// client it opened.
func initOTPStore(ctx context.Context, cfg *config.Config, pool repository.DB, logger *logrus.Logger) (service.OTPStore, func(), error) {
	noop := func() {}

	switch cfg.OTP.Store {
	case config.OTPStoreRedis:
		client, err := initRedis(ctx, cfg, logger)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close Redis client")
			}
		}
		return repository.NewRedisOTPRepository(client, logger), closeFn, nil

	case config.OTPStoreDynamoDB:
		client, err := initDynamoDB(ctx, cfg, logger)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewDynamoOTPRepository(client, cfg.DynamoDB.TableName, logger), noop, nil

	default:
		return repository.NewOTPRepository(pool, logger), noop, nil
	}
}

func initRedis(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithField("endpoint", cfg.Redis.Endpoint).Info("Redis client initialized")
	return client, nil
}

func initDynamoDB(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(_, _ string, _ ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DynamoDB.Region))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.WithField("table", cfg.DynamoDB.TableName).Info("DynamoDB client initialized")
	return client, nil
}

func initMailer(cfg *config.Config, logger *logrus.Logger) mailer.Mailer {
	switch cfg.Mail.Provider {
	case config.MailProviderSendGrid:
		return mailer.NewSendGridMailer(
			cfg.Mail.SendGridAPIKey,
			cfg.Mail.FromAddress,
			cfg.Mail.FromName,
			cfg.Mail.SendGridSandbox,
			logger,
		)
	case config.MailProviderLog:
		logger.Warn("MAIL_PROVIDER=log: OTP codes are written to the log and not delivered")
		return mailer.NewLogMailer(logger)
	default:
		return mailer.NewSMTPMailer(
			cfg.Mail.SMTPHost,
			cfg.Mail.SMTPPort,
			cfg.Mail.Username,
			cfg.Mail.Password,
			cfg.Mail.FromAddress,
			cfg.Mail.FromName,
			logger,
		)
	}
}

func setupRouter(
	authHandlers *handlers.AuthHandlers,
	accountHandlers *handlers.AccountHandlers,
	adminHandlers *handlers.AdminHandlers,
	workerHandlers *handlers.WorkerHandlers,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	router.HandleFunc("/send-otp", authHandlers.SendOTP).Methods(http.MethodPost)
	router.HandleFunc("/verify-otp", authHandlers.VerifyOTP).Methods(http.MethodPost)
	router.HandleFunc("/register", authHandlers.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", authHandlers.Login).Methods(http.MethodPost)

	router.HandleFunc("/change-password", accountHandlers.ChangePassword).Methods(http.MethodPost)
	router.HandleFunc("/change-profile", accountHandlers.ChangeProfile).Methods(http.MethodPost)
	router.HandleFunc("/change-location", accountHandlers.ChangeLocation).Methods(http.MethodPost)

	router.HandleFunc("/worker/add-skill", workerHandlers.AddSkill).Methods(http.MethodPost)
	router.HandleFunc("/worker/submit-initial", workerHandlers.SubmitInitial).Methods(http.MethodPost)

	router.HandleFunc("/admin/update-user", adminHandlers.UpdateUser).Methods(http.MethodPost)
	router.HandleFunc("/admin/reset-password", adminHandlers.ResetPassword).Methods(http.MethodPost)
	router.HandleFunc("/admin/delete-user", adminHandlers.DeleteUser).Methods(http.MethodPost)
	router.HandleFunc("/admin/verify-skill", adminHandlers.VerifySkill).Methods(http.MethodPost)
	router.HandleFunc("/admin/verify-account", adminHandlers.VerifyAccount).Methods(http.MethodPost)

	return router
}
