package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	OTPStorePostgres = "postgres"
	OTPStoreRedis    = "redis"
	OTPStoreDynamoDB = "dynamodb"

	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
	MailProviderLog      = "log"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	DynamoDB DynamoDBConfig
	Mail     MailConfig
	OTP      OTPConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port               string        `env:"PORT" envDefault:"3000"`
	ReadTimeout        time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout       time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type DatabaseConfig struct {
	URL         string `env:"DATABASE_URL,required,notEmpty"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type RedisConfig struct {
	Endpoint string `env:"REDIS_ENDPOINT" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type DynamoDBConfig struct {
	Endpoint  string `env:"DYNAMODB_ENDPOINT"`
	Region    string `env:"DYNAMODB_REGION" envDefault:"ap-southeast-1"`
	TableName string `env:"DYNAMODB_TABLE_NAME" envDefault:"TukangOTP"`
}

type MailConfig struct {
	Provider        string `env:"MAIL_PROVIDER" envDefault:"smtp"`
	SMTPHost        string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort        int    `env:"SMTP_PORT" envDefault:"465"`
	Username        string `env:"GMAIL_USER"`
	Password        string `env:"GMAIL_APP_PASSWORD"`
	FromName        string `env:"MAIL_FROM_NAME" envDefault:"Aplikasi Tukang PUPR"`
	FromAddress     string `env:"MAIL_FROM_ADDRESS"`
	SendGridAPIKey  string `env:"SENDGRID_API_KEY"`
	SendGridSandbox bool   `env:"SENDGRID_SANDBOX_MODE" envDefault:"false"`
}

type OTPConfig struct {
	Store  string        `env:"OTP_STORE" envDefault:"postgres"`
	Expiry time.Duration `env:"OTP_EXPIRY" envDefault:"5m"`
}

type AuthConfig struct {
	BcryptCost           int      `env:"BCRYPT_COST" envDefault:"12"`
	DefaultResetPassword string   `env:"DEFAULT_RESET_PASSWORD" envDefault:"12345678"`
	RegisterRoles        []string `env:"REGISTER_ROLES" envDefault:"worker,customer" envSeparator:","`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Mail.FromAddress == "" {
		cfg.Mail.FromAddress = cfg.Mail.Username
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.OTP.Store {
	case OTPStorePostgres, OTPStoreRedis, OTPStoreDynamoDB:
	default:
		return fmt.Errorf("OTP_STORE must be one of postgres, redis, dynamodb (got %q)", c.OTP.Store)
	}

	if c.OTP.Expiry <= 0 {
		return errors.New("OTP_EXPIRY must be positive")
	}

	switch c.Mail.Provider {
	case MailProviderSMTP:
		if c.Mail.Username == "" || c.Mail.Password == "" {
			return errors.New("GMAIL_USER and GMAIL_APP_PASSWORD are required for the smtp mail provider")
		}
	case MailProviderSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return errors.New("SENDGRID_API_KEY is required for the sendgrid mail provider")
		}
		if c.Mail.FromAddress == "" {
			return errors.New("MAIL_FROM_ADDRESS or GMAIL_USER is required for the sendgrid mail provider")
		}
	case MailProviderLog:
	default:
		return fmt.Errorf("MAIL_PROVIDER must be smtp, sendgrid or log (got %q)", c.Mail.Provider)
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31 (got %d)", c.Auth.BcryptCost)
	}

	if len(c.Auth.DefaultResetPassword) < 6 {
		return errors.New("DEFAULT_RESET_PASSWORD must be at least 6 characters")
	}

	if len(c.Auth.RegisterRoles) == 0 {
		return errors.New("REGISTER_ROLES must name at least one role")
	}
	for _, role := range c.Auth.RegisterRoles {
		if strings.TrimSpace(role) == "" {
			return errors.New("REGISTER_ROLES must not contain empty roles")
		}
	}

	return nil
}
