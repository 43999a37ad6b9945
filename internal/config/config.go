package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Configuration struct {
	Environment string
	Server      ServerConfig
	Mongo       MongoConfig
	Audit       AuditConfig
	Auth        AuthConfig
	Uploads     UploadConfig
	Notify      NotifyConfig
	Logging     LoggingConfig
	CORSOrigin  string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type AuditConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	OtpTTL     time.Duration
	BcryptCost int
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type NotifyConfig struct {
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	TwilioSID  string
	TwilioAuth string
	TwilioFrom string
}

type LoggingConfig struct {
	Level string
}

// Load reads the configuration from environment variables. Missing required
// values are a startup failure: the process must not accept traffic without
// a token secret or either connection string.
func Load() (*Configuration, error) {
	cfg := &Configuration{
		Environment: envStr("APP_ENV", "development"),
		Server: ServerConfig{
			Port:         envStr("PORT", "4000"),
			ReadTimeout:  envDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: envDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  envDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: envStr("MONGO_DB_NAME", "attorneycare"),
		},
		Audit: AuditConfig{
			DSN:             os.Getenv("PG_DSN"),
			MaxIdleConns:    envInt("PG_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("PG_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: envDuration("PG_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			TokenTTL:   envDuration("JWT_EXPIRES_IN", 8*time.Hour),
			OtpTTL:     time.Duration(envInt("OTP_EXPIRES_MIN", 10)) * time.Minute,
			BcryptCost: envInt("BCRYPT_COST", 12),
		},
		Uploads: UploadConfig{
			Dir:      envStr("UPLOAD_DIR", "uploads"),
			MaxBytes: 20 << 20,
		},
		Notify: NotifyConfig{
			SMTPHost:   os.Getenv("SMTP_HOST"),
			SMTPPort:   envInt("SMTP_PORT", 587),
			SMTPUser:   os.Getenv("SMTP_USER"),
			SMTPPass:   os.Getenv("SMTP_PASS"),
			SMTPFrom:   os.Getenv("SMTP_FROM"),
			TwilioSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuth: os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFrom: os.Getenv("TWILIO_FROM"),
		},
		Logging: LoggingConfig{
			Level: envStr("LOG_LEVEL", "info"),
		},
		CORSOrigin: envStr("CORS_ORIGIN", "*"),
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.Audit.DSN == "" {
		return nil, fmt.Errorf("PG_DSN is required")
	}
	return cfg, nil
}

func (c *Configuration) Production() bool {
	return c.Environment == "production"
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
