package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment string
	ServerPort  string
	DB          DBConfig
	JWT         JWTConfig
	Storage     StorageConfig
	Log         LogConfig
	Seed        SeedConfig

	CookieDomain string
	// EnvLoaded is false when no .env file was found; not an error.
	EnvLoaded bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret string
	Expire time.Duration
}

type StorageConfig struct {
	Driver         string // "local" or "s3"
	UploadsDir     string
	AssetsDir      string
	MaxUploadBytes int64

	S3Region    string
	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

type LogConfig struct {
	Level  string
	Format string
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// DSN returns a postgres:// connection string understood by pgxpool.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func LoadConfig() (Config, error) {
	loaded := godotenv.Load() == nil

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return Config{}, fmt.Errorf("DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil || maxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be a positive integer")
	}
	expire, err := time.ParseDuration(getEnv("JWT_EXPIRE", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "5242880"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}

	cfg := Config{
		Environment: getEnv("ENVIRONMENT", EnvDevelopment),
		ServerPort:  getEnv("SERVER_PORT", "5000"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "kopi_nusantara"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "dev_secret_change_me"),
			Expire: expire,
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
			AssetsDir:      getEnv("ASSETS_DIR", "assets"),
			MaxUploadBytes: maxUpload,
			S3Region:       os.Getenv("S3_REGION"),
			S3Endpoint:     os.Getenv("S3_ENDPOINT"),
			S3Bucket:       os.Getenv("S3_BUCKET"),
			S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Seed: SeedConfig{
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		},
		CookieDomain: getEnv("COOKIE_DOMAIN", "localhost"),
		EnvLoaded:    loaded,
	}

	if cfg.Storage.Driver != "local" && cfg.Storage.Driver != "s3" {
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be local or s3, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "s3" && cfg.Storage.S3Bucket == "" {
		return Config{}, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
