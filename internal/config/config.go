package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Media     MediaConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	OIDC      OIDCConfig
	Monuments MonumentsConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig selects and configures the object store holding gallery media.
type StorageConfig struct {
	Driver    string // s3 | minio | memory
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	UseSSL    bool
}

type MediaConfig struct {
	ImageQuality int
	URLTTL       time.Duration
	MaxUploadMB  int64
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type OIDCConfig struct {
	Issuer   string
	ClientID string
}

type MonumentsConfig struct {
	CascadeDelete bool
}

// legacy variable names still honoured by deployments created before the rename
var aliases = map[string][]string{
	"SERVER_PORT":        {"PORT"},
	"MONGODB_URI":        {"MONGO_URL"},
	"STORAGE_ACCESS_KEY": {"ACCESS_KEY"},
	"STORAGE_SECRET_KEY": {"SECRET_ACCESS_KEY"},
	"STORAGE_BUCKET":     {"BUCKET_NAME"},
	"STORAGE_REGION":     {"BUCKET_REGION"},
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	for key, alts := range aliases {
		_ = v.BindEnv(append([]string{key, key}, alts...)...)
	}

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "heritage")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("STORAGE_DRIVER", "s3")
	v.SetDefault("STORAGE_BUCKET", "heritage-media")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("MEDIA_IMAGE_QUALITY", 20)
	v.SetDefault("MEDIA_URL_TTL", 3600)
	v.SetDefault("MEDIA_MAX_UPLOAD_MB", 50)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		Storage: StorageConfig{
			Driver:    v.GetString("STORAGE_DRIVER"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Media: MediaConfig{
			ImageQuality: v.GetInt("MEDIA_IMAGE_QUALITY"),
			URLTTL:       time.Duration(v.GetInt("MEDIA_URL_TTL")) * time.Second,
			MaxUploadMB:  v.GetInt64("MEDIA_MAX_UPLOAD_MB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		JWT: JWTConfig{
			Secret:          os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		OIDC: OIDCConfig{
			Issuer:   v.GetString("OIDC_ISSUER"),
			ClientID: v.GetString("OIDC_CLIENT_ID"),
		},
		Monuments: MonumentsConfig{
			CascadeDelete: v.GetBool("MONUMENT_CASCADE_DELETE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		log.Println("WARNING: JWT_SECRET is not set; set a secure value in production")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "s3", "minio", "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "minio" && c.Storage.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is required for the minio driver")
	}
	if c.Media.ImageQuality < 1 || c.Media.ImageQuality > 100 {
		return fmt.Errorf("MEDIA_IMAGE_QUALITY must be within 1..100, got %d", c.Media.ImageQuality)
	}
	if c.Media.URLTTL <= 0 {
		return fmt.Errorf("MEDIA_URL_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
