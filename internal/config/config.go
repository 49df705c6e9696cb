package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Storage  StorageConfig
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  string
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string // postgres 或 memory
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

// AuthConfig 认证配置
type AuthConfig struct {
	Secret        string
	JWTExpiry     time.Duration
	AdminEmail    string
	AdminPassword string
}

// CatalogConfig 电影列表配置
type CatalogConfig struct {
	PageSize     int
	CacheSize    int
	CacheTTL     time.Duration
	TopRatedSize int
	RandomSize   int
}

// StorageConfig 对象存储配置（S3 兼容）
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	PublicURL       string
	MaxUploadSize   int64
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "moviecatalog"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Debug:           getBool("DB_DEBUG", false),
		},
		Auth: AuthConfig{
			Secret:        getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret)),
			JWTExpiry:     time.Duration(getInt("JWT_EXPIRY_HOURS", 24*30)) * time.Hour,
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Catalog: CatalogConfig{
			PageSize:     getInt("CATALOG_PAGE_SIZE", 2),
			CacheSize:    getInt("CATALOG_CACHE_SIZE", 1000),
			CacheTTL:     getDuration("CATALOG_CACHE_TTL", 30*time.Second),
			TopRatedSize: getInt("CATALOG_TOP_RATED_SIZE", 10),
			RandomSize:   getInt("CATALOG_RANDOM_SIZE", 8),
		},
		Storage: StorageConfig{
			Enabled:         getBool("STORAGE_ENABLED", true),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("STORAGE_BUCKET", "movies"),
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
			UseSSL:          getBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", "http://localhost:9000"),
			MaxUploadSize:   int64(getInt("STORAGE_MAX_UPLOAD_MB", 10)) << 20,
		},
	}
}

// DSN 返回 PostgreSQL 连接串
func (c *Config) DSN() string {
	d := c.Database
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Catalog.PageSize < 1 {
		return errors.New("CATALOG_PAGE_SIZE must be at least 1")
	}
	if c.Catalog.CacheSize < 1 {
		return errors.New("CATALOG_CACHE_SIZE must be at least 1")
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.IsProduction() && c.Auth.Secret == defaultSecret {
		return errors.New("APP_SECRET must be set in production")
	}
	if c.Storage.Enabled {
		if c.Storage.Endpoint == "" {
			return errors.New("STORAGE_ENDPOINT is required when storage is enabled")
		}
		if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return errors.New("storage credentials are required when storage is enabled")
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return defaultValue
}
