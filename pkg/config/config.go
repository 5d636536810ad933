package config

import (
	"log"
	"os"
	"time"

	"VoxGate/pkg/cache"
	"VoxGate/pkg/logger"
	stores "VoxGate/pkg/storage"
	"VoxGate/pkg/util"
)

// config/config.go
type Config struct {
	Addr     string `env:"ADDR"`
	Mode     string `env:"MODE"`
	DBDriver string `env:"DB_DRIVER"`
	DSN      string `env:"DSN"`

	JWTSecret      string `env:"JWT_SECRET"`
	JWTExpireHours int64  `env:"JWT_EXPIRE_HOURS"`
	RateLimit      string `env:"RATE_LIMIT"`

	GrokAPIURL    string `env:"GROK_API_URL"`
	GrokAPIKey    string `env:"GROK_API_KEY"`
	KrutrimAPIURL string `env:"KRUTRIM_API_URL"`
	KrutrimAPIKey string `env:"KRUTRIM_API_KEY"`
	KrutrimModel  string `env:"KRUTRIM_MODEL"`
	TTSAPIURL     string `env:"TTS_API_URL"`
	TTSAPIKey     string `env:"TTS_API_KEY"`

	Log   logger.LogConfig
	Cache cache.Config
	Minio stores.MinioConfig
}

var GlobalConfig *Config

func Load() error {
	// 1. 根据环境加载 .env 文件
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. 加载全局配置
	GlobalConfig = &Config{
		Addr:     util.GetEnvDefault("ADDR", ":8080"),
		Mode:     util.GetEnvDefault("MODE", "debug"),
		DBDriver: util.GetEnv("DB_DRIVER"),
		DSN:      util.GetEnv("DSN"),

		JWTSecret:      util.GetEnv("JWT_SECRET"),
		JWTExpireHours: util.GetIntEnv("JWT_EXPIRE_HOURS"),
		RateLimit:      util.GetEnvDefault("RATE_LIMIT", "100-M"),

		GrokAPIURL:    util.GetEnv("GROK_API_URL"),
		GrokAPIKey:    util.GetEnv("GROK_API_KEY"),
		KrutrimAPIURL: util.GetEnv("KRUTRIM_API_URL"),
		KrutrimAPIKey: util.GetEnv("KRUTRIM_API_KEY"),
		KrutrimModel:  util.GetEnv("KRUTRIM_MODEL"),
		TTSAPIURL:     util.GetEnv("TTS_API_URL"),
		TTSAPIKey:     util.GetEnv("TTS_API_KEY"),

		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		Cache: cache.Config{
			Type: util.GetEnvDefault("CACHE_TYPE", "memory"),
			Redis: cache.RedisConfig{
				Addr:         util.GetEnvDefault("REDIS_ADDR", "localhost:6379"),
				Password:     util.GetEnv("REDIS_PASSWORD"),
				DB:           int(util.GetIntEnv("REDIS_DB")),
				PoolSize:     int(util.GetIntEnv("REDIS_POOL_SIZE")),
				DialTimeout:  5 * time.Second,
				ReadTimeout:  3 * time.Second,
				WriteTimeout: 3 * time.Second,
			},
		},
		Minio: stores.MinioConfig{
			Endpoint:  util.GetEnv("MINIO_ENDPOINT"),
			AccessKey: util.GetEnv("MINIO_ACCESS_KEY"),
			SecretKey: util.GetEnv("MINIO_SECRET_KEY"),
			Bucket:    util.GetEnvDefault("MINIO_BUCKET", "voxgate-audio"),
			UseSSL:    util.GetBoolEnv("MINIO_USE_SSL"),
		},
	}
	return nil
}
