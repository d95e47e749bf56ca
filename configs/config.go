package config

import (
	"os"
	"strconv"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicBase string
}

type Config struct {
	Port                  string
	PostgresURI           string
	RedisURI              string
	FrontendURL           string
	SecretKey             string
	JWTSecret             string
	CookieName            string
	CronSecret            string
	SweepBatchSize        int
	InstagramClientSecret string
	FacebookClientSecret  string
	GoogleClientID        string
	GoogleClientSecret    string
	R2                    R2
}

func LoadConfig() *Config {
	return &Config{
		Port:                  getEnv("PORT", "3000"),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		RedisURI:              getEnv("REDIS_URI", "127.0.0.1:6379"),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:             getEnv("SECRET_KEY", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		CookieName:            getEnv("COOKIE_NAME", "pp_session"),
		CronSecret:            getEnv("CRON_SECRET", ""),
		SweepBatchSize:        getEnvInt("SWEEP_BATCH_SIZE", 25),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		FacebookClientSecret:  getEnv("FACEBOOK_CLIENT_SECRET", ""),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicBase: getEnv("R2_PUBLIC_BASE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
