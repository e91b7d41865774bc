package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	GinMode                         string
	Port                            string
	DbAddress                       string
	JwtSecret                       string
	UserTokenExpiry                 int
	OauthStateTokenExpiry           int
	GoogleClientId                  string
	GoogleClientSecret              string
	GoogleRedirectUri               string
	FrontendUrl                     string
	TwoFaIssuer                     string
	TwoFaTokenExpiry                int
	RedisURL                        string
	IsRedisEnabled                  bool
	RateLimiterDurationInSec        int
	RateLimiterRequestLimit         int
	RateLimiterCleanupIntervalInSec int
}

func getEnvStrOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)

	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvStrOrError(key string) (string, error) {
	value := os.Getenv(key)

	if value == "" {
		return "", errors.New("environment variable " + key + " is required but not set")
	}

	return value, nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)

	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func LoadConfigFromEnv() (*Config, error) {
	jwtSecret, err := getEnvStrOrError("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	googleClientId, err := getEnvStrOrError("GOOGLE_CLIENT_ID")
	if err != nil {
		return nil, err
	}

	googleClientSecret, err := getEnvStrOrError("GOOGLE_CLIENT_SECRET")
	if err != nil {
		return nil, err
	}

	return &Config{
		GinMode:                         getEnvStrOrDefault("GIN_MODE", "debug"),
		Port:                            getEnvStrOrDefault("PORT", "3003"),
		DbAddress:                       getEnvStrOrDefault("DB_ADDRESS", "data/meeton_db.sqlite"),
		JwtSecret:                       jwtSecret,
		UserTokenExpiry:                 getEnvIntOrDefault("USER_TOKEN_EXPIRY", 3600),
		OauthStateTokenExpiry:           getEnvIntOrDefault("OAUTH_STATE_TOKEN_EXPIRY", 600),
		GoogleClientId:                  googleClientId,
		GoogleClientSecret:              googleClientSecret,
		GoogleRedirectUri:               getEnvStrOrDefault("GOOGLE_REDIRECT_URI", "http://localhost:3003/api/users/google/callback"),
		FrontendUrl:                     getEnvStrOrDefault("FRONTEND_URL", "http://localhost:5173"),
		TwoFaIssuer:                     getEnvStrOrDefault("TWO_FA_ISSUER", "MeetOn"),
		TwoFaTokenExpiry:                getEnvIntOrDefault("TWO_FA_TOKEN_EXPIRY", 600),
		RedisURL:                        getEnvStrOrDefault("REDIS_URL", ""),
		IsRedisEnabled:                  getEnvStrOrDefault("REDIS_URL", "") != "",
		RateLimiterDurationInSec:        getEnvIntOrDefault("RATE_LIMITER_DURATION_IN_SEC", 60),
		RateLimiterRequestLimit:         getEnvIntOrDefault("RATE_LIMITER_REQUEST_LIMIT", 1000),
		RateLimiterCleanupIntervalInSec: getEnvIntOrDefault("RATE_LIMITER_CLEANUP_INTERVAL_IN_SEC", 300),
	}, nil
}
