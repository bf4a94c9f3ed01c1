// Package config loads the ambient server configuration from the
// environment. The store file and listening port come from argv, not from
// here.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	BindHost    string
	CacheMaxMB  int
	AWSRegion   string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

func Load() *Config {
	return &Config{
		BindHost:    getEnv("IMGFS_BIND_HOST", "127.0.0.1"),
		CacheMaxMB:  getEnvInt("IMGFS_CACHE_MB", 64),
		AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:  getEnv("IMGFS_S3_ENDPOINT", ""),
		S3AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}

	return parsed
}
