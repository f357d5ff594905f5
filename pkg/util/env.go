package util

import (
	"os"
	"time"
)

// GetEnv returns the value of the environment variable named by key or def if empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvDuration parses the environment variable named by key as a
// time.Duration, falling back to def when unset or malformed.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
