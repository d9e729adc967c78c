package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

func GetEnvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("[GetEnvInt] not an integer, using default")
		return def
	}
	return n
}

func GetEnvUint64(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("[GetEnvUint64] not an unsigned integer, using default")
		return def
	}
	return n
}

// GetEnvDuration reads a whole number of seconds.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("[GetEnvDuration] invalid seconds, using default")
		return def
	}
	return time.Duration(secs) * time.Second
}
