package main

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(key + " not found in environment")
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		panic("invalid duration in " + key + ": " + raw)
	}
	return d
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		panic("invalid integer in " + key + ": " + raw)
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		panic("invalid boolean in " + key + ": " + raw)
	}
	return b
}

func initLogger() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	level, err := log.ParseLevel(envString("LOG_LEVEL", "info"))
	if err != nil {
		log.Warnf("invalid LOG_LEVEL, using info, %v", err)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
