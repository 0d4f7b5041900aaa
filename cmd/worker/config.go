package main

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"lovewall-backend/internal/shared/utils"
)

// Config holds the worker's own knobs, read straight from the environment.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SMTPHost      string
	SMTPPort      string
	EmailFrom     string
	Concurrency   int
}

func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:     utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		RedisPassword: utils.GetEnvVariable("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		SMTPHost:      utils.GetEnvVariable("SMTP_HOST", "localhost"),
		SMTPPort:      utils.GetEnvVariable("SMTP_PORT", "1025"),
		EmailFrom:     utils.GetEnvVariable("EMAIL_FROM", "noreply@lovewall.app"),
		Concurrency:   envInt("WORKER_CONCURRENCY", 10),
	}

	log.Info().
		Str("redis", cfg.RedisAddr).
		Str("smtp", cfg.SMTPHost+":"+cfg.SMTPPort).
		Int("concurrency", cfg.Concurrency).
		Msg("Worker config loaded")

	return cfg
}

func envInt(key string, def int) int {
	raw := utils.GetEnvVariable(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
