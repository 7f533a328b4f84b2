package config

import (
	"runtime"
	"time"
)

// AnalysisConfig bounds a curve build
type AnalysisConfig struct {
	Workers int `yaml:"workers" env:"PLOTARC_WORKERS" validate:"required,min=1,max=64"`
}

// LiveConfig throttles per-keystroke scoring
type LiveConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second" env:"PLOTARC_LIVE_RATE" validate:"gt=0"`
	Burst         int     `yaml:"burst" env:"PLOTARC_LIVE_BURST" validate:"required,min=1,max=100"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"PLOTARC_ADDR" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"PLOTARC_READ_TIMEOUT" validate:"required,min=1s,max=10m"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"PLOTARC_WRITE_TIMEOUT" validate:"required,min=1s,max=10m"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"PLOTARC_MAX_BODY_BYTES" validate:"required,min=1024"`
}

func DefaultAnalysis() AnalysisConfig {
	workers := runtime.NumCPU()
	if workers > 64 {
		workers = 64
	}
	return AnalysisConfig{Workers: workers}
}

func DefaultLive() LiveConfig {
	return LiveConfig{
		RatePerSecond: 4,
		Burst:         2,
	}
}

func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:         "127.0.0.1:8765",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		MaxBodyBytes: 8 << 20, // whole manuscripts are posted to /v1/curve
	}
}
