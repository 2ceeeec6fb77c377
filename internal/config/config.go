package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envFormat      = "KAYLA_FORMAT"
	envFrameRate   = "KAYLA_FRAME_RATE"
	envConcurrency = "KAYLA_CONCURRENCY"
	envFFmpegPath  = "KAYLA_FFMPEG_PATH"
	envFFprobePath = "KAYLA_FFPROBE_PATH"
)

// settings read from the environment; command flags take precedence
type Config struct {
	Format      string  // target format identifier
	FrameRate   float64 // MicroDVD output frame rate
	Concurrency int     // batch workers
	FFmpegPath  string
	FFprobePath string
}

func Default() Config {
	return Config{
		Format:      "SubRip",
		FrameRate:   25,
		Concurrency: 1,
	}
}

// loads .env files if present, then the KAYLA_* variables
func Load(envFiles ...string) (Config, error) {
	// best-effort: a missing .env is not an error
	_ = godotenv.Load(envFiles...)
	return FromEnv(os.Getenv)
}

// builds a config from a lookup function such as os.Getenv
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(envFormat)); v != "" {
		cfg.Format = v
	}
	if v := strings.TrimSpace(getenv(envFrameRate)); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be a positive number", envFrameRate, v)
		}
		cfg.FrameRate = rate
	}
	if v := strings.TrimSpace(getenv(envConcurrency)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be a positive integer", envConcurrency, v)
		}
		cfg.Concurrency = n
	}
	cfg.FFmpegPath = strings.TrimSpace(getenv(envFFmpegPath))
	cfg.FFprobePath = strings.TrimSpace(getenv(envFFprobePath))

	return cfg, nil
}
