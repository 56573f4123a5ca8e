package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the server.
type Config struct {
	ServerAddr    string
	FFmpegPath    string
	YtdlpPath     string
	OutputDir     string
	CookiesFile   string
	StaticDir     string
	SweepInterval time.Duration
}

// Load reads environment variables and returns normalized runtime config.
func Load() Config {
	return Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		FFmpegPath:    getEnv("FFMPEG_PATH", "ffmpeg"),
		YtdlpPath:     getEnv("YTDLP_PATH", "yt-dlp"),
		OutputDir:     getEnv("OUTPUT_DIR", "./downloads"),
		CookiesFile:   getEnv("COOKIES_FILE", "./cookies.txt"),
		StaticDir:     getEnv("STATIC_DIR", "./static"),
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 30)) * time.Minute,
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	var out int
	_, err := fmt.Sscanf(value, "%d", &out)
	if err != nil || out <= 0 {
		return fallback
	}
	return out
}
