package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL      string
	Host             string
	Port             string
	JwtSecret        string
	GeminiAPIKey     string
	BrowserlessWSURL string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Host:             os.Getenv("HOST"),
		Port:             os.Getenv("PORT"),
		JwtSecret:        os.Getenv("JWT_SECRET"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		BrowserlessWSURL: os.Getenv("BROWSERLESS_WS_URL"),
	}

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set. This is critical for authentication.")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is not set. Video generation requires it.")
	}
	if cfg.BrowserlessWSURL == "" {
		log.Info("BROWSERLESS_WS_URL is not set; the scraper will launch a local headless browser.")
	}

	return cfg
}
