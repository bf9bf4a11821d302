package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	applyEnvOverrides()
	return nil
}

// applyEnvOverrides lets deployment environments override the secrets
// without editing config.json. TELEGRAM_BOT_TOKEN wins over the file value.
func applyEnvOverrides() {
	if token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); token != "" {
		AppConfig.Telegram.Token = token
	}
	if password := strings.TrimSpace(os.Getenv("DATABASE_PASSWORD")); password != "" {
		AppConfig.Database.Password = password
	}
}
