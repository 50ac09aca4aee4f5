package config

import (
	"os"
	"strconv"
)

// Config 应用配置
type Config struct {
	Env             string
	Port            string
	DBPath          string
	ShowsJSONPath   string
	DefaultPageSize int
	SiteName        string
}

// Load 加载配置
func Load() *Config {
	pageSize, err := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "21"))
	if err != nil || pageSize < 1 {
		pageSize = 21
	}

	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "3001"),
		DBPath:          getEnv("DB_PATH", "./database/shows.db"),
		ShowsJSONPath:   getEnv("SHOWS_JSON_PATH", "./database/reviewed_shows.json"),
		DefaultPageSize: pageSize,
		SiteName:        getEnv("SITE_NAME", "ShowSense"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
