// Package config предоставляет загрузку конфигурации приложения из переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Бэкенды хранилища зон и животных.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config содержит все параметры конфигурации приложения.
// Значения загружаются из переменных окружения с fallback на значения по умолчанию.
type Config struct {
	ElasticsearchURL   string // URL для подключения к Elasticsearch/OpenSearch
	ElasticsearchIndex string // Индекс посещений животных
	PostgresHost       string // Хост PostgreSQL
	PostgresPort       string // Порт PostgreSQL
	PostgresUser       string // Пользователь PostgreSQL
	PostgresPassword   string // Пароль PostgreSQL
	PostgresDB         string // Имя базы данных PostgreSQL
	AppPort            string // Порт для HTTP сервера
	StorageBackend     string // postgres или memory
	LogDebug           bool   // Подробное логирование
	VisitsFile         string // JSON файл с посещениями для индексатора
}

// Load загружает конфигурацию из переменных окружения.
// Если переменная не установлена, используется значение по умолчанию.
func Load() *Config {
	return &Config{
		ElasticsearchURL:   getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "visited_locations"),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:       getEnv("POSTGRES_USER", "chipping_user"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", "chipping_pass"),
		PostgresDB:         getEnv("POSTGRES_DB", "chipping_db"),
		AppPort:            getEnv("APP_PORT", "8080"),
		StorageBackend:     getEnv("STORAGE_BACKEND", StoragePostgres),
		LogDebug:           getEnvBool("LOG_DEBUG", false),
		VisitsFile:         getEnv("VISITS_FILE", ""),
	}
}

// Validate проверяет значения, которые нельзя исправить значением по умолчанию.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if _, err := strconv.Atoi(c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	return nil
}

// PostgresDSN возвращает строку подключения к PostgreSQL.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresDB,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
