package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	dotenvOnce sync.Once
	appOnce    sync.Once
	appConfig  *AppConfig
)

// AppConfig holds service-level settings. Environment variables win over the
// optional config.yaml overlay, which wins over defaults.
type AppConfig struct {
	Port          string `yaml:"port"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	StorageType   string `yaml:"storageType"`
	RemoteEnabled bool   `yaml:"remoteEnabled"`
	RemoteScheme  string `yaml:"remoteScheme"`
	Concurrency   int    `yaml:"concurrency"`
	LogLevel      string `yaml:"logLevel"`
}

// loadDotenv loads the project .env once; all config accessors call it.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		rootDir := filepath.Dir(filepath.Dir(filename))
		envPath := filepath.Join(rootDir, ".env")

		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, falling back to environment variables", envPath)
		}
	})
}

func GetAppConfig() *AppConfig {
	appOnce.Do(func() {
		loadDotenv()

		appConfig = &AppConfig{
			Port:          ":8080",
			RedisAddr:     "localhost:6379",
			RedisDB:       0,
			StorageType:   "minio",
			RemoteEnabled: false,
			RemoteScheme:  "s3",
			Concurrency:   2,
			LogLevel:      "info",
		}

		applyYAMLOverlay(appConfig)

		if v := os.Getenv("APP_PORT"); v != "" {
			appConfig.Port = v
		}
		if v := os.Getenv("REDIS_ADDR"); v != "" {
			appConfig.RedisAddr = v
		}
		if v := os.Getenv("REDIS_DB"); v != "" {
			if db, err := strconv.Atoi(v); err == nil {
				appConfig.RedisDB = db
			}
		}
		if v := os.Getenv("STORAGE_TYPE"); v != "" {
			appConfig.StorageType = v
		}
		if v := os.Getenv("REMOTE_STORAGE_ENABLED"); v != "" {
			appConfig.RemoteEnabled = v == "true"
		}
		if v := os.Getenv("REMOTE_STORAGE_SCHEME"); v != "" {
			appConfig.RemoteScheme = v
		}
		if v := os.Getenv("DECOMPOSE_CONCURRENCY"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				appConfig.Concurrency = n
			}
		}
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			appConfig.LogLevel = v
		}
	})
	return appConfig
}

// applyYAMLOverlay merges config.yaml from the project root if present.
func applyYAMLOverlay(cfg *AppConfig) {
	_, filename, _, _ := runtime.Caller(0)
	rootDir := filepath.Dir(filepath.Dir(filename))
	yamlPath := filepath.Join(rootDir, "config.yaml")

	data, err := os.ReadFile(yamlPath)
	if err != nil {
		return
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("Warning: failed to parse %s: %v", yamlPath, err)
	}
}
