package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"
)

const defaultConfigTemplate = "PORT=3000\nSQLITE_PATH=data/linkboard.db\nENABLE_GZIP=true\nFEED_CACHE_TTL=30s\nJWT_SECRET=%s\n"

// configKeys lists every key read from the config file and the environment.
var configKeys = []string{
	"PORT",
	"SQLITE_PATH",
	"SQL_DSN",
	"JWT_SECRET",
	"REDIS_CONN_STRING",
	"FEED_CACHE_TTL",
	"ENABLE_GZIP",
	"GRAPHQL_PLAYGROUND",
	"GLOBAL_API_RATE_LIMIT",
	"GLOBAL_API_RATE_LIMIT_DURATION",
}

func defaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "linkboard", "config.ini"), nil
}

func loadConfigFile(configPath string) error {
	if configPath == "" {
		var err error
		configPath, err = defaultConfigPath()
		if err != nil {
			return err
		}
	}

	if err := ensureConfigFile(configPath); err != nil {
		return err
	}

	configMap, err := parseIniConfig(configPath)
	if err != nil {
		return err
	}

	if err := applyConfigMap(configMap); err != nil {
		return fmt.Errorf("apply config file %s: %w", configPath, err)
	}

	return nil
}

func ensureConfigFile(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", configDir, err)
	}

	configFile, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create config file %s: %w", configPath, err)
	}
	defer configFile.Close()

	if _, err := configFile.WriteString(fmt.Sprintf(defaultConfigTemplate, uuid.New().String())); err != nil {
		return fmt.Errorf("write default config file %s: %w", configPath, err)
	}

	return nil
}

func parseIniConfig(path string) (map[string]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse ini config %s: %w", path, err)
	}

	configMap := make(map[string]string)
	for _, section := range cfg.Sections() {
		for _, key := range section.Keys() {
			configKey := strings.ToUpper(strings.TrimSpace(key.Name()))
			if configKey == "" {
				continue
			}
			configMap[configKey] = strings.TrimSpace(key.Value())
		}
	}

	return configMap, nil
}

func envConfigMap() map[string]string {
	configMap := make(map[string]string)
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			configMap[key] = strings.TrimSpace(value)
		}
	}
	return configMap
}

func applyConfigMap(configMap map[string]string) error {
	if configValue, ok := configMap["SQLITE_PATH"]; ok && configValue != "" {
		SQLitePath = configValue
	}

	if configValue, ok := configMap["SQL_DSN"]; ok && configValue != "" {
		SQLDSN = configValue
	}

	if configValue, ok := configMap["JWT_SECRET"]; ok && configValue != "" {
		JWTSecret = configValue
	}

	if configValue, ok := configMap["REDIS_CONN_STRING"]; ok && configValue != "" {
		RedisConnString = configValue
	}

	if configValue, ok := configMap["PORT"]; ok && configValue != "" {
		portInt, err := strconv.Atoi(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for PORT: %w", err)
		}
		Port = portInt
	}

	if configValue, ok := configMap["FEED_CACHE_TTL"]; ok && configValue != "" {
		ttl, err := time.ParseDuration(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for FEED_CACHE_TTL: %w", err)
		}
		FeedCacheTTL = ttl
	}

	if configValue, ok := configMap["ENABLE_GZIP"]; ok && configValue != "" {
		enableGzipBool, err := strconv.ParseBool(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for ENABLE_GZIP: %w", err)
		}
		EnableGzip = enableGzipBool
	}

	if configValue, ok := configMap["GRAPHQL_PLAYGROUND"]; ok && configValue != "" {
		playground, err := strconv.ParseBool(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for GRAPHQL_PLAYGROUND: %w", err)
		}
		GraphQLPlayground = playground
	}

	if configValue, ok := configMap["GLOBAL_API_RATE_LIMIT"]; ok && configValue != "" {
		limit, err := strconv.Atoi(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for GLOBAL_API_RATE_LIMIT: %w", err)
		}
		GlobalAPIRateLimitNum = limit
	}

	if configValue, ok := configMap["GLOBAL_API_RATE_LIMIT_DURATION"]; ok && configValue != "" {
		duration, err := time.ParseDuration(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for GLOBAL_API_RATE_LIMIT_DURATION: %w", err)
		}
		GlobalAPIRateLimitDuration = duration
	}

	return nil
}
