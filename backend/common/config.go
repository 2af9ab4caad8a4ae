package common

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type configSnapshot struct {
	Port                       int           `validate:"gte=1,lte=65535"`
	SQLitePath                 string        `validate:"required_without=SQLDSN"`
	SQLDSN                     string
	JWTSecret                  string        `validate:"required,min=16"`
	FeedCacheTTL               time.Duration `validate:"gte=0"`
	GlobalAPIRateLimitNum      int           `validate:"gte=0"`
	GlobalAPIRateLimitDuration time.Duration `validate:"gt=0"`
}

// LoadConfig populates the runtime configuration. Later sources win:
// built-in defaults, the ini config file, .env, then the process environment.
func LoadConfig() error {
	// .env never overrides variables that are already set
	_ = godotenv.Load()

	if err := loadConfigFile(ConfigPath); err != nil {
		return err
	}
	if err := applyConfigMap(envConfigMap()); err != nil {
		return fmt.Errorf("apply environment: %w", err)
	}
	return ValidateConfig()
}

func ValidateConfig() error {
	snapshot := configSnapshot{
		Port:                       Port,
		SQLitePath:                 SQLitePath,
		SQLDSN:                     SQLDSN,
		JWTSecret:                  JWTSecret,
		FeedCacheTTL:               FeedCacheTTL,
		GlobalAPIRateLimitNum:      GlobalAPIRateLimitNum,
		GlobalAPIRateLimitDuration: GlobalAPIRateLimitDuration,
	}
	if err := Validate.Struct(&snapshot); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
