package common

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogger installs the process-wide zap logger used by SysLog and friends.
// Until it is called the helpers write to zap's no-op global.
func SetupLogger(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func Logger() *zap.Logger {
	return zap.L()
}

func SyncLogger() {
	_ = zap.L().Sync()
}

func SysLog(s string) {
	zap.L().Info(s)
}

func SysError(s string) {
	zap.L().Error(s)
}
