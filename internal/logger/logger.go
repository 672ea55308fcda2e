package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup builds the global zap logger. Production gets JSON output,
// everything else gets the console encoder.
func Setup(envName, level string) error {
	var cfg zap.Config
	if envName == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)
	return nil
}
