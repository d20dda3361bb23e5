package logging

import (
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It discards everything until Init is called,
// so library packages and tests can log unconditionally.
var Logger = zap.NewNop().Sugar()

// Init configures Logger for the CLI. Debug enables the development config;
// otherwise only warnings and errors are written. Output goes to stderr.
func Init(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableStacktrace = true
		cfg.DisableCaller = true
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = logger.Sugar()
	return nil
}

// Sync flushes buffered log entries
func Sync() {
	_ = Logger.Sync()
}
