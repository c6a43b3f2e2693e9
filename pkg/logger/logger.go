package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log and Sugar are no-op until Init runs so packages can log from tests.
var (
	Log   = zap.NewNop()
	Sugar = Log.Sugar()
)

// Init initializes the global logger configuration.
// An unknown level falls back to info.
func Init(level string) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	// Custom JSON config
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	writer := zapcore.AddSync(os.Stdout)

	core := zapcore.NewCore(encoder, writer, lvl)

	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	_ = Log.Sync()
}
