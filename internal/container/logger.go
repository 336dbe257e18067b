package container

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. Format "json" selects the production
// encoder, anything else the human readable console encoder. A non-empty file
// adds a size-rotated copy of every entry.
func NewLogger(format, level, file string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel

	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}

		lvl = parsed
	}

	var encoder zapcore.Encoder

	if format == "json" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	sink := zapcore.Lock(os.Stdout)

	if file != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		}))
	}

	return zap.New(zapcore.NewCore(encoder, sink, lvl), zap.AddCaller()), nil
}
