package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/marcuoli/go-lanscan/internal/config"
	"github.com/marcuoli/go-lanscan/pkg/lanscan"
)

// newLogger builds the command logger and routes the library's debug
// messages into it at debug level.
func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if level == lanscan.DebugOff {
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	} else {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}

	lanscan.SetDebugLevel(level)
	if level == lanscan.DebugOff {
		lanscan.SetDebugLogger(nil)
		return logger, nil
	}
	sugar := logger.Sugar()
	lanscan.SetDebugLogger(func(c lanscan.Component, format string, args ...interface{}) {
		sugar.With("component", string(c)).Debugf(lanscan.ComponentPrefix(c)+" "+format, args...)
	})
	return logger, nil
}
