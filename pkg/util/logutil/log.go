// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"context"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultLogLevel is the default level of the log.
	DefaultLogLevel = "info"
	// DefaultLogFormat is the default format of the log.
	DefaultLogFormat = "text"
	// DefaultLogMaxSize is the default size of log files.
	DefaultLogMaxSize = 300 // MB
)

const (
	// LogFieldStrategy is the field name for the counting strategy in log.
	LogFieldStrategy = "strategy"
	// LogFieldIteration is the field name for the benchmark iteration in log.
	LogFieldIteration = "iteration"
)

// Config serializes log related config in toml/json.
type Config struct {
	// Log level.
	// One of "debug", "info", "warn", "error", "dpanic", "panic", and "fatal".
	Level string `toml:"level" json:"level"`
	// Format of the log, one of `text`, `json` or `console`.
	Format string `toml:"format" json:"format"`
	// Log filename, leave empty to log to stderr.
	File string `toml:"file" json:"file"`
	// Max size for a single file, in MB.
	FileMaxSize int `toml:"max-size" json:"max-size"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
}

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		Level:       DefaultLogLevel,
		Format:      DefaultLogFormat,
		FileMaxSize: DefaultLogMaxSize,
	}
}

func (cfg *Config) toLogConfig() *log.Config {
	return &log.Config{
		Level:            cfg.Level,
		Format:           cfg.Format,
		DisableTimestamp: cfg.DisableTimestamp,
		File: log.FileLogConfig{
			Filename: cfg.File,
			MaxSize:  cfg.FileMaxSize,
		},
	}
}

// InitLogger initializes the global logger with cfg.
func InitLogger(cfg *Config, opts ...zap.Option) error {
	opts = append(opts, zap.AddStacktrace(zapcore.FatalLevel))
	gl, props, err := log.InitLogger(cfg.toLogConfig(), opts...)
	if err != nil {
		return errors.Trace(err)
	}
	log.ReplaceGlobals(gl, props)
	return nil
}

type ctxLogKeyType struct{}

// CtxLogKey indicates the context key for logger
// public for test usage.
var CtxLogKey = ctxLogKeyType{}

// Logger gets a contextual logger from current context.
// contextual logger will output common fields from context.
func Logger(ctx context.Context) *zap.Logger {
	if ctxlogger, ok := ctx.Value(CtxLogKey).(*zap.Logger); ok {
		return ctxlogger
	}
	return log.L()
}

// BgLogger returns the background logger. It's initialized in the main
// function. Don't use it in `init` or equivalent functions otherwise it
// will print to stdout.
func BgLogger() *zap.Logger {
	return log.L()
}

// WithStrategy attaches the strategy name to context.
func WithStrategy(ctx context.Context, name string) context.Context {
	return WithFields(ctx, zap.String(LogFieldStrategy, name))
}

// WithFields attaches key/value to context.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	logger := Logger(ctx)
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return context.WithValue(ctx, CtxLogKey, logger)
}
