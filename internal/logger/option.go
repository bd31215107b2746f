package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// defaultLogFileMaxSizeMB is the size at which the build log file is rotated.
	defaultLogFileMaxSizeMB = 10
	// defaultLogFileMaxBackups is the number of rotated build logs to keep.
	defaultLogFileMaxBackups = 3
)

// coreWithLevel wraps a zapcore.Core with a specific log level.
type coreWithLevel struct {
	zapcore.Core

	// level is the minimum log level for this core to process messages.
	level zapcore.Level
}

// Enabled returns true if the provided log level is enabled for logging by the core.
// It calls the Enabled method on the wrapped zapcore.Level.
func (c *coreWithLevel) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to a checked entry if the log entry level is enabled for logging.
// It returns the checked entry with the added core or the original checked entry
// if the level is disabled.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *coreWithLevel) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// With returns a new core with added fields to the wrapped core.
// It returns a new coreWithLevel with the same level as the original core.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *coreWithLevel) With(fields []zapcore.Field) zapcore.Core {
	return &coreWithLevel{
		c.Core.With(fields),
		c.level,
	}
}

// WithLevel is an option that creates a logger with the specified logging level based on an existing logger.
// It returns a zap.Option that wraps the existing core in a coreWithLevel with the specified level.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(
		func(core zapcore.Core) zapcore.Core {
			return &coreWithLevel{core, lvl}
		})
}

// WithFileOutput is an option that duplicates every entry into a rotating log file.
// The file receives JSON lines so build logs can be collected by CI tooling.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithFileOutput(path string) zap.Option {
	return zap.WrapCore(
		func(core zapcore.Core) zapcore.Core {
			//nolint:exhaustruct // Rotation by size only is enough for build logs.
			sink := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    defaultLogFileMaxSizeMB,
				MaxBackups: defaultLogFileMaxBackups,
			}

			//nolint:exhaustruct // Production encoder defaults are fine for files.
			encoderConfig := zap.NewProductionEncoderConfig()
			encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(sink),
				core,
			)

			return zapcore.NewTee(core, fileCore)
		})
}
