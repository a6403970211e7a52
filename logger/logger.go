package logger

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger

	closeFile = func() error { return nil }
)

func init() {
	// Safe to use before Initialize is called
	Logger = zap.NewNop().Sugar()
}

// Options controls where and how the global logger writes.
type Options struct {
	JSON  bool   // JSON lines instead of console text
	Level string // debug, info, warn or error; empty means info
	File  string // append to this file instead of stderr
}

// Initialize replaces the global logger. The TUI owns the terminal, so it
// logs to a file; everything else logs to stderr.
func Initialize(opts Options) error {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(opts.Level); err != nil {
			return errors.WithHint(errors.Wrapf(err, "log level %q", opts.Level),
				"use one of debug, info, warn, error")
		}
	}

	sink := zapcore.AddSync(os.Stderr)
	closer := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrapf(err, "open log file %s", opts.File)
		}
		sink = zapcore.AddSync(f)
		closer = f.Close
	}

	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	Cleanup()
	Logger = zap.New(zapcore.NewCore(encoder, sink, level)).Sugar()
	closeFile = closer
	return nil
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.SugaredLogger {
	return Logger.Named(component)
}

// Cleanup flushes buffered entries and closes the log file, if any.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
	_ = closeFile()
	closeFile = func() error { return nil }
}

func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

func Debugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, keysAndValues...)
}
