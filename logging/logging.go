/*
Package logging provides the process wide log level knob and named zap
loggers for hosts embedding the library. The metadata packages themselves
emit no logs, behavior is identical at any level.
*/
package logging

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the log verbosity. Trace has no zap counterpart and maps onto
// zap's debug level.
type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) String() string {

	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelOff:
		return "off"
	}

	return "unknown"
}

// ParseLevel converts a level name into a Level
func ParseLevel(name string) (Level, error) {

	switch name {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off":
		return LevelOff, nil
	}

	return 0, fmt.Errorf("unknown log level %q", name)
}

// offLevel sits above every zap level so nothing passes the enabler
const offLevel = zapcore.FatalLevel + 1

func (l Level) zapLevel() zapcore.Level {

	switch l {
	case LevelTrace, LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	}

	return offLevel
}

var (
	// current keeps the full Level so trace survives a round trip through
	// the zap knob
	current atomic.Int32

	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	root *zap.Logger
)

func init() {
	current.Store(int32(LevelInfo))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		atomicLevel,
	)

	root = zap.New(core)
}

// SetLevel changes the process wide log level
func SetLevel(l Level) {
	current.Store(int32(l))
	atomicLevel.SetLevel(l.zapLevel())
}

// GetLevel returns the process wide log level
func GetLevel() Level {
	return Level(current.Load())
}

// Enabled reports whether records at the given level are emitted
func Enabled(l Level) bool {

	if l == LevelOff {
		return false
	}

	return atomicLevel.Enabled(l.zapLevel())
}

// NewLogger returns a named logger sharing the process wide level
func NewLogger(name string) *zap.Logger {
	return root.Named(name)
}

// Log emits one record through a logger named after the target
func Log(l Level, target, msg string, fields ...zap.Field) {

	logger := root.Named(target)

	switch l {
	case LevelTrace, LevelDebug:
		logger.Debug(msg, fields...)
	case LevelInfo:
		logger.Info(msg, fields...)
	case LevelWarn:
		logger.Warn(msg, fields...)
	case LevelError:
		logger.Error(msg, fields...)
	}
}
