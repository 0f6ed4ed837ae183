package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *zap.SugaredLogger
	loggerOnce sync.Once
	minLevel   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// initLogger initializes the global logger to write console lines with
// timestamps to stderr.
func initLogger() {
	loggerOnce.Do(func() {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.CallerKey = ""

		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), minLevel)
		logger = zap.New(core).Sugar()
	})
}

// SetLogger replaces the global logger. The given logger is used as-is, so
// its core decides which levels are written.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l.Sugar()
}

func SetLevel(l Level) {
	initLogger()
	switch l {
	case LevelDebug:
		minLevel.SetLevel(zapcore.DebugLevel)
	case LevelError:
		minLevel.SetLevel(zapcore.ErrorLevel)
	default:
		minLevel.SetLevel(zapcore.InfoLevel)
	}
}

// ParseLevel maps a config value ("debug", "info", "error") to a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo, "":
		return LevelInfo, nil
	case LevelError:
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("log: unknown level %q", s)
	}
}

// AtomicLevel exposes the level shared by the default logger, so a replacement
// core passed to SetLogger can follow SetLevel.
func AtomicLevel() zap.AtomicLevel {
	return minLevel
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Infow(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logger.Errorw(msg, extended...)
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	initLogger()
	_ = logger.Sync()
}
