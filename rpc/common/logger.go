package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerNames are the named loggers used across travels.
var LoggerNames = []string{"store", "loader", "rpc", "transport/rpc", "client"}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// zapLogger implements the ILogger interface on top of a zap core.
// Every logger owns its level, so SetLevel only affects one package.
type zapLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

func (l *zapLogger) SetLevel(level logger.LogLevel) {
	l.level.SetLevel(toZapLevel(level))
}

func (l *zapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warningf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *zapLogger) Panicf(format string, args ...interface{}) {
	l.sugar.Panicf(format, args...)
}

// toZapLevel maps a dragonboat level to the lowest zap level that is still logged.
func toZapLevel(level logger.LogLevel) zapcore.Level {
	switch {
	case level >= logger.DEBUG:
		return zapcore.DebugLevel
	case level >= logger.INFO:
		return zapcore.InfoLevel
	case level >= logger.WARNING:
		return zapcore.WarnLevel
	case level >= logger.ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.PanicLevel
	}
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// encoderConfig renders "time | LEVEL | package | message" like the old plain text logger.
func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("%-5s", l.CapitalString()))
	}
	cfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("%-15s", name))
	}
	cfg.ConsoleSeparator = " | "
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	return cfg
}

// NewLoggerFactory returns a dragonboat logger factory whose loggers write to w.
// New loggers start at INFO.
func NewLoggerFactory(w io.Writer) logger.Factory {
	sink := zapcore.Lock(zapcore.AddSync(w))
	encoder := zapcore.NewConsoleEncoder(encoderConfig())

	return func(pkgName string) logger.ILogger {
		level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
		core := zapcore.NewCore(encoder.Clone(), sink, level)
		return &zapLogger{
			level: level,
			sugar: zap.New(core).Named(pkgName).Sugar(),
		}
	}
}

// CreateLogger implements the Factory interface, writing to stdout
func CreateLogger(pkgName string) logger.ILogger {
	return NewLoggerFactory(os.Stdout)(pkgName)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, errors.Newf("invalid log level: %q. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the zap backed logger factory and applies the configured level
func InitLoggers(config ServerConfig) error {
	return InitLoggersWithLevel(config.LogLevel)
}

// installFactory guards logger.SetLoggerFactory, which panics when called twice.
var installFactory sync.Once

// InitLoggersWithLevel installs the zap backed logger factory on the first call
// and sets all travels loggers to level on every call.
//
// dragonboat creates the backing logger of a name on its first use and keeps it,
// so a logger used before the first call stays on the default backend.
func InitLoggersWithLevel(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	installFactory.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
