package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var levelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// Logger is the leveled printf-style logger used across the scanner
// pipeline. Fatal logs and exits the process.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

type logger struct {
	sugar *zap.SugaredLogger
}

// New builds a console logger at the given level. When logsDir is
// non-empty, output is additionally written to a size-rotated file in
// that directory.
func New(logsDir, level string) Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel, ok := levelMap[strings.ToLower(level)]
	if !ok {
		logLevel = zapcore.InfoLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			logLevel,
		),
	}

	if logsDir != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(logsDir, "tagscan.log"),
			MaxSize:    50, // megabytes
			MaxAge:     7,  // days
			Compress:   true,
			LocalTime:  true,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			fileWriter,
			logLevel,
		))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return &logger{sugar: zapLogger.Sugar()}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() Logger {
	return &logger{sugar: zap.NewNop().Sugar()}
}

func (l *logger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *logger) Info(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *logger) Warn(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *logger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }
func (l *logger) Fatal(format string, args ...any) { l.sugar.Fatalf(format, args...) }
