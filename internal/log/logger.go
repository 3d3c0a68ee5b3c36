package log

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents  the log interface
type Logger interface {
	Println(v ...interface{})
	Printf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

func init() {
	SetLogger(newZapLogger(zapcore.Lock(os.Stderr)))
}

var (
	Println func(v ...interface{})
	Printf  func(format string, v ...interface{})
	Fatal   func(v ...interface{})
	Fatalf  func(format string, v ...interface{})

	flush func() error
)

// SetLogger rewrites the default logger
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	Println = logger.Println
	Printf = logger.Printf
	Fatal = logger.Fatal
	Fatalf = logger.Fatalf

	flush = func() error { return nil }
	if s, ok := logger.(interface{ Sync() error }); ok {
		flush = s.Sync
	}
}

// InitFile writes logs to filePath, rotating at 10MB and keeping 3 backups
func InitFile(filePath string) {
	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	SetLogger(newZapLogger(zapcore.AddSync(lj)))
}

// Sync flushes any buffered log entries
func Sync() {
	_ = flush()
}

type zapLogger struct {
	*zap.SugaredLogger
}

func newZapLogger(ws zapcore.WriteSyncer) *zapLogger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, zapcore.DebugLevel)

	// skip the facade frame so callers are reported
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &zapLogger{SugaredLogger: logger.Sugar()}
}

func (l *zapLogger) Println(v ...interface{}) {
	l.Info(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (l *zapLogger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}
