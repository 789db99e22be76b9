package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) logrus() logrus.Level {
	switch l {
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	case FATAL:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel maps a LOG_LEVEL value to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Logger wraps a logrus logger. Prefix, when set, is attached as the "component" field.
type Logger struct {
	mu        sync.Mutex
	base      *logrus.Logger
	formatter *logrus.TextFormatter
	prefix    string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

type Config struct {
	Level      LogLevel
	Prefix     string
	Colorize   bool
	ShowCaller bool
	ShowTime   bool
	TimeFormat string
	Output     io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:      INFO,
		Prefix:     "",
		Colorize:   true,
		ShowCaller: false,
		ShowTime:   true,
		TimeFormat: "2006-01-02 15:04:05",
		Output:     os.Stdout,
	}
}

func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = "2006-01-02 15:04:05"
	}

	formatter := &logrus.TextFormatter{
		ForceColors:      cfg.Colorize,
		DisableColors:    !cfg.Colorize,
		FullTimestamp:    cfg.ShowTime,
		DisableTimestamp: !cfg.ShowTime,
		TimestampFormat:  cfg.TimeFormat,
	}

	base := logrus.New()
	base.SetOutput(cfg.Output)
	base.SetFormatter(formatter)
	base.SetLevel(cfg.Level.logrus())
	base.SetReportCaller(cfg.ShowCaller)

	return &Logger{
		base:      base,
		formatter: formatter,
		prefix:    cfg.Prefix,
	}
}

func GetLogger() *Logger {
	once.Do(func() {
		cfg := DefaultConfig()
		if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
			cfg.Level = ParseLevel(envLevel)
		}
		defaultLogger = New(cfg)
	})
	return defaultLogger
}

func (l *Logger) SetLevel(level LogLevel) {
	l.base.SetLevel(level.logrus())
}

func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

func (l *Logger) SetColorize(colorize bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formatter.ForceColors = colorize
	l.formatter.DisableColors = !colorize
}

func (l *Logger) SetShowCaller(show bool) {
	l.base.SetReportCaller(show)
}

// WithField returns a logrus entry carrying key=value plus the logger prefix.
func (l *Logger) WithField(key string, value any) *logrus.Entry {
	return l.entry().WithField(key, value)
}

// WithFields is WithField for several pairs.
func (l *Logger) WithFields(fields map[string]any) *logrus.Entry {
	return l.entry().WithFields(logrus.Fields(fields))
}

func (l *Logger) entry() *logrus.Entry {
	e := logrus.NewEntry(l.base)
	if l.prefix != "" {
		e = e.WithField("component", l.prefix)
	}
	return e
}

func (l *Logger) Debug(msg string, args ...any) { l.entry().Debugf(msg, args...) }

func (l *Logger) Info(msg string, args ...any) { l.entry().Infof(msg, args...) }

func (l *Logger) Warn(msg string, args ...any) { l.entry().Warnf(msg, args...) }

func (l *Logger) Error(msg string, args ...any) { l.entry().Errorf(msg, args...) }

// Fatal logs and exits the program.
func (l *Logger) Fatal(msg string, args ...any) { l.entry().Fatalf(msg, args...) }

func (l *Logger) Debugf(format string, args ...any) { l.Debug(format, args...) }

func (l *Logger) Infof(format string, args ...any) { l.Info(format, args...) }

func (l *Logger) Warnf(format string, args ...any) { l.Warn(format, args...) }

func (l *Logger) Errorf(format string, args ...any) { l.Error(format, args...) }

func (l *Logger) Fatalf(format string, args ...any) { l.Fatal(format, args...) }

// Package-level convenience functions using the default logger

func Debug(msg string, args ...any) { GetLogger().Debug(msg, args...) }

func Info(msg string, args ...any) { GetLogger().Info(msg, args...) }

func Warn(msg string, args ...any) { GetLogger().Warn(msg, args...) }

func Error(msg string, args ...any) { GetLogger().Error(msg, args...) }

func Fatal(msg string, args ...any) { GetLogger().Fatal(msg, args...) }

func Debugf(format string, args ...any) { GetLogger().Debugf(format, args...) }

func Infof(format string, args ...any) { GetLogger().Infof(format, args...) }

func Warnf(format string, args ...any) { GetLogger().Warnf(format, args...) }

func Errorf(format string, args ...any) { GetLogger().Errorf(format, args...) }

func Fatalf(format string, args ...any) { GetLogger().Fatalf(format, args...) }

// SetLevel sets the log level for the default logger
func SetLevel(level LogLevel) { GetLogger().SetLevel(level) }

// SetOutput sets the output for the default logger
func SetOutput(w io.Writer) { GetLogger().SetOutput(w) }

func SetColorize(colorize bool) { GetLogger().SetColorize(colorize) }

func SetShowCaller(show bool) { GetLogger().SetShowCaller(show) }
