package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"snipx-service/pkg/config"
)

// Logger wraps a logrus instance and the file it may be writing to.
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

var global atomic.Pointer[Logger]

func init() {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	global.Store(&Logger{entry: l})
}

// NewLogger builds a logger from the log section of cfg.
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()
	out := &Logger{entry: l}
	if cfg == nil {
		return out
	}

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	}

	var writer io.Writer = os.Stdout
	switch strings.ToLower(cfg.Log.Output) {
	case "stderr":
		writer = os.Stderr
	case "file", "both":
		if f, ferr := openLogFile(cfg.Log.Filename); ferr == nil {
			out.file = f
			if strings.EqualFold(cfg.Log.Output, "both") {
				writer = io.MultiWriter(os.Stdout, f)
			} else {
				writer = f
			}
		} else {
			fmt.Fprintf(os.Stderr, "[WARN] open log file failed, falling back to stdout: %v\n", ferr)
		}
	}
	l.SetOutput(writer)
	return out
}

func openLogFile(name string) (*os.File, error) {
	if name == "" {
		name = "logs/snipx-service.log"
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Close flushes and releases the log file, if any.
func (l *Logger) Close() {
	if l == nil || l.file == nil {
		return
	}
	_ = l.file.Sync()
	_ = l.file.Close()
}

// Logrus exposes the underlying logger, e.g. for gin's writer.
func (l *Logger) Logrus() *logrus.Logger {
	return l.entry
}

// SetGlobalLogger replaces the package-level logger.
func SetGlobalLogger(l *Logger) {
	if l != nil {
		global.Store(l)
	}
}

// GetGlobalLogger returns the package-level logger.
func GetGlobalLogger() *Logger {
	return global.Load()
}

func std() *logrus.Logger {
	return global.Load().entry
}

func Debugf(format string, args ...interface{}) { std().Debugf(format, args...) }
func Infof(format string, args ...interface{}) { std().Infof(format, args...) }
func Warnf(format string, args ...interface{}) { std().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std().Errorf(format, args...) }

// Debug logs msg with structured fields.
func Debug(msg string, fields ...map[string]interface{}) { withFields(fields).Debug(msg) }

// Info logs msg with structured fields.
func Info(msg string, fields ...map[string]interface{}) { withFields(fields).Info(msg) }

// Warn logs msg with structured fields.
func Warn(msg string, fields ...map[string]interface{}) { withFields(fields).Warn(msg) }

// Error logs msg with structured fields.
func Error(msg string, fields ...map[string]interface{}) { withFields(fields).Error(msg) }

// Fatal logs msg and exits the process.
func Fatal(msg string, fields ...map[string]interface{}) { withFields(fields).Fatal(msg) }

func withFields(fields []map[string]interface{}) *logrus.Entry {
	merged := logrus.Fields{}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return logrus.NewEntry(std()).WithFields(merged)
}
