// Package log provides the application-wide structured logger.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// Setup configures log output and severity. An empty path logs to
// stderr; an unparseable level falls back to info.
func Setup(level, path string) error {
	var out io.Writer = os.Stderr
	if path != "" {
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		out = f
	}
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return nil
}

// WithField returns an entry with a single structured field attached.
func WithField(key string, value any) *logrus.Entry {
	return logger.WithField(key, value)
}

func Error(args ...any) { logger.Error(args...) }

func Errorf(format string, args ...any) { logger.Errorf(format, args...) }

func Warn(args ...any) { logger.Warn(args...) }

func Warnf(format string, args ...any) { logger.Warnf(format, args...) }

func Info(args ...any) { logger.Info(args...) }

func Infof(format string, args ...any) { logger.Infof(format, args...) }

func Debug(args ...any) { logger.Debug(args...) }

func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
