package logging

import (
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// New builds a logger writing to w. format is "json" or "text".
func New(level, format string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(parseLevel(level))

	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func parseLevel(level string) logrus.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logrus.DebugLevel
	case "INFO":
		return logrus.InfoLevel
	case "WARN":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	case "FATAL":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// WithError attaches err to the entry. Coded errors also contribute their code and context.
func WithError(log logrus.FieldLogger, err error) *logrus.Entry {
	entry := log.WithError(err)
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			entry = entry.WithField("code", code)
		}
		for k, v := range oopsErr.Context() {
			entry = entry.WithField(k, v)
		}
	}
	return entry
}

// LogError logs err at error level with its structured context.
func LogError(log logrus.FieldLogger, msg string, err error) {
	WithError(log, err).Error(msg)
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
