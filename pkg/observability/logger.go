package observability

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/platinummonkey/storybot/pkg/config"
	"github.com/sirupsen/logrus"
)

// Log formats understood by NewLogger
const (
	FormatJSON  = string(config.LogFormatJSON)
	FormatPlain = string(config.LogFormatPlain)
)

// ParseLevel parses a log level case-insensitively. Unknown levels map to info
// and ok is false.
func ParseLevel(level string) (logrus.Level, bool) {
	l, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel, false
	}
	return l, true
}

// NewLogger creates a logrus logger writing to output in the given format.
// A nil output means stdout.
func NewLogger(level, format string, output io.Writer) *logrus.Logger {
	if output == nil {
		output = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(output)

	switch format {
	case FormatPlain:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   true,
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}

	lvl, ok := ParseLevel(level)
	logger.SetLevel(lvl)
	if !ok {
		logger.WithField("log_level", level).Warn("Unknown log level, using info")
	}

	return logger
}

// LoggerFromSettings creates the application logger from LOG_LEVEL and LOG_FORMAT
func LoggerFromSettings(s *config.Settings, output io.Writer) *logrus.Logger {
	logger := NewLogger(s.LogLevel, string(s.LogFormat), output)
	logger.WithFields(logrus.Fields{
		"log_level":  s.LogLevel,
		"log_format": s.LogFormat,
	}).Info("Logging configured")
	return logger
}

// LogValidationError logs every field of a configuration error
func LogValidationError(logger logrus.FieldLogger, err error) {
	var ve *config.ValidationError
	if !errors.As(err, &ve) {
		logger.WithError(err).Error("Failed to load configuration")
		return
	}
	for _, fe := range ve.Errors {
		logger.WithFields(logrus.Fields{
			"field":  fe.Field,
			"env":    fe.Env,
			"value":  fe.Value,
			"reason": fe.Reason,
		}).Error("Invalid configuration value")
	}
}
