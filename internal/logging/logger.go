package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger from config. Production
// environments log JSON for ingestion by the log pipeline; development keeps
// the human-readable text formatter.
func Setup(logLevel, environment string) *logrus.Logger {
	logger := logrus.StandardLogger()

	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if environment != "development" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
