// Package logging configures the global logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/JackVanta/VantaSDK/config"
	"github.com/sirupsen/logrus"
)

// InitLogger applies the level, format and output from the configuration.
// Invalid values fall back to info level and stdout with a warning.
func InitLogger(cfg config.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logrus.SetOutput(openOutput(cfg.Output))
	logrus.Debug("Logger initialized")
}

func openOutput(output string) io.Writer {
	switch strings.ToLower(output) {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		logrus.Warnf("Failed to open log file '%s', using 'stdout' instead. Error: %v", output, err)
		return os.Stdout
	}
	return file
}
