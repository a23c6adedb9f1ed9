package logger

import (
	"os"
	"strings"

	"github.com/ahmadqo/e-evkin/internal/config"
	"github.com/sirupsen/logrus"
)

// New membuat logger sesuai LOG_LEVEL dan LOG_FORMAT
func New(cfg *config.LogConfig) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}
