package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New создает логгер с заданным уровнем и форматом ("json" или "text")
func New(logLevel, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	switch format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}

	// Уровень логирования
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Уровень по умолчанию, если передан некорректный
	}
	log.SetLevel(level)
	return log
}
