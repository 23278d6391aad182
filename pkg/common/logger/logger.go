package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	Log  *logrus.Logger
	once sync.Once
)

// Init configures the process-wide JSON logger. Packages that log before
// main runs (tests, mostly) get the same logger lazily.
func Init() {
	once.Do(func() {
		Log = logrus.New()
		Log.SetOutput(os.Stdout)
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})

		level := os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "info"
		}

		logLevel, err := logrus.ParseLevel(level)
		if err != nil {
			logLevel = logrus.InfoLevel
		}
		Log.SetLevel(logLevel)
	})
}

func L() *logrus.Logger {
	if Log == nil {
		Init()
	}
	return Log
}

func WithField(key string, value interface{}) *logrus.Entry {
	return L().WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return L().WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return L().WithError(err)
}
