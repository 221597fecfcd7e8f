// Package logger builds the logrus loggers used by the simulation and its
// front ends.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to w. level is any logrus level name and
// falls back to info; format "json" selects the JSON formatter, anything
// else the text formatter.
func New(level, format string, w io.Writer) *logrus.Logger {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if w == nil {
		w = os.Stderr
	}
	l.SetOutput(w)
	return l
}

// FromEnv configures a stderr logger from LOG_LEVEL and LOG_FORMAT.
func FromEnv() *logrus.Logger {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	return New(level, os.Getenv("LOG_FORMAT"), os.Stderr)
}

// Discard returns a logger that drops everything. Used by tests and the
// headless runner's quiet mode.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
