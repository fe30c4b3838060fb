package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process-wide logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Options configure Init. Empty fields fall back to LOG_LEVEL, LOG_FORMAT
// and LOG_FILE from the environment.
type Options struct {
	Level  string
	Format string
	// File, when set, receives the log through a rotating writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Output is used when no file is set. Defaults to stderr.
	Output io.Writer
}

// Init configures the global logger. It should be called once from main.
func Init(opts Options) *logrus.Logger {
	level, err := logrus.ParseLevel(firstNonEmpty(opts.Level, os.Getenv("LOG_LEVEL"), "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	switch strings.ToLower(firstNonEmpty(opts.Format, os.Getenv("LOG_FORMAT"), "text")) {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if file := firstNonEmpty(opts.File, os.Getenv("LOG_FILE")); file != "" {
		Log.SetOutput(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 7),
		})
	} else if opts.Output != nil {
		Log.SetOutput(opts.Output)
	} else {
		Log.SetOutput(os.Stderr)
	}

	return Log
}

// Component returns an entry tagged with the component name
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
