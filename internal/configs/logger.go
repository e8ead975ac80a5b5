package config

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. When file is set, output goes to
// stdout and a rotating log file.
func NewLogger(level, file string) *log.Logger {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warnf("invalid LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	if file != "" {
		logger.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}

	return logger
}
