// Package logging configures the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options select level, output format and an optional log file. An empty
// File logs to stderr.
type Options struct {
	Level  string
	Format string // "text" or "json"
	File   string

	// Rotation limits for File.
	MaxSizeMB  int
	MaxBackups int
}

// Setup builds a logger from opts. The returned closer releases the log
// file, if any.
func Setup(opts Options) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: opts.File != ""})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("log format %q: want text or json", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
		}
		log.SetOutput(lj)
		closer = lj
	} else {
		log.SetOutput(os.Stderr)
	}
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
