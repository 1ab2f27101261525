// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/luxfi/log"
)

const (
	logFileMaxSizeMB  = 100
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

// newLogger writes to stderr and, if logFile is set, to a rotating file.
// Colour is only used when stderr is a terminal and nothing is tee'd to a
// file.
func newLogger(verbose bool, logFile string) (log.Logger, func() error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var (
		w        io.Writer = os.Stderr
		closer             = func() error { return nil }
		useColor           = logFile == "" && isatty.IsTerminal(os.Stderr.Fd())
	)
	if logFile != "" {
		file := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, file)
		closer = file.Close
	}
	return log.NewLoggerFromHandler(log.NewTerminalHandlerWithLevel(w, level, useColor)), closer
}
