package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFormatConsole = "console"
	logFormatJSON    = "json"
)

var logger = zerolog.Nop()

// newLogger returns a debug logger on w when verbose is set, otherwise a no-op
// logger so the report stays the only output.
func newLogger(w io.Writer, verbose bool, format string) zerolog.Logger {
	if !verbose {
		logger = zerolog.Nop()
		return logger
	}

	var zl zerolog.Logger
	if format == logFormatJSON {
		zl = zerolog.New(w)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339Nano})
	}
	logger = zl.Level(zerolog.DebugLevel).With().Timestamp().Str("component", "prctime").Logger()
	return logger
}
