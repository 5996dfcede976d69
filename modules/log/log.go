// Copyright 2025 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package log provides leveled, printf-style logging for bitmap-doctor.
// The exported functions dispatch to a process-wide logger; checks that want
// their output grouped per scenario receive a Logger explicitly instead.
package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface handed to scenario checks.
type Logger interface {
	Trace(format string, v ...any)
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
	Critical(format string, v ...any)
}

type logrusLogger struct {
	l *logrus.Logger
}

func (w *logrusLogger) Trace(format string, v ...any)    { w.l.Tracef(format, v...) }
func (w *logrusLogger) Debug(format string, v ...any)    { w.l.Debugf(format, v...) }
func (w *logrusLogger) Info(format string, v ...any)     { w.l.Infof(format, v...) }
func (w *logrusLogger) Warn(format string, v ...any)     { w.l.Warnf(format, v...) }
func (w *logrusLogger) Error(format string, v ...any)    { w.l.Errorf(format, v...) }
func (w *logrusLogger) Critical(format string, v ...any) { w.l.Errorf(format, v...) }

var defaultLogger = &logrusLogger{l: newStandardLogger("info", true)}

func newStandardLogger(level string, colorize bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:            colorize,
		DisableColors:          !colorize,
		FullTimestamp:          true,
		TimestampFormat:        "2006/01/02 15:04:05",
		DisableLevelTruncation: true,
	})
	l.SetLevel(parseLevel(level))
	return l
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Init reconfigures the process-wide logger. It may be called at most once,
// before any other goroutine logs.
func Init(level string, colorize bool) {
	defaultLogger.l = newStandardLogger(level, colorize)
}

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	return defaultLogger
}

// Trace records trace log
func Trace(format string, v ...any) {
	defaultLogger.Trace(format, v...)
}

// Debug records debug log
func Debug(format string, v ...any) {
	defaultLogger.Debug(format, v...)
}

// Info records info log
func Info(format string, v ...any) {
	defaultLogger.Info(format, v...)
}

// Warn records warning log
func Warn(format string, v ...any) {
	defaultLogger.Warn(format, v...)
}

// Error records error log
func Error(format string, v ...any) {
	defaultLogger.Error(format, v...)
}

// Critical records critical log
func Critical(format string, v ...any) {
	defaultLogger.Critical(format, v...)
}

// Fatal records fatal log and exits the process.
func Fatal(format string, v ...any) {
	defaultLogger.Error(format, v...)
	os.Exit(1)
}
