// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// BatchEncoder - 批量视频转码工具

package logger

import "log"

// Logger provides a simple logging interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Sink receives leveled log events from an encode run. Levels are the
// strings INFO, DEBUG, WARNING, ERROR and SUCCESS.
type Sink func(level, message string)

type defaultLogger struct {
	prefix string
}

func New(prefix string) Logger {
	if prefix != "" {
		prefix += " "
	}
	return &defaultLogger{prefix: prefix}
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	log.Printf("[INFO] "+l.prefix+format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	log.Printf("[ERROR] "+l.prefix+format, args...)
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	log.Printf("[DEBUG] "+l.prefix+format, args...)
}

// NewSink adapts a Logger into a Sink.
func NewSink(l Logger) Sink {
	return func(level, message string) {
		switch level {
		case "ERROR":
			l.Error("%s", message)
		case "DEBUG":
			l.Debug("%s", message)
		default:
			l.Info("[%s] %s", level, message)
		}
	}
}
