// Package logger provides a small structured logging facade over slog.
package logger

import (
	"io"
	"log/slog"
)

// settings captures the Init-time configuration.
type settings struct {
	writer io.Writer
	level  slog.Level
}

// Option applies a configuration option at Init time.
type Option func(*settings)

// WithWriter routes log output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithLevel sets the initial logging level.
func WithLevel(level slog.Level) Option {
	return func(s *settings) {
		s.level = level
	}
}
