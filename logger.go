package serialworker

import (
	"context"
	"log"
)

type stdLogger struct {
	debug bool
}

var (
	_ Logger = &stdLogger{}
	_ Logger = &nopLogger{}
)

// NewStdLogger logs through the standard log package. Debug lines are
// dropped unless debug is true.
func NewStdLogger(debug bool) *stdLogger {
	return &stdLogger{debug: debug}
}

func (l *stdLogger) Debug(ctx context.Context, format string, args ...any) {
	if !l.debug {
		return
	}
	log.Printf("DEBUG - "+format, args...)
}

func (l *stdLogger) Info(ctx context.Context, format string, args ...any) {
	log.Printf("INFO - "+format, args...)
}

func (l *stdLogger) Warn(ctx context.Context, format string, args ...any) {
	log.Printf("WARN - "+format, args...)
}

func (l *stdLogger) Error(ctx context.Context, format string, args ...any) {
	log.Printf("ERROR - "+format, args...)
}

type nopLogger struct{}

func (l *nopLogger) Debug(ctx context.Context, format string, args ...any) {}
func (l *nopLogger) Info(ctx context.Context, format string, args ...any)  {}
func (l *nopLogger) Warn(ctx context.Context, format string, args ...any)  {}
func (l *nopLogger) Error(ctx context.Context, format string, args ...any) {}

func NewNopLogger() *nopLogger {
	return &nopLogger{}
}
