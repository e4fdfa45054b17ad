package logger

import (
	"context"
	"sync"
)

type ctxKey struct{}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx. Without one it returns a
// process-wide warn-level logger on stderr, so warnings still surface.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return stderrWarn()
}

var stderrWarn = sync.OnceValue(func() Logger {
	l, err := New(Config{Level: "warn"})
	if err != nil {
		return NewNop()
	}
	return l
})
