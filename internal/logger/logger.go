// Package logger provides a thin wrapper around zerolog.Logger used by the
// formcheck binary.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, etc.) are available directly on *Logger.
// Request handlers obtain request-scoped loggers via FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a JSON *Logger writing to os.Stdout for the given role
// label (e.g. "server", "check") at the given level name.
func NewLogger(role, level string) (*Logger, error) {
	return New(os.Stdout, role, level)
}

// New is NewLogger writing to w.
func New(w io.Writer, role, level string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(w).
		Level(lvl).
		With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{logger}, nil
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest extracts the zerolog.Logger stored in the request's context by
// Middleware.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext extracts the zerolog.Logger stored in ctx. Without one, the
// zerolog default logger is returned, so this never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// Middleware attaches a request-scoped child logger carrying the chi request
// ID to every request context and logs each completed request.
func (l *Logger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLogger := l.With().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))

		reqLogger.Info().
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
