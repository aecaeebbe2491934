// Package logger provides structured logging with a colored console format for
// development and JSON for production.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	formatJSON   = "json"
	formatPretty = "pretty"
)

// ANSI color codes.
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorGray    = "\033[37m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
)

// Logger wraps slog.Logger with additional functionality.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	// Writer defaults to os.Stderr so stdout stays reserved for saved paths.
	Writer      io.Writer
	Format      string
	Environment string
	Level       slog.Level
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	if cfg.Format == "" {
		if cfg.Environment == "production" {
			cfg.Format = formatJSON
		} else {
			cfg.Format = formatPretty
		}
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Format == formatJSON {
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		handler = NewPrettyHandler(cfg.Writer, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// ParseLevel converts a string to slog.Level. Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PrettyHandler is a slog.Handler that writes one colored line per record.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	writer io.Writer
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler creates a new pretty handler.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{opts: opts, writer: w}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the log record as: TIME LEVEL message key=value ...
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 512)

	buf = append(buf, colorDim...)
	buf = append(buf, r.Time.Format("15:04:05")...)
	buf = append(buf, colorReset...)
	buf = append(buf, ' ')

	levelStr, levelColor := formatLevel(r.Level)
	buf = append(buf, levelColor...)
	buf = append(buf, levelStr...)
	buf = append(buf, colorReset...)
	buf = append(buf, ' ')

	buf = append(buf, colorBold...)
	buf = append(buf, r.Message...)
	buf = append(buf, colorReset...)

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
		return true
	})

	if len(attrs) > 0 {
		buf = append(buf, ' ')
		buf = append(buf, colorCyan...)
		for i, attr := range attrs {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, attr.Key...)
			buf = append(buf, '=')
			buf = append(buf, formatValue(attr.Value)...)
		}
		buf = append(buf, colorReset...)
	}

	buf = append(buf, '\n')
	_, err := h.writer.Write(buf)
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}

	return &PrettyHandler{
		opts:   h.opts,
		writer: h.writer,
		attrs:  newAttrs,
		prefix: h.prefix,
	}
}

// WithGroup returns a new handler whose subsequent keys are prefixed with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &PrettyHandler{
		opts:   h.opts,
		writer: h.writer,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
	}
}

func formatLevel(level slog.Level) (levelStr, levelColor string) {
	switch level {
	case slog.LevelDebug:
		return "DBG", colorMagenta
	case slog.LevelInfo:
		return "INF", colorGreen
	case slog.LevelWarn:
		return "WRN", colorYellow
	case slog.LevelError:
		return "ERR", colorRed
	default:
		return level.String(), colorGray
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n") {
			return fmt.Sprintf("%q", s)
		}
		return s
	default:
		return v.String()
	}
}

// WithError adds an error attribute to the logger.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With(slog.String("error", err.Error()))}
}

// WithField adds a single field to the logger.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(slog.Any(key, value))}
}
