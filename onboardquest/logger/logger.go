package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeHTTP   LogType = "HTTP"
	TypeDB     LogType = "DB"
	TypeSystem LogType = "SYS"
	TypeError  LogType = "ERR"
)

type CustomHandler struct {
	name   string
	opts   *slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	color  bool
	attrs  []slog.Attr
	groups []string
}

// NewHandler writes colored single-line records to stdout.
func NewHandler(name string, level slog.Leveler) *CustomHandler {
	return NewHandlerWithWriter(name, level, os.Stdout, true)
}

func NewHandlerWithWriter(name string, level slog.Leveler, out io.Writer, color bool) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		name:   name,
		opts:   &slog.HandlerOptions{Level: level},
		out:    out,
		mu:     &sync.Mutex{},
		color:  color,
		attrs:  make([]slog.Attr, 0),
		groups: make([]string, 0),
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	clone := *h
	clone.attrs = merged
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append(make([]string, 0, len(h.groups)+1), h.groups...), name)
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	all := h.collect(&r)
	logType := getLogType(all, r.Level)

	message := r.Message
	if r.Level >= slog.LevelError {
		if location := getErrorLocation(all, r.PC); location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if details := lookup(all, "error"); details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}
	if status := lookup(all, "status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var attrsStr strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, attr := range all {
		if isInternalAttr(attr.Key) {
			continue
		}
		key := attr.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&attrsStr, " %s=%v", key, attr.Value)
	}

	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	line := fmt.Sprintf("[%s] [%s] [%s] [%s] %s%s",
		h.name, timestamp.Format("15:04:05"), levelText, logType, message, attrsStr.String())
	if h.color {
		line = fmt.Sprintf("%s[%s] [%s] [%s%s%s] [%s] %s%s%s",
			colorWhite, h.name, timestamp.Format("15:04:05"),
			levelColor, levelText, colorWhite,
			logType, message, attrsStr.String(), colorReset)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *CustomHandler) collect(r *slog.Record) []slog.Attr {
	all := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	all = append(all, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, a)
		return true
	})
	return all
}

// Health probes hit the API every few seconds.
func shouldSkipLog(r *slog.Record) bool {
	if r.Level > slog.LevelInfo {
		return false
	}
	skip := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "path" && a.Value.String() == "/api/health" {
			skip = true
			return false
		}
		return true
	})
	return skip
}

func getLogType(attrs []slog.Attr, level slog.Level) LogType {
	switch lookup(attrs, "type") {
	case "http":
		return TypeHTTP
	case "db":
		return TypeDB
	case "error":
		return TypeError
	}
	if level >= slog.LevelError {
		return TypeError
	}
	return TypeSystem
}

func lookup(attrs []slog.Attr, key string) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i].Value.String()
		}
	}
	return ""
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "status", "error", "error_location":
		return true
	}
	return false
}

func getErrorLocation(attrs []slog.Attr, pc uintptr) string {
	if location := lookup(attrs, "error_location"); location != "" {
		return location
	}
	if pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
