package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	ansiReset   = "\033[0m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
	ansiGray    = "\033[90m"
)

// ColorHandler is a slog.Handler producing colorized single-line output for
// interactive runs. HTTP status codes and verification outcomes get their own
// coloring so a failed check stands out in a provisioning log.
type ColorHandler struct {
	opts   *slog.HandlerOptions
	writer io.Writer
	attrs  []slog.Attr
	groups []string
	masker *Masker
	color  bool
}

func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ColorHandler{
		opts:   opts,
		writer: w,
		masker: NewMasker(),
		color:  colorCapable(w),
	}
}

// colorCapable reports whether w is an interactive terminal. NO_COLOR
// disables coloring unconditionally.
func colorCapable(w io.Writer) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.Grow(256)

	if !r.Time.IsZero() {
		h.paint(&b, ansiGray, r.Time.Format(time.RFC3339))
		b.WriteByte(' ')
	}
	h.writeLevel(&b, r.Level)
	b.WriteByte(' ')
	if len(h.groups) > 0 {
		h.paint(&b, ansiCyan, "["+strings.Join(h.groups, ".")+"]")
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, a)
		return true
	})
	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *ColorHandler) writeLevel(b *strings.Builder, level slog.Level) {
	switch {
	case level >= slog.LevelError:
		h.paint(b, ansiRed, "[ERROR]")
	case level >= slog.LevelWarn:
		h.paint(b, ansiYellow, "[WARN ]")
	case level >= slog.LevelInfo:
		h.paint(b, ansiGreen, "[INFO ]")
	default:
		h.paint(b, ansiGray, "[DEBUG]")
	}
}

func (h *ColorHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	b.WriteByte(' ')
	h.paint(b, ansiCyan, a.Key)
	b.WriteByte('=')

	val := a.Value
	if h.masker != nil && h.masker.IsEnabled() {
		if m, ok := h.masker.MaskValue(a.Key, val.Any()).(string); ok {
			if m == MaskedValue {
				h.paint(b, ansiGray, m)
				return
			}
			if val.Kind() == slog.KindString {
				val = slog.StringValue(m)
			}
		}
	}
	h.paint(b, h.valueColor(a.Key, val), formatValue(val))
}

// valueColor picks a color from what the attribute means in a verification
// run rather than from general string heuristics.
func (h *ColorHandler) valueColor(key string, v slog.Value) string {
	switch key {
	case "status", "status_code", "code":
		if v.Kind() == slog.KindInt64 {
			if c := v.Int64(); c >= 200 && c < 300 {
				return ansiGreen
			}
			return ansiRed
		}
	case "result":
		if v.String() == "success" {
			return ansiGreen
		}
		return ansiRed
	case "error":
		return ansiRed
	}
	switch v.Kind() {
	case slog.KindInt64, slog.KindFloat64:
		return ansiMagenta
	case slog.KindBool:
		if v.Bool() {
			return ansiGreen
		}
		return ansiRed
	case slog.KindDuration:
		return ansiYellow
	case slog.KindTime:
		return ansiGray
	default:
		return ""
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return strconv.Quote(v.String())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}

func (h *ColorHandler) paint(b *strings.Builder, color, text string) {
	if h.color && color != "" {
		b.WriteString(color)
		b.WriteString(text)
		b.WriteString(ansiReset)
		return
	}
	b.WriteString(text)
}

func (h *ColorHandler) clone() *ColorHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	c.groups = append([]string(nil), h.groups...)
	return &c
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.attrs = append(c.attrs, attrs...)
	return c
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}
