package logging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// Handler adapts slog records into Entries and forwards them to a Sink.
// Records at or above slog.LevelError get an Origin resolved from the
// record's program counter.
type Handler struct {
	sink   Sink
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func NewHandler(sink Sink, level slog.Leveler) *Handler {
	if sink == nil {
		sink = Discard
	}
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{sink: sink, level: level}
}

// New returns a logger writing to sink at info level and above.
func New(sink Sink) *slog.Logger {
	return slog.New(NewHandler(sink, slog.LevelInfo))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		writeAttr(&b, prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a)
		return true
	})

	e := Entry{
		Time:    r.Time,
		Level:   levelOf(r.Level),
		Message: b.String(),
	}
	if e.Level == LevelError && r.PC != 0 {
		e.Origin = origin(r.PC)
	}
	h.sink.Append(e)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

func levelOf(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Any())
}

// origin turns a program counter into "pkg.Func::line", dropping the
// module path.
func origin(pc uintptr) string {
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.Function == "" {
		return ""
	}
	name := f.Function
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return fmt.Sprintf("%s::%d", name, f.Line)
}
