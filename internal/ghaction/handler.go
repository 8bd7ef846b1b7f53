package ghaction

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// InActions reports whether the process runs inside a GitHub Actions job.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// DebugEnabled reports whether the runner asked for debug logging.
func DebugEnabled() bool {
	return os.Getenv("RUNNER_DEBUG") == "1"
}

// NewHandler returns a workflow-command handler when running in Actions and a
// plain text handler otherwise.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	if InActions() {
		return NewCommandHandler(w, level)
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// CommandHandler renders records as workflow commands: errors become
// "::error::", warnings "::warning::", debug records "::debug::" and info
// records plain lines.
type CommandHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewCommandHandler returns a CommandHandler writing to w.
func NewCommandHandler(w io.Writer, level slog.Leveler) *CommandHandler {
	return &CommandHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *CommandHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *CommandHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})

	line := b.String()
	switch {
	case r.Level >= slog.LevelError:
		line = "::error::" + escapeData(line)
	case r.Level >= slog.LevelWarn:
		line = "::warning::" + escapeData(line)
	case r.Level < slog.LevelInfo:
		line = "::debug::" + escapeData(line)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *CommandHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

func (h *CommandHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, prefix, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s%s=%v", prefix, a.Key, a.Value.Any())
}

// escapeData applies the workflow-command escaping for message data.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
