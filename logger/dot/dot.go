package dot

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
)

var (
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

var _ slog.Handler = (*dotHandler)(nil)

// dotHandler renders conversion progress as a compact dot line: one
// yellow dot per resized frame, a spinner while the SVG rasterizer
// runs, a green checkmark once the container is written. Records it
// does not recognize fall through to the wrapped handler.
type dotHandler struct {
	handler slog.Handler
	spinner *spinner.Spinner
	stdout  io.Writer
}

func New(h slog.Handler) (_ *dotHandler, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	stdout := colorable.NewColorableStdout()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(stdout))
	if err := s.Color("yellow"); err != nil {
		return nil, err
	}
	s.Start()
	s.Disable()
	return &dotHandler{
		handler: h,
		spinner: s,
		stdout:  stdout,
	}, nil
}

func (h *dotHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug
}

func (h *dotHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	switch r.Message {
	case "rasterizing svg":
		if !h.spinner.Enabled() {
			h.spinner.Enable()
		}
		return nil
	case "resized frame":
		h.stopSpinner()
		_, err := h.stdout.Write([]byte(yellow(".")))
		return err
	case "icon saved":
		h.stopSpinner()
		_, err := h.stdout.Write([]byte(green("!") + "\n"))
		return err
	}
	if r.Level >= slog.LevelError {
		h.stopSpinner()
		if _, err := h.stdout.Write([]byte(red("!") + "\n")); err != nil {
			return err
		}
	}
	if h.handler.Enabled(ctx, r.Level) {
		return h.handler.Handle(ctx, r)
	}
	return nil
}

func (h *dotHandler) stopSpinner() {
	if h.spinner.Enabled() {
		h.spinner.Disable()
	}
}

func (h *dotHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dotHandler{handler: h.handler.WithAttrs(attrs), spinner: h.spinner, stdout: h.stdout}
}

func (h *dotHandler) WithGroup(name string) slog.Handler {
	return &dotHandler{handler: h.handler.WithGroup(name), spinner: h.spinner, stdout: h.stdout}
}
