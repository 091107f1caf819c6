package icopack

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/fatih/color"
)

var warnLabel = color.New(color.FgYellow, color.Bold).SprintFunc()

type WarningKind int

const (
	WarningOutputExists WarningKind = iota
	WarningSizesClamped
	WarningNonSquareInput
	WarningUpscaleRequested
)

func (k WarningKind) String() string {
	switch k {
	case WarningOutputExists:
		return "output exists"
	case WarningSizesClamped:
		return "sizes clamped"
	case WarningNonSquareInput:
		return "non-square input"
	case WarningUpscaleRequested:
		return "upscale requested"
	default:
		return "unknown"
	}
}

// Warning is one advisory condition recorded during validation or
// processing.
type Warning struct {
	Kind    WarningKind
	Message string
}

// Ledger records warnings in the order they are raised. Each warning
// is surfaced on the error stream immediately; when stop-on-warning is
// active the first warning escalates to ErrAbortedByWarning.
type Ledger struct {
	stderr   io.Writer
	strict   bool
	logger   *slog.Logger
	warnings []Warning
}

func newLedger(stderr io.Writer, strict bool, logger *slog.Logger) *Ledger {
	return &Ledger{
		stderr: stderr,
		strict: strict,
		logger: logger,
	}
}

func (l *Ledger) warn(kind WarningKind, format string, args ...any) error {
	w := Warning{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
	l.warnings = append(l.warnings, w)
	fmt.Fprintf(l.stderr, "%s: %s\n", warnLabel("Warning"), w.Message)
	l.logger.Warn(w.Message, slog.String("kind", kind.String()))
	if l.strict {
		return fmt.Errorf("%w: %s", ErrAbortedByWarning, w.Message)
	}
	return nil
}

func (l *Ledger) Warnings() []Warning {
	return slices.Clone(l.warnings)
}
