package icopack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/k1LoW/errors"
)

// OutputExt is the extension of the generated container file.
const OutputExt = ".ico"

var (
	// ErrNotAFile is returned when the source path does not reference an
	// existing regular file.
	ErrNotAFile = errors.New("not a file")
	// ErrNoValidSizes is returned when every requested size was removed
	// during validation. Callers are expected to treat this as a no-op,
	// not a failure: the CLI prints an error-styled message but still
	// exits 0. See cmd.Execute.
	ErrNoValidSizes = errors.New("no valid sizes")
	// ErrAbortedByWarning is returned when stop-on-warning is enabled
	// and a warning condition was encountered.
	ErrAbortedByWarning = errors.New("aborted by warning")
)

// Converter converts one source image into a multi-resolution icon
// container. A Converter is configured once via New and can be reused
// across Convert calls.
type Converter struct {
	sizes          []int
	filter         Filter
	stopOnWarning  bool
	quietOverwrite bool // suppress the overwrite warning (watch mode rewrites its own output)
	logger         *slog.Logger
	stdout         io.Writer
	stderr         io.Writer

	ledger *Ledger
}

type Option func(*Converter) error

// WithSizes sets the requested icon sizes. The list is cleaned during
// Convert: sorted ascending, deduplicated and clamped to
// [MinSize, MaxSize].
func WithSizes(sizes []int) Option {
	return func(c *Converter) error {
		if len(sizes) > 0 {
			c.sizes = slices.Clone(sizes)
		}
		return nil
	}
}

// WithFilter sets the resampling filter used for every generated size.
func WithFilter(f Filter) Option {
	return func(c *Converter) error {
		if _, ok := filters[f]; !ok {
			return fmt.Errorf("unknown filter %q", f)
		}
		c.filter = f
		return nil
	}
}

// WithStopOnWarning makes every warning condition fatal.
func WithStopOnWarning(stop bool) Option {
	return func(c *Converter) error {
		c.stopOnWarning = stop
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) error {
		c.logger = logger
		return nil
	}
}

// WithStdout sets the writer for progress and success lines.
func WithStdout(w io.Writer) Option {
	return func(c *Converter) error {
		c.stdout = w
		return nil
	}
}

// WithStderr sets the writer for warning and error lines.
func WithStderr(w io.Writer) Option {
	return func(c *Converter) error {
		c.stderr = w
		return nil
	}
}

func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		sizes:  slices.Clone(DefaultSizes),
		filter: DefaultFilter,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Convert runs the pipeline for src: validate, decode, resize each
// size, encode the container. The output file is the source's base
// name with the .ico extension, written to the current working
// directory. When every requested size is removed during validation
// Convert returns ErrNoValidSizes and writes nothing.
func (c *Converter) Convert(ctx context.Context, src string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	ledger := newLedger(c.stderr, c.stopOnWarning, c.logger)
	c.ledger = ledger

	fi, err := os.Stat(src)
	if err != nil || !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: path %q isn't a file", ErrNotAFile, src)
	}

	out := OutputPath(src)
	if _, err := os.Stat(out); err == nil && !c.quietOverwrite {
		if err := ledger.warn(WarningOutputExists, "the file %q already exists and will be overwritten", out); err != nil {
			return err
		}
	}

	sizes, removed := cleanSizes(c.sizes)
	if len(removed) > 0 {
		if err := ledger.warn(WarningSizesClamped, "the following sizes were removed because they are too big (or too small): %s", joinSizes(removed)); err != nil {
			return err
		}
	}
	if len(sizes) == 0 {
		return ErrNoValidSizes
	}
	maxSize := sizes[len(sizes)-1]

	img, err := c.decode(src, maxSize, ledger)
	if err != nil {
		return err
	}
	if img.Bounds().Dx() < maxSize {
		if err := ledger.warn(WarningUpscaleRequested, "you've requested sizes bigger than your input, your image will be scaled up"); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.stdout, "Converting %s to %s with sizes [%s]...\n", src, out, joinSizes(sizes))

	frames, err := c.resizeAll(ctx, img, sizes)
	if err != nil {
		return err
	}
	if err := c.writeICO(out, sizes, frames); err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Icon saved to %s\n", out)
	c.logger.Info("icon saved", slog.String("path", out), slog.Int("frames", len(frames)))
	return nil
}

// Warnings returns the warnings recorded by the most recent Convert
// call, in the order they were raised.
func (c *Converter) Warnings() []Warning {
	if c.ledger == nil {
		return nil
	}
	return c.ledger.Warnings()
}

// OutputPath returns the container path for src: the source's base
// name with the .ico extension, in the current working directory.
func OutputPath(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + OutputExt
}

func joinSizes(sizes []int) string {
	ss := make([]string, len(sizes))
	for i, s := range sizes {
		ss[i] = strconv.Itoa(s)
	}
	return strings.Join(ss, ", ")
}
