package icopack

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decode loads src into an in-memory raster. SVG sources are
// rasterized once at maxSize so that every icon frame is downsampled
// from the highest fidelity needed; raster sources are decoded as-is
// with format auto-detection. The non-square check also lives here:
// for SVG it must run against the document's natural size before
// rendering, since the rendered raster is always square.
func (c *Converter) decode(src string, maxSize int, ledger *Ledger) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(src), ".svg") {
		return c.rasterizeSVG(src, maxSize, ledger)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", src, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image file %s: %w", src, err)
	}
	b := img.Bounds()
	c.logger.Debug("decoded image",
		slog.String("format", format),
		slog.Int("width", b.Dx()),
		slog.Int("height", b.Dy()))
	if b.Dx() != b.Dy() {
		if err := ledger.warn(WarningNonSquareInput, "your input image is %dx%d, not square, and will appear squished", b.Dx(), b.Dy()); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func (c *Converter) rasterizeSVG(src string, size int, ledger *Ledger) (_ image.Image, err error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open SVG file %s: %w", src, err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG file %s: %w", src, err)
	}

	// Natural size comes from the viewBox (or width/height attributes).
	if icon.ViewBox.W != icon.ViewBox.H {
		if err := ledger.warn(WarningNonSquareInput, "your input image is %gx%g, not square, and will appear squished", icon.ViewBox.W, icon.ViewBox.H); err != nil {
			return nil, err
		}
	}

	c.logger.Info("rasterizing svg", slog.String("path", src), slog.Int("size", size))

	// oksvg panics on some malformed path data.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to rasterize SVG file %s: %v", src, r)
		}
	}()

	icon.SetTarget(0, 0, float64(size), float64(size))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img, nil
}
