package icopack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
)

// ICONDIR / ICONDIRENTRY layout per the ICO file format.
// https://en.wikipedia.org/wiki/ICO_(file_format)
const (
	iconDirSize      = 6
	iconDirEntrySize = 16
)

type iconDirEntry struct {
	Width        uint8 // 0 means 256
	Height       uint8
	ColorCount   uint8
	Reserved     uint8
	Planes       uint16
	BitsPerPixel uint16
	Size         uint32
	Offset       uint32
}

// encodeFrame compresses one resized frame as PNG. PNG frames are
// valid inside ICO containers since Windows Vista and keep the 256px
// frame well below the BMP equivalent in size.
func encodeFrame(frame *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// writeICO packs the frames into one container at out, in the given
// (sorted) size order. The container is assembled in memory and
// written via a temporary neighbor plus rename, so a failed run never
// leaves a partial file behind.
func (c *Converter) writeICO(out string, sizes []int, frames []*image.NRGBA) error {
	encoded := make([][]byte, len(frames))
	for i, frame := range frames {
		b, err := encodeFrame(frame)
		if err != nil {
			return fmt.Errorf("failed to encode %dx%d frame: %w", sizes[i], sizes[i], err)
		}
		encoded[i] = b
	}

	var buf bytes.Buffer
	for _, v := range []uint16{0, 1, uint16(len(frames))} { // reserved, type icon, count
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to build icon container: %w", err)
		}
	}
	offset := uint32(iconDirSize + iconDirEntrySize*len(frames))
	for i, size := range sizes {
		entry := iconDirEntry{
			Width:        uint8(size % 256),
			Height:       uint8(size % 256),
			Planes:       1,
			BitsPerPixel: 32,
			Size:         uint32(len(encoded[i])),
			Offset:       offset,
		}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return fmt.Errorf("failed to build icon container: %w", err)
		}
		offset += uint32(len(encoded[i]))
	}
	for _, b := range encoded {
		buf.Write(b)
	}

	tmp := out + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write icon container %s: %w", out, err)
	}
	if err := os.Rename(tmp, out); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write icon container %s: %w", out, err)
	}
	c.logger.Debug("wrote icon container", slog.String("path", out), slog.Int("bytes", buf.Len()))
	return nil
}
