package icopack

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func testFrames(sizes []int) []*image.NRGBA {
	frames := make([]*image.NRGBA, len(sizes))
	for i, s := range sizes {
		frames[i] = imaging.New(s, s, color.Transparent)
	}
	return frames
}

func TestEncodeFrame(t *testing.T) {
	b, err := encodeFrame(imaging.New(16, 16, color.Transparent))
	if err != nil {
		t.Fatal(err)
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Errorf("frame does not start with PNG magic: % x", b[:8])
	}
}

func TestWriteICO(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.ico")
	sizes := []int{16, 32, 256}

	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.writeICO(out, sizes, testFrames(sizes)); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	r := bytes.NewReader(b)
	var reserved, imageType, count uint16
	for _, v := range []*uint16{&reserved, &imageType, &count} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	if reserved != 0 {
		t.Errorf("reserved = %d, want 0", reserved)
	}
	if imageType != 1 {
		t.Errorf("image type = %d, want 1 (icon)", imageType)
	}
	if int(count) != len(sizes) {
		t.Fatalf("count = %d, want %d", count, len(sizes))
	}

	wantOffset := uint32(iconDirSize + iconDirEntrySize*len(sizes))
	for i, size := range sizes {
		var entry iconDirEntry
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			t.Fatal(err)
		}
		wantEdge := uint8(size % 256) // 256 is stored as 0
		if entry.Width != wantEdge || entry.Height != wantEdge {
			t.Errorf("entry %d edge = (%d, %d), want %d", i, entry.Width, entry.Height, wantEdge)
		}
		if entry.Planes != 1 || entry.BitsPerPixel != 32 {
			t.Errorf("entry %d planes/bpp = %d/%d, want 1/32", i, entry.Planes, entry.BitsPerPixel)
		}
		if entry.Offset != wantOffset {
			t.Errorf("entry %d offset = %d, want %d (frames must be contiguous)", i, entry.Offset, wantOffset)
		}
		wantOffset += entry.Size
	}
	if int(wantOffset) != len(b) {
		t.Errorf("container length = %d, want %d", len(b), wantOffset)
	}

	// No temp neighbor may survive a successful write.
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestWriteICO_NoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	// Writing into a missing directory must fail without creating the
	// output path.
	out := filepath.Join(dir, "missing", "out.ico")
	sizes := []int{16}

	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.writeICO(out, sizes, testFrames(sizes)); err == nil {
		t.Fatal("writeICO() should fail for a missing directory")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("partial output left behind")
	}
}
