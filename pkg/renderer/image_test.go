package renderer

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestToImage_SRGBEncoding(t *testing.T) {
	img := ToImage(3, 1, []float32{0, 0, 0, 0.5, 0.5, 0.5, 1, 1, 1})

	tests := []struct {
		x    int
		want uint8
	}{
		{0, 0},
		{1, 188},
		{2, 255},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, 0); got.R != tt.want || got.A != 255 {
			t.Errorf("Pixel %d: expected %d, got %v", tt.x, tt.want, got)
		}
	}
}

func TestNormalAndDepthImages(t *testing.T) {
	normal := NormalToImage(1, 1, []float32{-1, 0, 1})
	if got := normal.RGBAAt(0, 0); got.R != 0 || got.G != 128 || got.B != 255 {
		t.Errorf("Expected normal mapped to (0,128,255), got %v", got)
	}

	depth := DepthToImage(1, 1, []float32{0.5, 0.5, 0.5})
	if got := depth.RGBAAt(0, 0); got.R != 128 || got.G != got.R {
		t.Errorf("Expected linear gray 128, got %v", got)
	}
}

func TestWritePFM(t *testing.T) {
	// Two rows: top is 1, bottom is 2
	data := []float32{1, 1, 1, 2, 2, 2}
	var buf bytes.Buffer
	if err := WritePFM(&buf, 1, 2, data); err != nil {
		t.Fatalf("WritePFM failed: %v", err)
	}

	header := "PF\n1 2\n-1.0\n"
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte(header)) {
		t.Fatalf("Expected header %q, got %q", header, out[:min(len(out), len(header))])
	}
	body := out[len(header):]
	if len(body) != len(data)*4 {
		t.Fatalf("Expected %d bytes of pixel data, got %d", len(data)*4, len(body))
	}
	if first := math.Float32frombits(binary.LittleEndian.Uint32(body)); first != 2 {
		t.Errorf("Expected bottom row first, got %v", first)
	}
}

func TestWritePFM_SizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePFM(&buf, 2, 2, []float32{1, 2, 3}); err == nil {
		t.Error("Expected error for a short buffer")
	}
}

func TestSaveBuffers(t *testing.T) {
	dir := t.TempDir()
	f := NewFrameBuffers(2, 2)

	written, err := SaveBuffers(dir, "frame", f, false)
	if err != nil {
		t.Fatalf("SaveBuffers failed: %v", err)
	}
	if len(written) != 1 || written[0] != filepath.Join(dir, "frame.png") {
		t.Errorf("Expected only the color PNG, got %v", written)
	}

	written, err = SaveBuffers(dir, "aux", f, true)
	if err != nil {
		t.Fatalf("SaveBuffers failed: %v", err)
	}
	// color png, then per buffer an optional png preview plus a pfm
	if len(written) != 8 {
		t.Errorf("Expected 8 files, got %d: %v", len(written), written)
	}
	for _, path := range written {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to exist: %v", path, err)
		}
	}
}
