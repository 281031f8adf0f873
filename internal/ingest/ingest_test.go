package ingest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pugmark/footprint/internal/footprint"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeBytesScores(t *testing.T) {
	tests := []struct {
		name     string
		img      image.Image
		expected float64
		label    footprint.Label
	}{
		{
			name:     "white",
			img:      solid(120, 80, color.White),
			expected: 1,
			label:    footprint.LabelLion,
		},
		{
			name:     "black",
			img:      solid(30, 300, color.Black),
			expected: 0,
			label:    footprint.LabelTiger,
		},
		{
			name:     "mid grey",
			img:      solid(64, 64, color.Gray{Y: 128}),
			expected: 128.0 / 255.0,
			label:    footprint.LabelOther,
		},
		{
			name:     "pure red uses luminance weights",
			img:      solid(10, 10, color.NRGBA{R: 255, A: 255}),
			expected: 76.0 / 255.0,
			label:    footprint.LabelTiger,
		},
		{
			name:     "alpha is ignored",
			img:      solid(16, 16, color.NRGBA{R: 255, G: 255, B: 255, A: 0}),
			expected: 1,
			label:    footprint.LabelLion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeBytes(encodePNG(t, tt.img))
			if err != nil {
				t.Fatalf("DecodeBytes failed: %v", err)
			}
			if got := img.Score(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected score %v, got %v", tt.expected, got)
			}
			if got := footprint.Classify(img).Label(); got != tt.label {
				t.Errorf("Expected label %s, got %s", tt.label, got)
			}
		})
	}
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(50, 50, color.White), &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := img.Score(); got < 0.95 {
		t.Errorf("Expected a near-white score, got %v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeBytes(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
	if _, err := DecodeBytes([]byte("definitely not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

// pngWithSize encodes a 1x1 PNG and rewrites its header to claim w x h.
func pngWithSize(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 1, 1)))
	ihdr := data[12:29]
	binary.BigEndian.PutUint32(ihdr[4:8], w)
	binary.BigEndian.PutUint32(ihdr[8:12], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(ihdr))
	return data
}

func TestDecodeRejectsOversizedDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
	}{
		{"square", 12000, 12000},
		{"wide", MaxPixels/1000 + 1, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pngWithSize(t, tt.w, tt.h)
			if len(data) > 1024 {
				t.Fatalf("Expected a tiny file, got %d bytes", len(data))
			}
			if _, err := DecodeBytes(data); !errors.Is(err, ErrTooManyPixels) {
				t.Errorf("Expected ErrTooManyPixels, got %v", err)
			}
		})
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(pngWithSize(t, 7, 9)))
	if err != nil || cfg.Width != 7 || cfg.Height != 9 {
		t.Fatalf("Rewritten header not readable: %+v %v", cfg, err)
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "print.png")
	if err := os.WriteFile(path, encodePNG(t, solid(8, 8, color.Black)), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if img.Score() != 0 {
		t.Errorf("Expected score 0, got %v", img.Score())
	}
}

func TestPreview(t *testing.T) {
	data, err := Preview(solid(500, 300, color.NRGBA{G: 255, A: 255}), 0)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode preview: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected png preview, got %s", format)
	}
	if cfg.Width != PreviewSize || cfg.Height != PreviewSize {
		t.Errorf("Expected %dx%d preview, got %dx%d", PreviewSize, PreviewSize, cfg.Width, cfg.Height)
	}
}
