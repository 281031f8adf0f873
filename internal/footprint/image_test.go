package footprint

import (
	"errors"
	"math"
	"testing"
)

func TestNewImage(t *testing.T) {
	tests := []struct {
		name    string
		pix     []float64
		wantErr error
	}{
		{
			name: "valid",
			pix:  make([]float64, Size*Size),
		},
		{
			name:    "too few values",
			pix:     make([]float64, Size),
			wantErr: ErrShape,
		},
		{
			name:    "value above one",
			pix:     withPixel(7, 1.5),
			wantErr: ErrRange,
		},
		{
			name:    "negative value",
			pix:     withPixel(0, -0.1),
			wantErr: ErrRange,
		},
		{
			name:    "NaN",
			pix:     withPixel(100, math.NaN()),
			wantErr: ErrRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImage(tt.pix)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewImageCopiesPixels(t *testing.T) {
	pix := make([]float64, Size*Size)
	pix[Size+2] = 0.25

	img, err := NewImage(pix)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	pix[Size+2] = 1

	if got := img.At(2, 1); got != 0.25 {
		t.Errorf("Expected pixel (2,1) to be 0.25, got %v", got)
	}
}

func TestScore(t *testing.T) {
	// Left half white, right half black.
	pix := make([]float64, Size*Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size/2; x++ {
			pix[y*Size+x] = 1
		}
	}
	img, err := NewImage(pix)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}

	if got := img.Score(); got != 0.5 {
		t.Errorf("Expected score 0.5, got %v", got)
	}
	if got := Uniform(0.75).Score(); got != 0.75 {
		t.Errorf("Expected uniform score 0.75, got %v", got)
	}
}

func withPixel(i int, v float64) []float64 {
	pix := make([]float64, Size*Size)
	pix[i] = v
	return pix
}
