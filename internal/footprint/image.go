package footprint

import (
	"errors"
	"fmt"
	"math"
)

// Size is the width and height of a normalized footprint image.
const Size = 64

var (
	ErrShape = errors.New("footprint image must be 64x64")
	ErrRange = errors.New("footprint intensity out of range [0,1]")
)

// Image is a single-channel 64x64 grid of intensities in [0,1], row-major.
type Image struct {
	pix [Size * Size]float64
}

// NewImage copies pix into a new Image after checking shape and range.
func NewImage(pix []float64) (*Image, error) {
	if len(pix) != Size*Size {
		return nil, fmt.Errorf("%w: got %d values", ErrShape, len(pix))
	}

	img := &Image{}
	for i, v := range pix {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: pixel %d is %v", ErrRange, i, v)
		}
		img.pix[i] = v
	}
	return img, nil
}

// Uniform returns an image where every pixel is v.
func Uniform(v float64) *Image {
	img := &Image{}
	for i := range img.pix {
		img.pix[i] = v
	}
	return img
}

func (m *Image) At(x, y int) float64 {
	return m.pix[y*Size+x]
}

// Score is the arithmetic mean of all intensities.
func (m *Image) Score() float64 {
	var sum float64
	for _, v := range m.pix {
		sum += v
	}
	return sum / float64(len(m.pix))
}
