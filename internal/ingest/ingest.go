// Package ingest turns uploaded image files into normalized footprint images.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/pugmark/footprint/internal/footprint"
)

// PreviewSize is the edge length of the thumbnail shown next to a result.
const PreviewSize = 200

// MaxPixels bounds width*height of an image before it is decoded.
const MaxPixels = 50_000_000

var (
	ErrEmpty             = errors.New("empty image data")
	ErrUnsupportedFormat = errors.New("unsupported or corrupt image")
	ErrTooManyPixels     = fmt.Errorf("image exceeds %d pixels", MaxPixels)
)

// Decode reads an encoded image and returns its normalized 64x64 grayscale form.
func Decode(r io.Reader) (*footprint.Image, error) {
	img, err := DecodeImage(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

func DecodeBytes(data []byte) (*footprint.Image, error) {
	return Decode(bytes.NewReader(data))
}

func DecodeFile(path string) (*footprint.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// DecodeImage decodes any registered format, honouring EXIF orientation.
// Dimensions are checked against MaxPixels before pixel data is decoded.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return img, nil
}

// FromImage converts to 8-bit luminance, resizes to 64x64 and scales to [0,1].
// Alpha is discarded before resizing.
func FromImage(img image.Image) *footprint.Image {
	small := imaging.Resize(luminance(img), footprint.Size, footprint.Size, imaging.CatmullRom)

	pix := make([]float64, footprint.Size*footprint.Size)
	for y := 0; y < footprint.Size; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < footprint.Size; x++ {
			pix[y*footprint.Size+x] = float64(row[x*4]) / 255.0
		}
	}

	out, err := footprint.NewImage(pix)
	if err != nil {
		// Unreachable: 8-bit values scaled by 1/255 are always in range.
		panic(err)
	}
	return out
}

// Preview renders a size x size grayscale PNG of img.
func Preview(img image.Image, size int) ([]byte, error) {
	if size <= 0 {
		size = PreviewSize
	}
	thumb := imaging.Resize(luminance(img), size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

func luminance(img image.Image) *image.Gray {
	gray := imaging.Grayscale(img)
	out := image.NewGray(gray.Rect)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}
