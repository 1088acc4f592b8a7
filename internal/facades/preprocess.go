package facades

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// InputSize is the square edge images are resized to before classification.
const InputSize = 224

// MaxPixels bounds the decoded size of an upload. Headers are checked before
// decoding so small, highly compressible files cannot force large allocations.
const MaxPixels = 40_000_000

// ErrImageTooLarge is returned for images whose header exceeds MaxPixels.
var ErrImageTooLarge = errors.New("image too large")

// Tensor is a single RGB image laid out as [Height][Width][3] in row-major order,
// with channel values in [0,1].
type Tensor struct {
	Width  int
	Height int
	Data   []float32
}

// At returns channel c of the pixel at (x, y).
func (t *Tensor) At(x, y, c int) float32 {
	return t.Data[(y*t.Width+x)*3+c]
}

// Preprocess decodes data, resizes it nearest-neighbour to size x size and scales
// the RGB channels into [0,1]. Alpha is dropped.
func Preprocess(data []byte, size int) (*Tensor, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("decode image: %dx%d: %w", cfg.Width, cfg.Height, ErrImageTooLarge)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	t := &Tensor{Width: size, Height: size, Data: make([]float32, size*size*3)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := dst.PixOffset(x, y)
			o := (y*size + x) * 3
			t.Data[o] = float32(dst.Pix[i]) / 255
			t.Data[o+1] = float32(dst.Pix[i+1]) / 255
			t.Data[o+2] = float32(dst.Pix[i+2]) / 255
		}
	}

	return t, nil
}
