package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
)

// Reference images linked from fixed analysis results.
const (
	SampleMedicine  = "sample_medicine.jpg"
	SampleMedicine2 = "sample_medicine2.jpg"
)

// Store is implemented by LocalStore and MinioStore.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

var sampleColors = map[string]color.RGBA{
	SampleMedicine:  {R: 46, G: 125, B: 50, A: 255},
	SampleMedicine2: {R: 249, G: 168, B: 37, A: 255},
}

// SeedSamples writes placeholder reference images that are not stored yet.
// Existing objects are left untouched so operators can provide real pictures.
func SeedSamples(ctx context.Context, s Store) error {
	for _, name := range []string{SampleMedicine, SampleMedicine2} {
		rc, err := s.Open(ctx, name)
		if err == nil {
			rc.Close()
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		data, err := swatch(sampleColors[name])
		if err != nil {
			return err
		}
		if _, err := s.Save(ctx, name, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
			return err
		}
		logger.Log.Infow("storage", "seeded", name, "size", len(data))
	}
	return nil
}

func swatch(c color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
