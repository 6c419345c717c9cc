package detection

import (
	"context"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/pixelshield/face-redactor/pkg/types"
)

// PigoConfig configures the local cascade detector
type PigoConfig struct {
	CascadeFile  string
	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IoUThreshold float64
}

// PigoDetector runs the pigo face-detection cascade locally, with no
// network dependency
type PigoDetector struct {
	classifier *pigo.Pigo
	config     PigoConfig
}

// NewPigoDetector loads the cascade file and prepares a classifier.
// Zero-valued config fields fall back to the usual pigo defaults.
func NewPigoDetector(config PigoConfig) (*PigoDetector, error) {
	if config.MinSize == 0 {
		config.MinSize = 20
	}
	if config.MaxSize == 0 {
		config.MaxSize = 1000
	}
	if config.ShiftFactor == 0 {
		config.ShiftFactor = 0.1
	}
	if config.ScaleFactor == 0 {
		config.ScaleFactor = 1.1
	}
	if config.IoUThreshold == 0 {
		config.IoUThreshold = 0.2
	}

	data, err := os.ReadFile(config.CascadeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file %s: %w", config.CascadeFile, err)
	}

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade file: %w", err)
	}

	return &PigoDetector{classifier: classifier, config: config}, nil
}

// DetectFaces runs the cascade over the image and returns clustered
// detections as pixel regions
func (d *PigoDetector) DetectFaces(ctx context.Context, img image.Image) ([]types.Region, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	pixels := pigo.RgbToGrayscale(img)
	cols := img.Bounds().Dx()
	rows := img.Bounds().Dy()

	params := pigo.CascadeParams{
		MinSize:     d.config.MinSize,
		MaxSize:     d.config.MaxSize,
		ShiftFactor: d.config.ShiftFactor,
		ScaleFactor: d.config.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	faces := d.classifier.RunCascade(params, 0.0)
	faces = d.classifier.ClusterDetections(faces, d.config.IoUThreshold)

	regions := make([]types.Region, 0, len(faces))
	for _, face := range faces {
		regions = append(regions, types.Region{
			X:      face.Col - face.Scale/2,
			Y:      face.Row - face.Scale/2,
			Width:  face.Scale,
			Height: face.Scale,
			Score:  pigoScore(face.Q),
		})
	}
	return regions, nil
}

// pigoScore maps pigo's unbounded quality value (commonly cut off around
// 20) onto [0,1] so the shared confidence threshold applies to both
// backends
func pigoScore(q float32) float64 {
	s := float64(q) / 50
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
