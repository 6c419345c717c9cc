// Package detection provides the face-detection boundary of the redactor.
// Two kinds of backend are available: a local pigo cascade classifier and
// remote vision models reached through a client. All backends return
// regions in a stable order; the compositing stage is order-sensitive when
// masks overlap.
package detection

import (
	"context"
	"image"

	"github.com/pixelshield/face-redactor/pkg/types"
)

// DefaultMinConfidence is the score below which detections are discarded
const DefaultMinConfidence = 0.4

// Detector finds faces in a decoded image
type Detector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]types.Region, error)
}

// FilterByConfidence drops regions scoring below min while preserving the
// detector's output order
func FilterByConfidence(regions []types.Region, min float64) []types.Region {
	out := make([]types.Region, 0, len(regions))
	for _, r := range regions {
		if r.Score >= min {
			out = append(out, r)
		}
	}
	return out
}
