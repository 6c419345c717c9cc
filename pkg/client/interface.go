package client

import (
	"context"

	"github.com/pixelshield/face-redactor/pkg/types"
)

// VisionClient is implemented by vision-model backends that can locate
// faces in an image
type VisionClient interface {
	SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error)
	DetectFaces(ctx context.Context, model, prompt, imgB64 string) (*types.DetectionResult, error)
}
