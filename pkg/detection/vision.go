package detection

import (
	"context"
	"fmt"
	"image"

	"github.com/pixelshield/face-redactor/pkg/client"
	"github.com/pixelshield/face-redactor/pkg/processing"
	"github.com/pixelshield/face-redactor/pkg/types"
)

// FaceListPrompt is the default prompt for vision-model face detection
const FaceListPrompt = `You are a face locator.

Return JSON only:
{
  "faces": [
    {"confidence": 0.0, "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}}
  ]
}

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- One entry per visible human face, ordered left to right.
- The box tightly contains the face from forehead to chin.
- confidence is in [0,1] and reflects how certain you are the box is a face.
- If no face is visible, return {"faces":[]}.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// SimpleTestPrompt for checking that the model can see images at all
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

// VisionConfig configures how images are shipped to the vision backend
type VisionConfig struct {
	Model       string
	SendFormat  string // jpg or png
	SendMaxDim  int    // long side limit in px, 0 = original size
	SendQuality int    // JPEG quality for the payload
}

// DefaultVisionConfig returns the payload settings that work well with
// small vision models
func DefaultVisionConfig(model string) VisionConfig {
	return VisionConfig{
		Model:       model,
		SendFormat:  "jpg",
		SendMaxDim:  1536,
		SendQuality: 85,
	}
}

// VisionDetector finds faces through a remote vision-model client
type VisionDetector struct {
	client    client.VisionClient
	processor *processing.Processor
	config    VisionConfig
}

// NewVisionDetector creates a detector backed by the given vision client
func NewVisionDetector(c client.VisionClient, config VisionConfig) *VisionDetector {
	if config.SendFormat == "" {
		config.SendFormat = "jpg"
	}
	if config.SendQuality == 0 {
		config.SendQuality = 85
	}
	return &VisionDetector{
		client:    c,
		processor: processing.NewProcessor(),
		config:    config,
	}
}

// DetectFaces sends the image to the vision model and converts the
// reported normalized boxes into pixel regions, keeping the model's
// output order
func (d *VisionDetector) DetectFaces(ctx context.Context, img image.Image) ([]types.Region, error) {
	imgB64, err := d.processor.PrepareImageForModel(img, d.config.SendFormat, d.config.SendMaxDim, d.config.SendQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image for model: %w", err)
	}

	result, err := d.client.DetectFaces(ctx, d.config.Model, FaceListPrompt, imgB64)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	fw, fh := float64(bounds.Dx()), float64(bounds.Dy())

	regions := make([]types.Region, 0, len(result.Faces))
	for _, face := range result.Faces {
		box := clampBox(face.Box)
		region := types.Region{
			X:      int(box.X*fw + 0.5),
			Y:      int(box.Y*fh + 0.5),
			Width:  int(box.W*fw + 0.5),
			Height: int(box.H*fh + 0.5),
			Score:  clamp(face.Confidence, 0, 1),
		}
		if region.Width <= 0 || region.Height <= 0 {
			continue
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// CheckVision asks the model to describe the image, as a quick sanity
// check that the backend actually receives pixels
func (d *VisionDetector) CheckVision(ctx context.Context, img image.Image) (string, error) {
	imgB64, err := d.processor.PrepareImageForModel(img, d.config.SendFormat, d.config.SendMaxDim, d.config.SendQuality)
	if err != nil {
		return "", fmt.Errorf("failed to encode image for model: %w", err)
	}
	return d.client.SimpleQuery(ctx, d.config.Model, SimpleTestPrompt, imgB64)
}

// clampBox constrains a normalized box to the unit square
func clampBox(b types.Box) types.Box {
	return types.Box{
		X: clamp(b.X, 0, 1),
		Y: clamp(b.Y, 0, 1),
		W: clamp(b.W, 0, 1),
		H: clamp(b.H, 0, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
