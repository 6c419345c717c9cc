// Package faceredactor blurs detected faces in raster images.
//
// Each detected face is covered with a padded elliptical mask, the mask is
// feathered into a smooth alpha ramp, and the globally blurred image is
// composited back through it, so redacted regions fade seamlessly into the
// untouched surroundings.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		faceredactor "github.com/pixelshield/face-redactor"
//		"github.com/pixelshield/face-redactor/pkg/detection"
//	)
//
//	func main() {
//		detector, err := detection.NewPigoDetector(detection.PigoConfig{
//			CascadeFile: "./cascade/facefinder",
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		redactor := faceredactor.New(detector)
//		regions, err := redactor.RedactFile(context.Background(), "group.jpg", "group_redacted.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("redacted %d faces", len(regions))
//	}
//
// The package consists of four main components:
//
// 1. Blur (pkg/blur): separable Gaussian convolution used for both the
// visual blur and mask feathering
// 2. Mask (pkg/mask): padded-ellipse rasterization and feathering
// 3. Compose (pkg/compose): alpha compositing through the feathered mask
// 4. Detection (pkg/detection): pluggable face detectors (local pigo
// cascade or a remote vision model)
//
// Images in a batch are independent and can be redacted concurrently, but
// regions within one image are always composited in detector order, since
// overlapping masks blend cumulatively.
package faceredactor

import (
	"context"
	"fmt"
	"image"

	"github.com/pixelshield/face-redactor/pkg/detection"
	"github.com/pixelshield/face-redactor/pkg/processing"
	"github.com/pixelshield/face-redactor/pkg/redact"
	"github.com/pixelshield/face-redactor/pkg/types"
)

// Version of the face redactor library
const Version = "1.0.0"

// Options configures a Redactor
type Options struct {
	BlurRadius    int
	FeatherRadius int
	MinConfidence float64
	OutputQuality int
	Lossless      bool
}

// DefaultOptions returns the standard redaction settings
func DefaultOptions() Options {
	return Options{
		BlurRadius:    15,
		FeatherRadius: 34,
		MinConfidence: detection.DefaultMinConfidence,
		OutputQuality: 90,
	}
}

// Redactor provides a high-level interface for face redaction
type Redactor struct {
	processor *processing.Processor
	detector  detection.Detector
	opts      Options
}

// New creates a Redactor with default options
func New(detector detection.Detector) *Redactor {
	return NewWithOptions(detector, DefaultOptions())
}

// NewWithOptions creates a Redactor with custom options
func NewWithOptions(detector detection.Detector, opts Options) *Redactor {
	return &Redactor{
		processor: processing.NewProcessor(),
		detector:  detector,
		opts:      opts,
	}
}

// LoadImage loads an image from a file path or URL
func (r *Redactor) LoadImage(source string) (image.Image, error) {
	return r.processor.LoadImageSmart(source)
}

// DetectFaces runs the configured detector and applies the confidence
// threshold, preserving the detector's output order
func (r *Redactor) DetectFaces(ctx context.Context, img image.Image) ([]types.Region, error) {
	regions, err := r.detector.DetectFaces(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}
	return detection.FilterByConfidence(regions, r.opts.MinConfidence), nil
}

// RedactImage detects faces and returns a redacted copy of the image
// along with the regions that were blurred. With no detections the result
// is identical to the input.
func (r *Redactor) RedactImage(ctx context.Context, img image.Image) (*image.NRGBA, []types.Region, error) {
	regions, err := r.DetectFaces(ctx, img)
	if err != nil {
		return nil, nil, err
	}

	src := r.processor.ToNRGBA(img)
	out := redact.Apply(src, regions, redact.Options{
		BlurRadius:    r.opts.BlurRadius,
		FeatherRadius: r.opts.FeatherRadius,
	})
	return out, regions, nil
}

// RedactFile loads an image, redacts it, and writes the result. The
// output format follows the output path's extension; nothing is written
// if any stage fails.
func (r *Redactor) RedactFile(ctx context.Context, inputPath, outputPath string) ([]types.Region, error) {
	img, err := r.LoadImage(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	out, regions, err := r.RedactImage(ctx, img)
	if err != nil {
		return nil, err
	}

	format := formatFromPath(outputPath)
	if err := r.processor.SaveImage(out, outputPath, format, r.opts.OutputQuality, r.opts.Lossless); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	return regions, nil
}

// DebugOverlay renders the detections and their redaction ellipses on a
// copy of the image without blurring anything
func (r *Redactor) DebugOverlay(ctx context.Context, img image.Image) (image.Image, []types.Region, error) {
	regions, err := r.DetectFaces(ctx, img)
	if err != nil {
		return nil, nil, err
	}
	return r.processor.CreateDebugOverlay(img, regions), regions, nil
}

func formatFromPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
		if path[i] == '/' || path[i] == '\\' {
			break
		}
	}
	return "png"
}
