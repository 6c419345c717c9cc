// Package redact runs the face-redaction pipeline: blur the whole image
// once, then stencil the blurred content back over the original through a
// feathered elliptical mask per detected region.
package redact

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/pixelshield/face-redactor/pkg/blur"
	"github.com/pixelshield/face-redactor/pkg/compose"
	"github.com/pixelshield/face-redactor/pkg/mask"
	"github.com/pixelshield/face-redactor/pkg/types"
)

// Options configures the redaction pipeline. Both radii are in pixels.
type Options struct {
	BlurRadius    int
	FeatherRadius int
}

// DefaultOptions returns the pipeline defaults
func DefaultOptions() Options {
	return Options{
		BlurRadius:    15,
		FeatherRadius: 34,
	}
}

// Apply redacts the given regions on src and returns a new buffer; src is
// never modified. With no regions the result is a byte-identical copy of
// the input, not a blurred one. Regions are blended in the order the
// detector reported them, so overlapping masks accumulate deterministically.
func Apply(src *image.NRGBA, regions []types.Region, opts Options) *image.NRGBA {
	out := imaging.Clone(src)
	if len(regions) == 0 {
		return out
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	// One full-image blur shared by every region
	blurred := blur.Gaussian(src, opts.BlurRadius)

	for _, region := range regions {
		m := mask.FromRegion(region, w, h)
		m = mask.Feather(m, opts.FeatherRadius)
		compose.Blend(out, blurred, m)
	}

	return out
}
