package redact

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/pixelshield/face-redactor/pkg/blur"
	"github.com/pixelshield/face-redactor/pkg/types"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// checkerImage alternates black and white per pixel, so any blur moves
// pixel values toward mid-gray
func checkerImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestApplyNoRegionsIsPassthrough(t *testing.T) {
	src := checkerImage(60, 40)
	out := Apply(src, nil, DefaultOptions())

	if !bytes.Equal(out.Pix, src.Pix) {
		t.Error("empty region list must return the input unmodified")
	}
	if &out.Pix[0] == &src.Pix[0] {
		t.Error("passthrough must still be a fresh buffer")
	}
}

func TestApplyUniformImageStaysUniform(t *testing.T) {
	// The end-to-end reference scenario: an all-red image with one
	// detection stays all red, because blurring a uniform field is the
	// identity
	red := color.NRGBA{R: 255, A: 255}
	src := solidImage(100, 100, red)
	regions := []types.Region{{X: 25, Y: 25, Width: 50, Height: 50, Score: 0.9}}

	out := Apply(src, regions, Options{BlurRadius: 15, FeatherRadius: 34})

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if out.NRGBAAt(x, y) != red {
				t.Fatalf("(%d,%d) = %+v, want solid red", x, y, out.NRGBAAt(x, y))
			}
		}
	}
}

func TestApplyFullRegionMatchesGlobalBlur(t *testing.T) {
	src := checkerImage(100, 100)
	opts := Options{BlurRadius: 15, FeatherRadius: 10}
	regions := []types.Region{{X: 0, Y: 0, Width: 100, Height: 100, Score: 1}}

	out := Apply(src, regions, opts)
	blurred := blur.Gaussian(src, opts.BlurRadius)

	// The padded ellipse spans the full canvas; deep inside it the
	// feathered mask is saturated, so the output must equal the global
	// blur exactly there
	for dy := -5; dy <= 5; dy++ {
		for dx := -5; dx <= 5; dx++ {
			x, y := 50+dx, 50+dy
			if out.NRGBAAt(x, y) != blurred.NRGBAAt(x, y) {
				t.Fatalf("(%d,%d): out %+v != blurred %+v", x, y, out.NRGBAAt(x, y), blurred.NRGBAAt(x, y))
			}
		}
	}
}

func TestApplyAdjacentRegions(t *testing.T) {
	src := checkerImage(200, 100)
	regions := []types.Region{
		{X: 20, Y: 30, Width: 30, Height: 30, Score: 0.8},
		{X: 120, Y: 30, Width: 30, Height: 30, Score: 0.7},
	}

	out := Apply(src, regions, Options{BlurRadius: 15, FeatherRadius: 8})

	// Region centers must have moved toward the blurred mid-gray
	for _, r := range regions {
		cx, cy := r.Center()
		got := int(out.NRGBAAt(cx, cy).R)
		orig := int(src.NRGBAAt(cx, cy).R)
		diff := got - orig
		if diff < 0 {
			diff = -diff
		}
		if diff < 50 {
			t.Errorf("region center (%d,%d) barely moved: %d -> %d", cx, cy, orig, got)
		}
	}

	// Pixels well away from both padded ellipses stay untouched
	for _, pt := range [][2]int{{0, 0}, {199, 99}, {85, 50}, {100, 5}, {0, 99}} {
		x, y := pt[0], pt[1]
		if out.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
			t.Errorf("(%d,%d) changed outside both regions: %+v -> %+v",
				x, y, src.NRGBAAt(x, y), out.NRGBAAt(x, y))
		}
	}
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	src := checkerImage(80, 80)
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	Apply(src, []types.Region{{X: 20, Y: 20, Width: 30, Height: 30, Score: 0.9}}, DefaultOptions())

	if !bytes.Equal(src.Pix, before) {
		t.Error("Apply mutated the source buffer")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.BlurRadius != 15 {
		t.Errorf("BlurRadius = %d, want 15", opts.BlurRadius)
	}
	if opts.FeatherRadius != 34 {
		t.Errorf("FeatherRadius = %d, want 34", opts.FeatherRadius)
	}
}
