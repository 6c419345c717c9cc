// Package mask turns detected face regions into per-pixel opacity buffers.
// A mask starts as a hard-edged filled ellipse over the padded detection
// box and is feathered into a smooth alpha ramp before compositing.
package mask

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/pixelshield/face-redactor/pkg/blur"
	"github.com/pixelshield/face-redactor/pkg/types"
)

// PaddedEllipse returns the center and radii of the redaction ellipse for
// a region on a canvas of the given size. The box is expanded by 20% of
// its width on both sides and by 30%/20% of its height above/below; the
// upward bias keeps forehead and hair inside the ellipse.
func PaddedEllipse(region types.Region, canvasW, canvasH int) (cx, cy, rx, ry float64) {
	padX := float64(region.Width) * 0.2
	padY := float64(region.Height) * 0.2

	fx := math.Max(0, float64(region.X)-padX)
	fy := math.Max(0, float64(region.Y)-padY*1.5)
	fw := math.Min(float64(canvasW)-fx, float64(region.Width)+padX*2)
	fh := math.Min(float64(canvasH)-fy, float64(region.Height)+padY*2.5)

	return fx + fw/2, fy + fh/2, fw / 2, fh / 2
}

// FromRegion rasterizes the padded ellipse for a region into a full-canvas
// mask. Interior pixels are fully opaque, exterior pixels fully
// transparent; the rasterizer's edge antialiasing is harmless because the
// edge is feathered afterwards anyway.
func FromRegion(region types.Region, canvasW, canvasH int) *image.NRGBA {
	cx, cy, rx, ry := PaddedEllipse(region, canvasW, canvasH)

	dc := gg.NewContext(canvasW, canvasH)
	dc.SetRGB(1, 1, 1)
	dc.DrawEllipse(cx, cy, rx, ry)
	dc.Fill()

	return coverage(dc.Image(), canvasW, canvasH)
}

// Feather softens the mask boundary by running it through the same
// separable Gaussian used for image content. Blurring a binary coverage
// field produces exactly the smooth 0..255 falloff the compositor needs.
func Feather(m *image.NRGBA, radius int) *image.NRGBA {
	return blur.Gaussian(m, radius)
}

// coverage copies the rasterizer's alpha into all four channels of an
// NRGBA buffer so the mask goes through the blur engine unchanged in shape
func coverage(img image.Image, w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			srcRow := rgba.PixOffset(rgba.Rect.Min.X, rgba.Rect.Min.Y+y)
			dstRow := y * m.Stride
			for x := 0; x < w; x++ {
				a := rgba.Pix[srcRow+x*4+3]
				off := dstRow + x*4
				m.Pix[off+0] = a
				m.Pix[off+1] = a
				m.Pix[off+2] = a
				m.Pix[off+3] = a
			}
		}
		return m
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			v := uint8(a >> 8)
			off := y*m.Stride + x*4
			m.Pix[off+0] = v
			m.Pix[off+1] = v
			m.Pix[off+2] = v
			m.Pix[off+3] = v
		}
	}
	return m
}
