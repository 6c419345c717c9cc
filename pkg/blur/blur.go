// Package blur implements a separable Gaussian blur over non-premultiplied
// RGBA buffers. The same routine blurs image content and feathers redaction
// masks, so its edge handling and normalization define the output contract
// for both.
package blur

import "image"

// Gaussian convolves src with the Gaussian kernel for radius, first along
// rows and then along columns, and returns a freshly allocated buffer of
// the same dimensions. Samples outside the buffer are clamped to the
// nearest edge pixel; zero padding would bleed darkness into the borders.
// All four channels are convolved identically, which is what lets a mask's
// alpha ramp be produced by the same code path as a visual blur.
func Gaussian(src *image.NRGBA, radius int) *image.NRGBA {
	kernel := NewKernel(radius)
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	// Horizontal pass: src -> tmp
	for y := 0; y < h; y++ {
		srcRow := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		dstRow := y * tmp.Stride
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for i, weight := range kernel.Weights {
				sx := clampIndex(x+i-kernel.HalfWidth, w)
				off := srcRow + sx*4
				r += weight * float64(src.Pix[off+0])
				g += weight * float64(src.Pix[off+1])
				b += weight * float64(src.Pix[off+2])
				a += weight * float64(src.Pix[off+3])
			}
			off := dstRow + x*4
			tmp.Pix[off+0] = round255(r)
			tmp.Pix[off+1] = round255(g)
			tmp.Pix[off+2] = round255(b)
			tmp.Pix[off+3] = round255(a)
		}
	}

	// Vertical pass: tmp -> dst
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var r, g, b, a float64
			for i, weight := range kernel.Weights {
				sy := clampIndex(y+i-kernel.HalfWidth, h)
				off := sy*tmp.Stride + x*4
				r += weight * float64(tmp.Pix[off+0])
				g += weight * float64(tmp.Pix[off+1])
				b += weight * float64(tmp.Pix[off+2])
				a += weight * float64(tmp.Pix[off+3])
			}
			off := y*dst.Stride + x*4
			dst.Pix[off+0] = round255(r)
			dst.Pix[off+1] = round255(g)
			dst.Pix[off+2] = round255(b)
			dst.Pix[off+3] = round255(a)
		}
	}

	return dst
}

// clampIndex maps i into [0, n) by replicating the edge sample
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func round255(v float64) uint8 {
	v += 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
