// Package compose blends a blurred layer over an accumulating output
// buffer through a per-pixel opacity mask.
package compose

import (
	"fmt"
	"image"
)

// Blend alpha-blends blurred over dst in place, using the mask's alpha
// channel as the blend factor: out = lerp(out, blurred, a/255). Fully
// opaque mask pixels take the blurred value exactly, fully transparent
// ones leave dst untouched. Buffers of mismatched dimensions are a
// programmer error and panic rather than being silently resized.
func Blend(dst, blurred, mask *image.NRGBA) {
	if !sameSize(dst, blurred) || !sameSize(dst, mask) {
		panic(fmt.Sprintf("compose: dimension mismatch dst=%v blurred=%v mask=%v",
			dst.Bounds(), blurred.Bounds(), mask.Bounds()))
	}

	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		dstRow := dst.PixOffset(b.Min.X, b.Min.Y+y)
		blurRow := blurred.PixOffset(blurred.Rect.Min.X, blurred.Rect.Min.Y+y)
		maskRow := mask.PixOffset(mask.Rect.Min.X, mask.Rect.Min.Y+y)

		for x := 0; x < w; x++ {
			a := uint32(mask.Pix[maskRow+x*4+3])
			if a == 0 {
				continue
			}

			dOff := dstRow + x*4
			bOff := blurRow + x*4
			if a == 255 {
				copy(dst.Pix[dOff:dOff+4], blurred.Pix[bOff:bOff+4])
				continue
			}

			for c := 0; c < 4; c++ {
				o := uint32(dst.Pix[dOff+c])
				v := uint32(blurred.Pix[bOff+c])
				dst.Pix[dOff+c] = uint8((o*(255-a) + v*a + 127) / 255)
			}
		}
	}
}

func sameSize(a, b *image.NRGBA) bool {
	return a.Bounds().Dx() == b.Bounds().Dx() && a.Bounds().Dy() == b.Bounds().Dy()
}
