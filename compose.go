package bannerbuilder

import (
	"image"
	"image/color"
	"math"
)

// Banner geometry. Stencils are authored on a 64x64 canvas with a one pixel
// border around the 20x40 visible face.
const (
	CanvasSize   = 64
	BannerWidth  = 20
	BannerHeight = 40
)

// VisibleRegion is the part of the working canvas kept after compositing.
var VisibleRegion = image.Rect(1, 1, 1+BannerWidth, 1+BannerHeight)

// ============ BASE CANVAS ============

func newBaseCanvas(base color.RGBA) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, CanvasSize, CanvasSize))
	px := [4]uint8{base.R, base.G, base.B, 255}
	for i := 0; i < len(canvas.Pix); i += 4 {
		copy(canvas.Pix[i:i+4], px[:])
	}
	return canvas
}

// ============ TINT ============

// Tint returns a copy of stencil whose RGB channels are scaled by c, each
// channel rounded to the nearest integer. Alpha is copied unchanged and the
// stencil itself is not modified.
func Tint(stencil *image.NRGBA, c color.RGBA) *image.NRGBA {
	b := stencil.Bounds()
	out := image.NewNRGBA(b)
	mul := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := stencil.PixOffset(b.Min.X, y)
		di := out.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			for ch := 0; ch < 3; ch++ {
				v := float64(stencil.Pix[si+ch]) * mul[ch] / 255.0
				out.Pix[di+ch] = uint8(math.Round(v))
			}
			out.Pix[di+3] = stencil.Pix[si+3]
			si += 4
			di += 4
		}
	}
	return out
}

// ============ SOURCE-OVER ============

// CompositeOver paints src over dst in place using the Porter-Duff "over"
// operator on straight (non-premultiplied) alpha. Only the overlap of the two
// bounds is touched.
func CompositeOver(dst, src *image.NRGBA) {
	r := dst.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			overPixel(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
			si += 4
			di += 4
		}
	}
}

func overPixel(d, s []uint8) {
	sa := float64(s[3]) / 255.0
	if sa == 0 {
		return
	}
	da := float64(d[3]) / 255.0
	oneMinusA := 1 - sa
	outA := sa + da*oneMinusA
	if outA <= 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}
	for ch := 0; ch < 3; ch++ {
		v := (float64(s[ch])*sa + float64(d[ch])*da*oneMinusA) / outA
		d[ch] = uint8(max(0, min(255, math.Round(v))))
	}
	d[3] = uint8(max(0, min(255, math.Round(outA*255))))
}

// ============ CROP ============

// Crop copies the pixels of r out of img into a new raster whose origin is
// (0, 0). Parts of r outside img stay transparent.
func Crop(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	src := r.Intersect(img.Bounds())
	for y := src.Min.Y; y < src.Max.Y; y++ {
		si := img.PixOffset(src.Min.X, y)
		di := out.PixOffset(src.Min.X-r.Min.X, y-r.Min.Y)
		copy(out.Pix[di:di+src.Dx()*4], img.Pix[si:si+src.Dx()*4])
	}
	return out
}

// ============ NEAREST-NEIGHBOR UPSCALE ============

// Upscale magnifies img by an integer factor, replicating every source pixel
// into an s x s block. For s <= 1 img is returned unchanged.
func Upscale(img *image.NRGBA, s int) *image.NRGBA {
	if s <= 1 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w*s, h*s))
	for y := 0; y < h * s; y++ {
		di := out.PixOffset(0, y)
		for x := 0; x < w * s; x++ {
			si := img.PixOffset(b.Min.X+x/s, b.Min.Y+y/s)
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
			di += 4
		}
	}
	return out
}
