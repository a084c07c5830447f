package bannerbuilder

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
)

// stencilImage returns a 64x64 white stencil with the given alpha wherever
// inside reports true and full transparency elsewhere.
func stencilImage(alpha uint8, inside func(x, y int) bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, CanvasSize, CanvasSize))
	for y := 0; y < CanvasSize; y++ {
		for x := 0; x < CanvasSize; x++ {
			if inside(x, y) {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, alpha})
			}
		}
	}
	return img
}

func encodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

// testStencils serves a handful of simple stencils as PNG assets.
func testStencils(t testing.TB) fstest.MapFS {
	t.Helper()
	fixtures := map[string]*image.NRGBA{
		// canvas rows 30.. are face rows 29..39
		"stripe_bottom": stencilImage(255, func(_, y int) bool { return y >= 30 }),
		// canvas rows 21.. are face rows 20..39
		"half_horizontal_bottom": stencilImage(255, func(_, y int) bool { return y >= 21 }),
		"gradient":               stencilImage(128, func(_, _ int) bool { return true }),
		"border":                 stencilImage(255, func(x, y int) bool { return x == 1 || y == 1 || x == 20 || y == 40 }),
	}
	fsys := fstest.MapFS{}
	for id, img := range fixtures {
		fsys[StencilPath(id, ".png")] = &fstest.MapFile{Data: encodePNG(t, img)}
	}
	return fsys
}

func newTestBuilder(t testing.TB) *BannerBuilder {
	t.Helper()
	return NewBannerBuilder(NewFSStencils(testStencils(t), 0), DefaultOptions())
}

func decodeNRGBA(t testing.TB, data []byte) *image.NRGBA {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	return toNRGBA(img)
}

func rgba(c color.RGBA) color.NRGBA {
	return color.NRGBA{c.R, c.G, c.B, c.A}
}
