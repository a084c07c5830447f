package bannerbuilder

import (
	"image"
	"image/color"
	"math"
)

// Item icon geometry. The icon adds a pole above the banner and a one pixel
// bevel on the right and bottom.
const (
	PoleWidth  = 2
	PoleHeight = 2
	ItemDepth  = 1
	ItemWidth  = BannerWidth + ItemDepth
	ItemHeight = BannerHeight + PoleHeight + ItemDepth

	rightEdgeShade  = 0.6
	bottomEdgeShade = 0.8
)

var (
	poleColor     = color.NRGBA{131, 84, 50, 255}
	poleCapColor  = color.NRGBA{115, 73, 43, 255}
	poleSideColor = color.NRGBA{98, 63, 37, 255}
)

// Item renders the banner as a held item at scale 1: pole, flat banner and a
// darkened copy of the right column and bottom row shifted diagonally by one
// pixel. Pixels not covered stay transparent.
func (bb *BannerBuilder) Item(baseColor string, layers []Layer) (*image.NRGBA, error) {
	banner, err := bb.Banner(baseColor, layers)
	if err != nil {
		return nil, err
	}
	return itemFromBanner(banner), nil
}

func itemFromBanner(banner *image.NRGBA) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, ItemWidth, ItemHeight))

	// Pole
	poleX := (ItemWidth - PoleWidth) / 2
	for y := 0; y < PoleHeight; y++ {
		for x := 0; x < PoleWidth; x++ {
			setOpaque(canvas, poleX+x, y, poleColor)
		}
	}
	setOpaque(canvas, poleX+PoleWidth, 0, poleCapColor)
	for y := 0; y < PoleHeight; y++ {
		setOpaque(canvas, poleX+PoleWidth, y+1, poleSideColor)
	}

	// Face
	for y := 0; y < BannerHeight; y++ {
		for x := 0; x < BannerWidth; x++ {
			setOpaque(canvas, x, PoleHeight+y, banner.NRGBAAt(x, y))
		}
	}

	// Right bevel, one row lower than its source.
	for y := 0; y < BannerHeight; y++ {
		c := shade(banner.NRGBAAt(BannerWidth-1, y), rightEdgeShade)
		setOpaque(canvas, BannerWidth, PoleHeight+y+1, c)
	}

	// Bottom bevel, one column right of its source.
	for x := 0; x < BannerWidth; x++ {
		c := shade(banner.NRGBAAt(x, BannerHeight-1), bottomEdgeShade)
		setOpaque(canvas, x+1, PoleHeight+BannerHeight, c)
	}
	return canvas
}

// setOpaque writes c unless it is fully transparent or outside img.
func setOpaque(img *image.NRGBA, x, y int, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	if !(image.Point{x, y}.In(img.Bounds())) {
		return
	}
	img.SetNRGBA(x, y, c)
}

// shade scales RGB by f, rounding down. Alpha is kept.
func shade(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Floor(float64(c.R) * f)),
		G: uint8(math.Floor(float64(c.G) * f)),
		B: uint8(math.Floor(float64(c.B) * f)),
		A: c.A,
	}
}
