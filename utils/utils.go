package utils

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/floats"

	"github.com/setanarut/bannerbuilder"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

var paletteMethodNames = [...]string{
	PaletteMethodDominantColor: "dominantcolor",
	PaletteMethodKMeans:        "kmeans",
}

func (m PaletteMethod) String() string {
	if m < 0 || int(m) >= len(paletteMethodNames) {
		return "PaletteMethod(" + strconv.Itoa(int(m)) + ")"
	}
	return paletteMethodNames[m]
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByLightness orders colors by CIE L*, darkest first, so the
// entry closest to a dark base dye leads.
func SortPaletteByLightness(palette []colorful.Color) {
	slices.SortStableFunc(palette, func(a, b colorful.Color) int {
		la, _, _ := a.Lab()
		lb, _, _ := b.Lab()
		return cmp.Compare(la, lb)
	})
}

// BannerPalette returns up to k representative colors of a rendered banner
// or item icon, darkest first. Transparent pixels (the item's background) are
// ignored by the k-means method, which falls back to dominantcolor when it
// finds nothing.
func BannerPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	var p []colorful.Color
	if method == PaletteMethodKMeans {
		p = ExtractKMeansPalette(img, k)
		if len(p) == 0 {
			log.Println("palette warning: no opaque banner pixels clustered, falling back to dominantcolor")
		}
	}
	if len(p) == 0 {
		p = ExtractDominantPalette(img, k)
	}
	SortPaletteByLightness(p)
	return p
}

// DominantDyes names the registered dyes that best describe a rendered
// banner, darkest first.
func DominantDyes(img image.Image, k int, method PaletteMethod) []string {
	return MatchDyes(BannerPalette(img, k, method))
}

// MatchDyes maps every palette color to the nearest registered dye name.
// Duplicates are dropped, first occurrence wins.
func MatchDyes(palette []colorful.Color) []string {
	out := make([]string, 0, len(palette))
	for _, c := range palette {
		name := bannerbuilder.NearestColor(c.Clamped())
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	candidates := dominantcolor.FindWeight(img, max(8, k*4))
	if len(candidates) == 0 {
		return nil
	}

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	b := img.Bounds()
	dataset := make(clusters.Observations, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(k*2, len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}

	// Most populated clusters first.
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// SelectDiverseWeightedColors greedily picks k colors, starting from the
// heaviest and preferring candidates far (in Lab) from those already picked.
func SelectDiverseWeightedColors(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab []float64
		w   float64
	}
	items := make([]item, len(cands))
	maxW := 0.0
	for i, c := range cands {
		col := c.Col.Clamped()
		l, a, b := col.Lab()
		items[i] = item{col: col, lab: []float64{l, a, b}, w: max(c.Weight, 1e-6)}
		maxW = max(maxW, items[i].w)
	}
	k = min(k, len(items))

	selected := make([]bool, len(items))
	picked := make([]int, 0, k)

	seed := 0
	for i := range items {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	selected[seed] = true
	picked = append(picked, seed)

	for len(picked) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD := math.MaxFloat64
			for _, s := range picked {
				minD = min(minD, floats.Distance(items[i].lab, items[s].lab, 2))
			}
			score := minD * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		picked = append(picked, bestIdx)
	}

	out := make([]colorful.Color, len(picked))
	for i, idx := range picked {
		out[i] = items[idx].col
	}
	return out
}

// ReadImage decodes a PNG, BMP or TIFF file, such as a stencil asset or a
// saved render.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img in format f and writes it to filename.
func SaveImage(img image.Image, f bannerbuilder.Format, filename string) error {
	data, err := f.Encode(img)
	if err != nil {
		return err
	}
	return SaveBytes(data, filename)
}

// SaveBytes writes already encoded image data.
func SaveBytes(data []byte, filename string) error {
	return os.WriteFile(filename, data, 0644)
}

// SavePalette writes the palette as a strip of square swatches.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 16
	}

	img := image.NewRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		x0 := i * tileSize
		for y := 0; y < tileSize; y++ {
			for x := x0; x < x0+tileSize; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return SaveImage(img, bannerbuilder.FormatPNG, filename)
}
