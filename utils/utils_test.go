package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/setanarut/bannerbuilder"
)

// twoTone returns a 20x40 face whose top half is c1 and bottom half c2.
func twoTone(c1, c2 color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			c := c1
			if y >= 20 {
				c = c2
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.NRGBA{176, 46, 38, 255}
	blue = color.NRGBA{60, 68, 170, 255}
)

func TestMatchDyes(t *testing.T) {
	c1, _ := colorful.MakeColor(red)
	c2, _ := colorful.MakeColor(blue)
	got := MatchDyes([]colorful.Color{c1, c2, c1})
	if !slices.Equal(got, []string{"red", "blue"}) {
		t.Errorf("got %v", got)
	}
}

func TestBannerPalette(t *testing.T) {
	img := twoTone(red, red)
	for _, m := range []PaletteMethod{PaletteMethodKMeans, PaletteMethodDominantColor} {
		t.Run(m.String(), func(t *testing.T) {
			palette := BannerPalette(img, 2, m)
			if len(palette) == 0 {
				t.Fatal("empty palette")
			}
			if dyes := MatchDyes(palette); !slices.Equal(dyes, []string{"red"}) {
				t.Errorf("got %v", dyes)
			}
		})
	}
}

func TestExtractKMeansPaletteIgnoresTransparent(t *testing.T) {
	if p := ExtractKMeansPalette(image.NewNRGBA(image.Rect(0, 0, 4, 4)), 2); p != nil {
		t.Errorf("got %v for a transparent image", p)
	}

	palette := ExtractKMeansPalette(twoTone(blue, color.NRGBA{}), 3)
	if dyes := MatchDyes(palette); !slices.Equal(dyes, []string{"blue"}) {
		t.Errorf("got %v", dyes)
	}
}

func TestSortPaletteByLightness(t *testing.T) {
	p := []colorful.Color{{R: 1, G: 1, B: 1}, {R: 0, G: 0, B: 0}, {R: 0.5, G: 0.5, B: 0.5}}
	SortPaletteByLightness(p)
	if p[0].R != 0 || p[1].R != 0.5 || p[2].R != 1 {
		t.Errorf("got %v", p)
	}
}

func TestDominantDyes(t *testing.T) {
	// an item-like image: transparent background around a blue face
	img := twoTone(color.NRGBA{}, blue)
	if got := DominantDyes(img, 3, PaletteMethodKMeans); !slices.Equal(got, []string{"blue"}) {
		t.Errorf("got %v", got)
	}
}

func TestPaletteMethodString(t *testing.T) {
	cases := map[PaletteMethod]string{
		PaletteMethodDominantColor: "dominantcolor",
		PaletteMethodKMeans:        "kmeans",
		PaletteMethod(7):           "PaletteMethod(7)",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestSavePalette(t *testing.T) {
	name := filepath.Join(t.TempDir(), "palette.png")
	if err := SavePalette(nil, 8, name); err == nil {
		t.Error("expected error for empty palette")
	}
	if err := SavePalette([]colorful.Color{{R: 1}, {B: 1}}, 8, name); err != nil {
		t.Fatal(err)
	}
	img, err := ReadImage(name)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Errorf("bounds %v", img.Bounds())
	}
}

func TestSaveImageFormats(t *testing.T) {
	face := twoTone(red, blue)
	for _, f := range []bannerbuilder.Format{bannerbuilder.FormatPNG, bannerbuilder.FormatBMP, bannerbuilder.FormatTIFF} {
		name := filepath.Join(t.TempDir(), "face."+f.String())
		if err := SaveImage(face, f, name); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		img, err := ReadImage(name)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if got := color.NRGBAModel.Convert(img.At(0, 39)); got != blue {
			t.Errorf("%s: got %v, want %v", f, got, blue)
		}
	}
}
