package bannerbuilder

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBaseColor is used when a spec omits its base color.
const DefaultBaseColor = "white"

type dye struct {
	name string
	rgb  color.RGBA
}

// Dye colors in registry order.
var dyes = []dye{
	{"white", color.RGBA{249, 255, 254, 255}},
	{"orange", color.RGBA{249, 128, 29, 255}},
	{"magenta", color.RGBA{199, 78, 189, 255}},
	{"light_blue", color.RGBA{58, 179, 218, 255}},
	{"yellow", color.RGBA{254, 216, 61, 255}},
	{"lime", color.RGBA{128, 199, 31, 255}},
	{"pink", color.RGBA{243, 139, 170, 255}},
	{"gray", color.RGBA{71, 79, 82, 255}},
	{"light_gray", color.RGBA{157, 157, 151, 255}},
	{"cyan", color.RGBA{22, 156, 156, 255}},
	{"purple", color.RGBA{137, 50, 184, 255}},
	{"blue", color.RGBA{60, 68, 170, 255}},
	{"brown", color.RGBA{131, 84, 50, 255}},
	{"green", color.RGBA{94, 124, 22, 255}},
	{"red", color.RGBA{176, 46, 38, 255}},
	{"black", color.RGBA{29, 29, 33, 255}},
}

type pattern struct {
	alias string
	id    string
}

// Patterns in registry order. The enumeration name of each pattern is its
// id upper-cased.
var patterns = []pattern{
	{"bs", "stripe_bottom"},
	{"ts", "stripe_top"},
	{"ls", "stripe_left"},
	{"rs", "stripe_right"},
	{"cs", "stripe_center"},
	{"ms", "stripe_middle"},
	{"drs", "stripe_downright"},
	{"dls", "stripe_downleft"},
	{"ss", "small_stripes"},
	{"cr", "cross"},
	{"sc", "straight_cross"},
	{"bt", "triangle_bottom"},
	{"tt", "triangle_top"},
	{"bts", "triangles_bottom"},
	{"tts", "triangles_top"},
	{"ld", "diagonal_left"},
	{"rd", "diagonal_up_left"},
	{"lud", "diagonal_up_right"},
	{"rud", "diagonal_right"},
	{"mc", "circle"},
	{"mr", "rhombus"},
	{"vh", "half_vertical"},
	{"hh", "half_horizontal"},
	{"vhr", "half_vertical_right"},
	{"hhb", "half_horizontal_bottom"},
	{"bl", "square_bottom_left"},
	{"br", "square_bottom_right"},
	{"tl", "square_top_left"},
	{"tr", "square_top_right"},
	{"bo", "border"},
	{"cbo", "curly_border"},
	{"bri", "bricks"},
	{"gra", "gradient"},
	{"gru", "gradient_up"},
	{"cre", "creeper"},
	{"sku", "skull"},
	{"flo", "flower"},
	{"moj", "mojang"},
	{"glb", "globe"},
	{"pig", "piglin"},
	{"flw", "flow"},
	{"gus", "guster"},
}

// Lookup tables built once at init and only read afterwards.
var (
	dyeByName      = make(map[string]color.RGBA, len(dyes))
	patternByAlias = make(map[string]string, len(patterns))
	patternByID    = make(map[string]string, len(patterns))
	patternByEnum  = make(map[string]string, len(patterns))
)

func init() {
	for _, d := range dyes {
		dyeByName[d.name] = d.rgb
	}
	for _, p := range patterns {
		patternByAlias[p.alias] = p.id
		patternByID[p.id] = p.id
		patternByEnum[strings.ToUpper(p.id)] = p.id
	}
}

// ResolveColor returns the RGB value of a dye name. Matching is
// case-insensitive. The returned color is always opaque.
func ResolveColor(name string) (color.RGBA, error) {
	c, ok := dyeByName[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, name)
	}
	return c, nil
}

// ResolvePattern maps a short alias ("gra"), a canonical id ("gradient") or
// an enumeration name ("GRADIENT", matched case-insensitively) to the
// canonical pattern id. Aliases take precedence over ids, ids over
// enumeration names.
func ResolvePattern(token string) (string, error) {
	if id, ok := patternByAlias[token]; ok {
		return id, nil
	}
	if id, ok := patternByID[token]; ok {
		return id, nil
	}
	if id, ok := patternByEnum[strings.ToUpper(token)]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPattern, token)
}

// AvailableColors returns the registered dye names in registry order.
func AvailableColors() []string {
	out := make([]string, len(dyes))
	for i, d := range dyes {
		out[i] = d.name
	}
	return out
}

// AvailablePatternAliases returns the short pattern codes in registry order.
func AvailablePatternAliases() []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.alias
	}
	return out
}

// AvailablePatterns returns the canonical pattern ids in registry order.
func AvailablePatterns() []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = p.id
	}
	return out
}

// NearestColor returns the registered dye closest to c by CIE Lab distance.
// Alpha is ignored.
func NearestColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	target := colorful.Color{
		R: float64(r>>8) / 255.0,
		G: float64(g>>8) / 255.0,
		B: float64(b>>8) / 255.0,
	}
	best := dyes[0].name
	bestD := -1.0
	for _, d := range dyes {
		col, _ := colorful.MakeColor(d.rgb)
		dist := target.DistanceLab(col)
		if bestD < 0 || dist < bestD {
			bestD = dist
			best = d.name
		}
	}
	return best
}
