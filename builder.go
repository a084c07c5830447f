package bannerbuilder

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log"

	"golang.org/x/sync/errgroup"
)

// Layer is one pattern overlay. Both fields are required.
type Layer struct {
	Pattern string `json:"pattern"`
	Color   string `json:"color"`
}

// Spec describes a banner: a base dye and pattern layers painted bottom to
// top in slice order.
type Spec struct {
	BaseColor string  `json:"base_color"`
	Patterns  []Layer `json:"patterns"`
}

// ParseSpec decodes the JSON form
//
//	{"base_color": "black", "patterns": [{"pattern": "gra", "color": "purple"}]}
//
// A missing "patterns" key yields no layers and a missing "base_color" key
// selects DefaultBaseColor. An explicit empty base color is kept and fails
// to render.
func ParseSpec(data []byte) (Spec, error) {
	spec := Spec{BaseColor: DefaultBaseColor}
	if err := json.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("decoding banner spec: %w", err)
	}
	return spec, nil
}

type Options struct {
	// Encoding of rendered images.
	Format Format
	// Number of stencils loaded concurrently for one render.
	// Composition itself is always sequential.
	Prefetch int
	// Log each composited layer.
	Verbose bool
}

func DefaultOptions() Options {
	return Options{
		Format:   FormatPNG,
		Prefetch: 4,
	}
}

// BannerBuilder renders banner specs. It holds no per-render state and is
// safe for concurrent use if its StencilSource is.
type BannerBuilder struct {
	Stencils StencilSource
	Options  Options
}

func NewBannerBuilder(stencils StencilSource, opt Options) *BannerBuilder {
	if opt.Prefetch <= 0 {
		opt.Prefetch = DefaultOptions().Prefetch
	}
	return &BannerBuilder{
		Stencils: stencils,
		Options:  opt,
	}
}

type resolvedLayer struct {
	id  string
	rgb color.RGBA
}

// Banner composites the layers over the base dye and returns the 20x40
// visible face at scale 1.
func (bb *BannerBuilder) Banner(baseColor string, layers []Layer) (*image.NRGBA, error) {
	base, err := ResolveColor(baseColor)
	if err != nil {
		return nil, fmt.Errorf("base color: %w", err)
	}

	// Textures of the layers before the first invalid one are still
	// loaded, so a missing texture earlier in the stack is reported first.
	resolved, resolveErr := resolveLayers(layers)
	stencils, err := bb.loadStencils(resolved)
	if err != nil {
		return nil, err
	}
	if resolveErr != nil {
		return nil, resolveErr
	}

	canvas := newBaseCanvas(base)
	for i, l := range resolved {
		CompositeOver(canvas, Tint(stencils[i], l.rgb))
		if bb.Options.Verbose {
			log.Printf("banner layer %d/%d: %s %v", i+1, len(resolved), l.id, l.rgb)
		}
	}
	return Crop(canvas, VisibleRegion), nil
}

// resolveLayers resolves layers in order up to the first invalid one. The
// returned slice holds the valid prefix.
func resolveLayers(layers []Layer) ([]resolvedLayer, error) {
	out := make([]resolvedLayer, 0, len(layers))
	for i, l := range layers {
		if l.Pattern == "" || l.Color == "" {
			return out, fmt.Errorf("layer %d: %w", i, ErrMissingPatternLayerField)
		}
		id, err := ResolvePattern(l.Pattern)
		if err != nil {
			return out, fmt.Errorf("layer %d: %w", i, err)
		}
		rgb, err := ResolveColor(l.Color)
		if err != nil {
			return out, fmt.Errorf("layer %d: %w", i, err)
		}
		out = append(out, resolvedLayer{id: id, rgb: rgb})
	}
	return out, nil
}

// loadStencils fetches the stencils of all layers concurrently. On failure
// the error of the lowest layer index is returned.
func (bb *BannerBuilder) loadStencils(layers []resolvedLayer) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(layers))
	errs := make([]error, len(layers))
	var g errgroup.Group
	g.SetLimit(bb.Options.Prefetch)
	for i, l := range layers {
		i, l := i, l
		g.Go(func() error {
			out[i], errs[i] = bb.Stencils.Stencil(l.id)
			return nil
		})
	}
	g.Wait()
	for i, err := range errs {
		if err == nil {
			err = checkStencil(out[i])
		}
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, layers[i].id, err)
		}
	}
	return out, nil
}

// MaxOutputPixels bounds the size of an upscaled render.
const MaxOutputPixels = 1 << 26

// checkScale rejects scales below 1 and scales that would magnify a w x h
// raster past MaxOutputPixels.
func checkScale(scale, w, h int) error {
	if scale < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	// scale <= limit keeps scale*scale from overflowing
	limit := MaxOutputPixels / (w * h)
	if scale > limit || scale*scale > limit {
		return fmt.Errorf("%w: %d exceeds %d output pixels", ErrInvalidScale, scale, MaxOutputPixels)
	}
	return nil
}

// RenderBanner renders the flat banner, magnified by scale, in the
// configured format.
func (bb *BannerBuilder) RenderBanner(baseColor string, layers []Layer, scale int) ([]byte, error) {
	if err := checkScale(scale, BannerWidth, BannerHeight); err != nil {
		return nil, err
	}
	img, err := bb.Banner(baseColor, layers)
	if err != nil {
		return nil, err
	}
	return bb.Options.Format.Encode(Upscale(img, scale))
}

// RenderBannerItem renders the item icon, magnified by scale, in the
// configured format.
func (bb *BannerBuilder) RenderBannerItem(baseColor string, layers []Layer, scale int) ([]byte, error) {
	if err := checkScale(scale, ItemWidth, ItemHeight); err != nil {
		return nil, err
	}
	img, err := bb.Item(baseColor, layers)
	if err != nil {
		return nil, err
	}
	return bb.Options.Format.Encode(Upscale(img, scale))
}

func (bb *BannerBuilder) RenderSpec(spec Spec, scale int) ([]byte, error) {
	return bb.RenderBanner(spec.BaseColor, spec.Patterns, scale)
}

func (bb *BannerBuilder) RenderItemSpec(spec Spec, scale int) ([]byte, error) {
	return bb.RenderBannerItem(spec.BaseColor, spec.Patterns, scale)
}

func (bb *BannerBuilder) RenderBannerFromJSON(data []byte, scale int) ([]byte, error) {
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return bb.RenderSpec(spec, scale)
}

func (bb *BannerBuilder) RenderBannerItemFromJSON(data []byte, scale int) ([]byte, error) {
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return bb.RenderItemSpec(spec, scale)
}

func (bb *BannerBuilder) RenderBannerDataURL(baseColor string, layers []Layer, scale int) (string, error) {
	data, err := bb.RenderBanner(baseColor, layers, scale)
	if err != nil {
		return "", err
	}
	return bb.Options.Format.DataURL(data), nil
}

func (bb *BannerBuilder) RenderBannerItemDataURL(baseColor string, layers []Layer, scale int) (string, error) {
	data, err := bb.RenderBannerItem(baseColor, layers, scale)
	if err != nil {
		return "", err
	}
	return bb.Options.Format.DataURL(data), nil
}
