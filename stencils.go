package bannerbuilder

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"path"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// StencilSource returns the stencil texture for a canonical pattern id.
// Implementations must be safe for concurrent use and must report a missing
// texture with an error wrapping ErrPatternTextureNotFound. The returned
// raster is shared and must not be modified.
type StencilSource interface {
	Stencil(id string) (*image.NRGBA, error)
}

type stencilCodec struct {
	ext    string
	decode func(io.Reader) (image.Image, error)
}

// Asset extensions in lookup order.
var stencilCodecs = []stencilCodec{
	{".png", png.Decode},
	{".bmp", bmp.Decode},
	{".tiff", tiff.Decode},
}

// DefaultStencilCacheSize holds every registered pattern.
const DefaultStencilCacheSize = 64

// FSStencils loads stencils from patterns/<id>.<ext> inside a file system and
// keeps decoded textures in an LRU cache.
type FSStencils struct {
	fsys  fs.FS
	cache *lru.Cache[string, *image.NRGBA]
}

// NewFSStencils returns a stencil source reading from fsys. A cacheSize of
// zero or less selects DefaultStencilCacheSize.
func NewFSStencils(fsys fs.FS, cacheSize int) *FSStencils {
	if cacheSize <= 0 {
		cacheSize = DefaultStencilCacheSize
	}
	cache, err := lru.New[string, *image.NRGBA](cacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &FSStencils{fsys: fsys, cache: cache}
}

// StencilPath is the slash-separated asset path for a pattern id and extension.
func StencilPath(id, ext string) string {
	return path.Join("patterns", id+ext)
}

func (s *FSStencils) Stencil(id string) (*image.NRGBA, error) {
	if img, ok := s.cache.Get(id); ok {
		return img, nil
	}
	for _, c := range stencilCodecs {
		p := StencilPath(id, c.ext)
		f, err := s.fsys.Open(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("opening stencil %s: %w", p, err)
		}
		img, err := c.decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding stencil %s: %w", p, err)
		}
		nrgba := toNRGBA(img)
		if err := checkStencil(nrgba); err != nil {
			return nil, fmt.Errorf("stencil %s: %w", p, err)
		}
		s.cache.Add(id, nrgba)
		return nrgba, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPatternTextureNotFound, StencilPath(id, stencilCodecs[0].ext))
}

// Len reports the number of cached stencils.
func (s *FSStencils) Len() int {
	return s.cache.Len()
}

// checkStencil reports a missing stencil or one that does not cover exactly
// the working canvas.
func checkStencil(img *image.NRGBA) error {
	if img == nil {
		return errors.New("stencil source returned no image")
	}
	if b := img.Bounds(); b != image.Rect(0, 0, CanvasSize, CanvasSize) {
		return fmt.Errorf("stencil bounds %v, want %dx%d", b, CanvasSize, CanvasSize)
	}
	return nil
}

// toNRGBA returns img as a straight-alpha raster with origin (0, 0).
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetNRGBA(x, y, color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
		}
	}
	return out
}
