package bannerbuilder

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format selects the encoding of rendered images.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return "png"
	}
}

// MIMEType is the media type used in data URLs.
func (f Format) MIMEType() string {
	return "image/" + f.String()
}

// Encode writes img in format f.
func (f Format) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatPNG:
		err = png.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("unknown image format %d", int(f))
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// DataURL wraps encoded image bytes as data:<mime>;base64,<payload>.
func (f Format) DataURL(data []byte) string {
	return "data:" + f.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(data)
}
