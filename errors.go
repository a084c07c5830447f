package bannerbuilder

import "errors"

// Domain errors. Returned errors wrap one of these together with the
// offending value; use errors.Is to test for them. Failures of the stencil
// store or the encoder are never reported as one of these.
var (
	ErrInvalidColor             = errors.New("invalid color")
	ErrInvalidPattern           = errors.New("invalid pattern")
	ErrMissingPatternLayerField = errors.New(`each pattern must have "pattern" and "color" properties`)
	ErrPatternTextureNotFound   = errors.New("pattern texture not found")
	ErrInvalidScale             = errors.New("invalid scale")
)
