package regmap

import "errors"

// Codec and table errors.
var (
	ErrShortBuffer     = errors.New("buffer too short")
	ErrDecodeOnly      = errors.New("contents kind is decode-only")
	ErrUnknownContents = errors.New("unknown contents kind")
	ErrInvalidTable    = errors.New("invalid register table")
	ErrNotFound        = errors.New("register not found")
	ErrAmbiguous       = errors.New("ambiguous register path")
	ErrInvalidPath     = errors.New("invalid register path")
)
