package png

import "github.com/pkg/errors"

// Error kinds, per the PNG codec's error taxonomy. Each is a sentinel
// value: compare with errors.Is, since every failure returned by this
// package is wrapped with errors.WithStack before it reaches the caller.
var (
	ErrBadMagic        = errors.New("png: not a PNG stream (bad magic)")
	ErrTruncatedStream = errors.New("png: truncated chunk stream")
	ErrCrcMismatch     = errors.New("png: chunk CRC mismatch")
	ErrBadChunkType    = errors.New("png: chunk type is not four ASCII letters")
	ErrInvalidHeader   = errors.New("png: IHDR field outside the supported profile")
	ErrMissingPalette  = errors.New("png: color type 3 requires a PLTE chunk")
	ErrMalformedRow    = errors.New("png: malformed scanline")
	ErrCompressionErr  = errors.New("png: zlib inflate/deflate failure")
	ErrInvalidImage    = errors.New("png: inconsistent image for encoding")
)
