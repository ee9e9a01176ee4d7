package qoi

import "errors"

// Sentinel error kinds, wrapped with fmt.Errorf("%w: ...") at the call site
// so callers can errors.Is against a stable value instead of matching
// strings.
var (
	// ErrMalformedHeader covers a bad magic, an out-of-range channel count,
	// or an out-of-range colorspace tag.
	ErrMalformedHeader = errors.New("qoi: malformed header")

	// ErrTruncatedInput covers a stream shorter than the header plus
	// terminator, or a chunk whose operand bytes are missing.
	ErrTruncatedInput = errors.New("qoi: truncated input")

	// ErrTerminatorMismatch means the final 8 bytes are not the canonical
	// zero/one pattern.
	ErrTerminatorMismatch = errors.New("qoi: terminator mismatch")

	// ErrPixelCountMismatch means decode produced a different pixel count
	// than width*height.
	ErrPixelCountMismatch = errors.New("qoi: pixel count mismatch")

	// ErrInvalidMetadata covers an encode call whose pixel buffer length is
	// inconsistent with width*height*bytes_per_pixel, or zero width/height.
	ErrInvalidMetadata = errors.New("qoi: invalid metadata")
)
