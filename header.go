package qoi

import (
	"encoding/binary"
	"fmt"
)

// Magic is the 4-byte signature every encoded QOI stream begins with.
const Magic = "qoif"

// headerSize is the fixed size of the QOI file header in bytes.
const headerSize = 14

// terminator is the 8-byte trailer marking end of stream.
var terminator = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

type header struct {
	width, height uint32
	channels      uint8
	colorspace    uint8
}

func (h header) hasAlpha() bool {
	return h.channels == 4
}

func (h header) allLinear() bool {
	return h.colorspace == 1
}

// encodeHeader packs h into its 14-byte wire form. It is a pure function of
// its fields; it does not re-validate width/height beyond the uint32 range
// already enforced by the field type.
func encodeHeader(h header) []byte {
	buf := make([]byte, 0, headerSize)
	buf = append(buf, Magic...)
	buf = binary.BigEndian.AppendUint32(buf, h.width)
	buf = binary.BigEndian.AppendUint32(buf, h.height)
	buf = append(buf, h.channels, h.colorspace)
	return buf
}

// decodeHeader parses and validates the leading 14 bytes of buf.
func decodeHeader(buf []byte) (header, error) {
	if len(buf) < headerSize {
		return header{}, fmt.Errorf("%w: need %d header bytes, got %d", ErrTruncatedInput, headerSize, len(buf))
	}
	if string(buf[0:4]) != Magic {
		return header{}, fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, buf[0:4])
	}
	channels := buf[12]
	colorspace := buf[13]
	if channels != 3 && channels != 4 {
		return header{}, fmt.Errorf("%w: channels must be 3 or 4, got %d", ErrMalformedHeader, channels)
	}
	if colorspace != 0 && colorspace != 1 {
		return header{}, fmt.Errorf("%w: colorspace must be 0 or 1, got %d", ErrMalformedHeader, colorspace)
	}
	width := binary.BigEndian.Uint32(buf[4:8])
	height := binary.BigEndian.Uint32(buf[8:12])
	if width == 0 || height == 0 {
		return header{}, fmt.Errorf("%w: width and height must be non-zero", ErrMalformedHeader)
	}
	return header{
		width:      width,
		height:     height,
		channels:   channels,
		colorspace: colorspace,
	}, nil
}
