package qoi

import (
	"bytes"
	"fmt"
)

// Decode unpacks a QOI byte stream into a flat row-major RGBA pixel buffer.
// The returned buffer always carries 4 channels per pixel; callers may drop
// alpha themselves when channels == 3 (the encoded stream carries no
// QOI_OP_RGBA chunks in that case, but Decode still reconstructs alpha=255
// throughout).
func Decode(data []byte) (width, height uint32, channels, colorspace uint8, pixels []byte, err error) {
	h, err := decodeHeader(data)
	if err != nil {
		return 0, 0, 0, 0, nil, err
	}
	if uint64(len(data)) < uint64(headerSize)+uint64(len(terminator)) {
		return 0, 0, 0, 0, nil, fmt.Errorf("%w: stream shorter than header+terminator", ErrTruncatedInput)
	}

	pixelCount := uint64(h.width) * uint64(h.height)
	out := make([]byte, 0, pixelCount*4)

	d := &decoderState{prev: startPixel}
	cursor := headerSize
	var decoded uint64

	for decoded < pixelCount {
		if cursor > len(data)-len(terminator) {
			return 0, 0, 0, 0, nil, fmt.Errorf("%w: chunk tag byte missing before terminator", ErrTruncatedInput)
		}
		tag := data[cursor]

		switch {
		case tag == opRGB:
			if cursor+4 > len(data)-len(terminator) {
				return 0, 0, 0, 0, nil, fmt.Errorf("%w: QOI_OP_RGB operand bytes missing", ErrTruncatedInput)
			}
			d.cur = pixel{r: data[cursor+1], g: data[cursor+2], b: data[cursor+3], a: d.prev.a}
			cursor += 4
			decoded += d.resolve(&out)

		case tag == opRGBA:
			if cursor+5 > len(data)-len(terminator) {
				return 0, 0, 0, 0, nil, fmt.Errorf("%w: QOI_OP_RGBA operand bytes missing", ErrTruncatedInput)
			}
			d.cur = pixel{r: data[cursor+1], g: data[cursor+2], b: data[cursor+3], a: data[cursor+4]}
			cursor += 5
			decoded += d.resolve(&out)

		case tag&tagMask == opIndex:
			d.cur = d.index.get(tag & dataMask6)
			cursor++
			decoded += d.resolveNoIndexPush(&out)

		case tag&tagMask == opDiff:
			b := tag & dataMask6
			d.cur = pixel{
				r: d.prev.r + (b>>4)&0x03 - 2,
				g: d.prev.g + (b>>2)&0x03 - 2,
				b: d.prev.b + b&0x03 - 2,
				a: d.prev.a,
			}
			cursor++
			decoded += d.resolve(&out)

		case tag&tagMask == opLuma:
			if cursor+2 > len(data)-len(terminator) {
				return 0, 0, 0, 0, nil, fmt.Errorf("%w: QOI_OP_LUMA operand byte missing", ErrTruncatedInput)
			}
			b2 := data[cursor+1]
			dg := int8(tag&dataMask6) - 32
			drDg := int8((b2>>4)&0x0F) - 8
			dbDg := int8(b2&0x0F) - 8
			d.cur = pixel{
				r: uint8(int8(d.prev.r) + dg + drDg),
				g: uint8(int8(d.prev.g) + dg),
				b: uint8(int8(d.prev.b) + dg + dbDg),
				a: d.prev.a,
			}
			cursor += 2
			decoded += d.resolve(&out)

		case tag&tagMask == opRun:
			runLen := uint64(tag&dataMask6) + 1
			if decoded+runLen > pixelCount {
				return 0, 0, 0, 0, nil, fmt.Errorf("%w: run overruns pixel count", ErrPixelCountMismatch)
			}
			for i := uint64(0); i < runLen; i++ {
				out = append(out, d.prev.r, d.prev.g, d.prev.b, d.prev.a)
			}
			cursor++
			decoded += runLen
		}
	}

	if decoded != pixelCount {
		return 0, 0, 0, 0, nil, fmt.Errorf("%w: decoded %d pixels, want %d", ErrPixelCountMismatch, decoded, pixelCount)
	}
	if cursor != len(data)-len(terminator) {
		return 0, 0, 0, 0, nil, fmt.Errorf("%w: %d trailing bytes before terminator", ErrTerminatorMismatch, len(data)-len(terminator)-cursor)
	}
	if !bytes.Equal(data[cursor:], terminator[:]) {
		return 0, 0, 0, 0, nil, fmt.Errorf("%w: trailer is %v, want %v", ErrTerminatorMismatch, data[cursor:], terminator)
	}

	return h.width, h.height, h.channels, h.colorspace, out, nil
}

// decoderState carries the previous pixel and running index across the
// chunk dispatch loop. It is scoped to a single Decode call.
type decoderState struct {
	prev  pixel
	cur   pixel
	index runningIndex
}

// resolve appends d.cur to out, pushes it into the running index, and
// advances the previous-pixel register. Used by every chunk form except
// QOI_OP_INDEX (which must not re-push an already-equal slot) and
// QOI_OP_RUN (handled inline, since it produces many pixels at once).
func (d *decoderState) resolve(out *[]byte) uint64 {
	*out = append(*out, d.cur.r, d.cur.g, d.cur.b, d.cur.a)
	d.index.set(d.cur)
	d.prev = d.cur
	return 1
}

// resolveNoIndexPush is resolve without the running-index write, for
// QOI_OP_INDEX: the slot already equals d.cur by construction.
func (d *decoderState) resolveNoIndexPush(out *[]byte) uint64 {
	*out = append(*out, d.cur.r, d.cur.g, d.cur.b, d.cur.a)
	d.prev = d.cur
	return 1
}
