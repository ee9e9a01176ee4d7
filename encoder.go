package qoi

import (
	"bytes"
	"fmt"
)

// Encode packs a flat row-major pixel buffer into a QOI byte stream.
//
// pixels holds pixelCount*bytesPerPixel bytes, where pixelCount =
// width*height and bytesPerPixel is 3 (RGB, alpha implied 255) or 4 (RGBA)
// depending on channels. Encode is total over any metadata that passes
// validation: every legal pixel sequence encodes successfully.
func Encode(pixels []byte, width, height uint32, channels, colorspace uint8) ([]byte, error) {
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: channels must be 3 or 4, got %d", ErrInvalidMetadata, channels)
	}
	if colorspace != 0 && colorspace != 1 {
		return nil, fmt.Errorf("%w: colorspace must be 0 or 1, got %d", ErrInvalidMetadata, colorspace)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: width and height must be non-zero", ErrInvalidMetadata)
	}
	pixelCount := uint64(width) * uint64(height)
	bpp := uint64(channels)
	if uint64(len(pixels)) != pixelCount*bpp {
		return nil, fmt.Errorf("%w: expected %d bytes for %dx%d at %d channels, got %d",
			ErrInvalidMetadata, pixelCount*bpp, width, height, channels, len(pixels))
	}

	var out bytes.Buffer
	out.Grow(headerSize + int(pixelCount) + len(terminator))
	out.Write(encodeHeader(header{width: width, height: height, channels: channels, colorspace: colorspace}))

	e := &encoderState{prev: startPixel}
	for i := uint64(0); i < pixelCount; i++ {
		off := i * bpp
		cur := pixel{r: pixels[off], g: pixels[off+1], b: pixels[off+2], a: 255}
		if channels == 4 {
			cur.a = pixels[off+3]
		}
		e.step(&out, cur)
	}
	e.flush(&out)

	out.Write(terminator[:])
	return out.Bytes(), nil
}

// encoderState carries the previous pixel, running index, and run counter
// across the per-pixel decision procedure. It is scoped to a single Encode
// call.
type encoderState struct {
	prev  pixel
	index runningIndex
	run   int
}

// step applies the per-pixel decision procedure (spec precedence order):
// run continuation, run flush, index hit, same-alpha diff/luma/rgb,
// different-alpha rgba.
func (e *encoderState) step(out *bytes.Buffer, cur pixel) {
	if cur.equals(e.prev) {
		e.run++
		if e.run == 62 {
			out.WriteByte(packRun(62))
			e.run = 0
		}
		return
	}
	if e.run > 0 {
		out.WriteByte(packRun(e.run))
		e.run = 0
	}

	h := hash(cur)
	if e.index[h].equals(cur) {
		out.WriteByte(opIndex | h)
		e.prev = cur
		return
	}

	if cur.a == e.prev.a {
		dr := wrapDelta(cur.r, e.prev.r)
		dg := wrapDelta(cur.g, e.prev.g)
		db := wrapDelta(cur.b, e.prev.b)
		switch {
		case diffFits(dr, dg, db):
			out.WriteByte(packDiff(dr, dg, db))
		case lumaFits(dg, dr-dg, db-dg):
			lb := packLuma(dg, dr-dg, db-dg)
			out.WriteByte(lb[0])
			out.WriteByte(lb[1])
		default:
			out.WriteByte(opRGB)
			out.WriteByte(cur.r)
			out.WriteByte(cur.g)
			out.WriteByte(cur.b)
		}
	} else {
		out.WriteByte(opRGBA)
		out.WriteByte(cur.r)
		out.WriteByte(cur.g)
		out.WriteByte(cur.b)
		out.WriteByte(cur.a)
	}
	e.index.set(cur)
	e.prev = cur
}

// flush emits a trailing QOI_OP_RUN if a run was in progress when the pixel
// sequence ended.
func (e *encoderState) flush(out *bytes.Buffer) {
	if e.run > 0 {
		out.WriteByte(packRun(e.run))
		e.run = 0
	}
}
