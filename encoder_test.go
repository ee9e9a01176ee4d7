package qoi

import (
	"bytes"
	"testing"
)

func rgba(pixels ...pixel) []byte {
	buf := make([]byte, 0, len(pixels)*4)
	for _, p := range pixels {
		buf = append(buf, p.r, p.g, p.b, p.a)
	}
	return buf
}

// S2: single RGB pixel, width=height=1, pixel=(10,100,200), all_linear=false.
func TestEncodeS2(t *testing.T) {
	pixels := []byte{10, 100, 200}
	got, err := Encode(pixels, 1, 1, 3, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := append(encodeHeader(header{width: 1, height: 1, channels: 3, colorspace: 0}), 0xFE, 0x0A, 0x64, 0xC8)
	want = append(want, terminator[:]...)
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X\nwant    % X", got, want)
	}
	if len(got) != 26 {
		t.Errorf("len(Encode(...)) = %d, want 26", len(got))
	}
}

// S3: single RGBA pixel, width=height=1, pixel=(10,100,200,50).
func TestEncodeS3(t *testing.T) {
	pixels := []byte{10, 100, 200, 50}
	got, err := Encode(pixels, 1, 1, 4, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := append(encodeHeader(header{width: 1, height: 1, channels: 4, colorspace: 0}), 0xFF, 0x0A, 0x64, 0xC8, 0x32)
	want = append(want, terminator[:]...)
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X\nwant    % X", got, want)
	}
}

func chunkBytes(t *testing.T, pixels []pixel) []byte {
	t.Helper()
	var out bytes.Buffer
	e := &encoderState{prev: startPixel}
	for _, p := range pixels {
		e.step(&out, p)
	}
	e.flush(&out)
	return out.Bytes()
}

// Runs of exactly 62 flush in one QOI_OP_RUN.
func TestRunExactly62(t *testing.T) {
	p := pixel{0, 0, 0, 255} // equals the start pixel, so every pixel extends the run
	pixels := make([]pixel, 62)
	for i := range pixels {
		pixels[i] = p
	}
	got := chunkBytes(t, pixels)
	want := []byte{packRun(62)}
	if !bytes.Equal(got, want) {
		t.Errorf("62-run chunk bytes = % X, want % X", got, want)
	}
}

// Runs of 63 split 62+1.
func TestRunSplits63(t *testing.T) {
	p := pixel{0, 0, 0, 255} // equals the start pixel, so every pixel extends the run
	pixels := make([]pixel, 63)
	for i := range pixels {
		pixels[i] = p
	}
	got := chunkBytes(t, pixels)
	want := []byte{packRun(62), packRun(1)}
	if !bytes.Equal(got, want) {
		t.Errorf("63-run chunk bytes = % X, want % X", got, want)
	}
}

// Runs of 124 split 62+62.
func TestRunSplits124(t *testing.T) {
	p := pixel{0, 0, 0, 255} // equals the start pixel, so every pixel extends the run
	pixels := make([]pixel, 124)
	for i := range pixels {
		pixels[i] = p
	}
	got := chunkBytes(t, pixels)
	want := []byte{packRun(62), packRun(62)}
	if !bytes.Equal(got, want) {
		t.Errorf("124-run chunk bytes = % X, want % X", got, want)
	}
}

// A pixel exactly equal to the initial previous (0,0,0,255) as the first
// pixel encodes as a single QOI_OP_RUN(1), not QOI_OP_INDEX.
func TestFirstPixelEqualsStartEncodesAsRun(t *testing.T) {
	got := chunkBytes(t, []pixel{{0, 0, 0, 255}})
	want := []byte{packRun(1)}
	if !bytes.Equal(got, want) {
		t.Errorf("chunk bytes = % X, want % X", got, want)
	}
}

// The first non-previous pixel after a run flushes the run before emitting
// the pixel's own chunk.
func TestRunFlushesBeforeNextChunk(t *testing.T) {
	same := pixel{0, 0, 0, 255}        // equals the start pixel, so all three are run pixels
	different := pixel{200, 1, 1, 255} // forces QOI_OP_RGB (too far for diff/luma)
	got := chunkBytes(t, []pixel{same, same, same, different})
	if len(got) < 2 {
		t.Fatalf("expected at least a run chunk and an RGB chunk, got % X", got)
	}
	if got[0] != packRun(3) {
		t.Errorf("first chunk = %#02x, want packRun(3) = %#02x", got[0], packRun(3))
	}
	if got[1] != opRGB {
		t.Errorf("second chunk tag = %#02x, want opRGB = %#02x", got[1], opRGB)
	}
}

// channel_count=3 inputs: encoder treats alpha as 255 throughout; encoded
// stream must contain no QOI_OP_RGBA chunks, since alpha can never differ
// from the previous pixel's alpha (always 255).
func TestChannels3NeverEmitsRGBA(t *testing.T) {
	pixels := []byte{
		10, 20, 30,
		200, 5, 250,
		1, 1, 1,
		10, 20, 30,
	}
	out, err := Encode(pixels, 2, 2, 3, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	body := out[headerSize : len(out)-len(terminator)]
	for i := 0; i < len(body); {
		tag := body[i]
		if tag == opRGBA {
			t.Fatalf("found QOI_OP_RGBA tag at offset %d in a channels=3 stream", i)
		}
		switch {
		case tag == opRGB:
			i += 4
		case tag&tagMask == opLuma:
			i += 2
		default:
			i++
		}
	}
}

func TestEncodeRejectsBadMetadata(t *testing.T) {
	if _, err := Encode([]byte{1, 2, 3}, 0, 1, 3, 0); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := Encode([]byte{1, 2, 3}, 1, 1, 5, 0); err == nil {
		t.Error("expected error for channels=5")
	}
	if _, err := Encode([]byte{1, 2, 3}, 1, 1, 3, 7); err == nil {
		t.Error("expected error for colorspace=7")
	}
	if _, err := Encode([]byte{1, 2}, 1, 1, 3, 0); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}
