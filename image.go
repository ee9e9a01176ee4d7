package qoi

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
)

// Colorspace mirrors the colorspace_tag byte of the QOI header.
type Colorspace uint8

const (
	SRGB   Colorspace = 0
	Linear Colorspace = 1
)

// Image is a decoded QOI raster, implementing image.Image. Pix always holds
// 4 bytes per pixel (RGBA), row-major, matching the codec's internal
// representation; Channels records the channel count from the original
// stream's header. EncodeImage does not read Channels: it chooses the channel
// count from the pixels' alpha values.
type Image struct {
	Pix        []byte
	Width      int
	Height     int
	Channels   uint8
	Colorspace Colorspace
}

func (img *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

func (img *Image) At(x, y int) color.Color {
	off := (y*img.Width + x) * 4
	return color.NRGBA{R: img.Pix[off], G: img.Pix[off+1], B: img.Pix[off+2], A: img.Pix[off+3]}
}

// EncodeImage writes m to w in QOI format. Any image.Image may be encoded;
// it is first converted to NRGBA. Fully opaque images are written with
// channels=3 (no stored alpha plane), matching isOpaqueImage's fast path.
func EncodeImage(w io.Writer, m image.Image) error {
	b := m.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image has non-positive bounds %v", ErrInvalidMetadata, b)
	}

	nrgba := toNRGBA(m)
	pix := nrgba.Pix
	channels := uint8(4)
	if isOpaqueImage(m) {
		channels = 3
		pix = stripAlpha(nrgba.Pix)
	}
	out, err := Encode(pix, uint32(width), uint32(height), channels, uint8(SRGB))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// stripAlpha repacks a 4-byte-per-pixel RGBA buffer into a tight 3-byte-per-
// pixel RGB buffer, for images known to be fully opaque.
func stripAlpha(rgba []byte) []byte {
	rgb := make([]byte, 0, len(rgba)/4*3)
	for i := 0; i+4 <= len(rgba); i += 4 {
		rgb = append(rgb, rgba[i], rgba[i+1], rgba[i+2])
	}
	return rgb
}

// DecodeImage reads a QOI stream from r into an Image.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	width, height, channels, colorspace, pix, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Image{
		Pix:        pix,
		Width:      int(width),
		Height:     int(height),
		Channels:   channels,
		Colorspace: Colorspace(colorspace),
	}, nil
}

// DecodeConfig reads just the 14-byte header, without decoding the chunk
// stream, following the same two-phase split every final-format QOI decoder
// in the reference pack uses.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return image.Config{}, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.width),
		Height:     int(h.height),
	}, nil
}

// toNRGBA converts an arbitrary image.Image to a flat NRGBA buffer using
// image/draw, the same conversion step the LukiDS reference encoder
// performs via its imgconv helper before entering the chunk loop.
func toNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok {
		return n
	}
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

func init() {
	image.RegisterFormat("qoi", Magic, DecodeImage, DecodeConfig)
}
