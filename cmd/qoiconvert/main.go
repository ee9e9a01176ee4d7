// Command qoiconvert converts raster images between QOI, PNG, BMP, and PPM,
// with an optional bilinear resize pass.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-qoi/qoi"
	"github.com/go-qoi/qoi/ppm"

	_ "image/jpeg"

	"golang.org/x/image/bmp"
	ximagedraw "golang.org/x/image/draw"
)

func main() {
	var in, out, scale string
	flag.StringVar(&in, "i", "", "input image path (.qoi, .png, .jpg, .bmp, .ppm)")
	flag.StringVar(&out, "o", "", "output image path (.qoi, .png, .bmp, .ppm)")
	flag.StringVar(&scale, "scale", "", "optional WxH to resize to before writing, e.g. 128x128")
	flag.Parse()

	if in == "" || out == "" {
		fmt.Fprintln(os.Stderr, "both -i and -o must be specified")
		os.Exit(1)
	}

	img, err := readImage(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cant read input %s: %s\n", in, err)
		os.Exit(1)
	}

	if scale != "" {
		img, err = resize(img, scale)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cant parse -scale %q: %s\n", scale, err)
			os.Exit(1)
		}
	}

	if err := writeImage(out, img); err != nil {
		fmt.Fprintf(os.Stderr, "cant write output %s: %s\n", out, err)
		os.Exit(1)
	}
}

func readImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".qoi":
		return qoi.DecodeImage(file)
	case ".ppm":
		width, height, rgb, err := ppm.Decode(file)
		if err != nil {
			return nil, err
		}
		return ppmToNRGBA(width, height, rgb), nil
	default:
		img, _, err := image.Decode(file)
		return img, err
	}
}

func writeImage(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".qoi":
		return qoi.EncodeImage(file, img)
	case ".png":
		return png.Encode(file, img)
	case ".bmp":
		return bmp.Encode(file, img)
	case ".ppm":
		b := img.Bounds()
		nrgba := toNRGBA(img)
		rgb := make([]byte, 0, b.Dx()*b.Dy()*3)
		for i := 0; i+4 <= len(nrgba.Pix); i += 4 {
			rgb = append(rgb, nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2])
		}
		return ppm.Encode(file, b.Dx(), b.Dy(), rgb)
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
}

// resize parses a "WxH" spec and scales img to it with a bilinear filter,
// the same golang.org/x/image/draw entry point google/wuffs's handsum
// package uses for its own downscale step.
func resize(img image.Image, spec string) (image.Image, error) {
	parts := strings.SplitN(spec, "x", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected WxH, got %q", spec)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, err
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	ximagedraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), ximagedraw.Over, nil)
	return dst, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func ppmToNRGBA(width, height int, rgb []byte) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, px := 0, 0; i+3 <= len(rgb); i, px = i+3, px+1 {
		off := px * 4
		dst.Pix[off] = rgb[i]
		dst.Pix[off+1] = rgb[i+1]
		dst.Pix[off+2] = rgb[i+2]
		dst.Pix[off+3] = 255
	}
	return dst
}
