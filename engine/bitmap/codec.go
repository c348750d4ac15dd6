package bitmap

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hubastard/gosu/engine/colors"
	"golang.org/x/image/bmp"
)

// Load decodes a PNG, JPEG or BMP file.
func Load(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return b, nil
}

// Decode reads any registered image format (PNG, JPEG, BMP).
func Decode(r io.Reader) (*Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Save encodes b by file extension: .bmp as BMP, everything else as PNG.
func Save(b *Bitmap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		err = bmp.Encode(f, b.ToImage())
	} else {
		err = png.Encode(f, b.ToImage())
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return f.Close()
}

// FromImage converts any image into a Bitmap with non-premultiplied colors.
func FromImage(img image.Image) *Bitmap {
	nrgba := toNRGBA(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	out := New(w, h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			out.pixels[y*w+x] = colors.RGBA(p[0], p[1], p[2], p[3])
		}
	}
	return out
}

// ToImage copies b into a new *image.NRGBA.
func (b *Bitmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	for i, c := range b.pixels {
		img.Pix[i*4+0] = c.Red()
		img.Pix[i*4+1] = c.Green()
		img.Pix[i*4+2] = c.Blue()
		img.Pix[i*4+3] = c.Alpha()
	}
	return img
}

func toNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
