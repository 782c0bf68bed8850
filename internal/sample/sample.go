// Package sample turns a region of an image into a single color sample.
//
// It reproduces what an on-screen selector does: crop a square under the
// handle and average it down to one pixel. The average is taken over
// alpha-premultiplied channels, as a 1x1 premultiplied bitmap would hold.
package sample

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/wethinkt/go-colorname/internal/palette"
)

// ErrEmptyRegion is returned when a region does not overlap the image.
var ErrEmptyRegion = errors.New("sample region is outside the image")

// Region is a square selector centered on (X, Y).
type Region struct {
	X, Y int
	Size int // side length in pixels; <= 0 means 1
}

// Rect returns the selector rectangle before clipping.
func (r Region) Rect() image.Rectangle {
	size := max(r.Size, 1)
	x0 := r.X - size/2
	y0 := r.Y - size/2
	return image.Rect(x0, y0, x0+size, y0+size)
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// File decodes the image at path and averages region.
func File(path string, region Region) (palette.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return palette.RGBA{}, err
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return palette.RGBA{}, err
	}
	return Average(img, region)
}

// Crop copies the part of img under region, clipped to the image bounds.
func Crop(img image.Image, region Region) (*image.RGBA, error) {
	rect := region.Rect().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return dst, nil
}

// Average returns the mean color of region in img.
func Average(img image.Image, region Region) (palette.RGBA, error) {
	cropped, err := Crop(img, region)
	if err != nil {
		return palette.RGBA{}, err
	}
	return averagePremultiplied(cropped), nil
}

// averagePremultiplied converts the mean premultiplied pixel to an RGBA.
// With non-zero alpha each channel is scaled by alpha/255 on top of the
// /255 normalization; with zero alpha the raw channels are returned.
func averagePremultiplied(img *image.RGBA) palette.RGBA {
	var sum [4]uint64
	b := img.Bounds()
	n := uint64(b.Dx() * b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			sum[0] += uint64(c.R)
			sum[1] += uint64(c.G)
			sum[2] += uint64(c.B)
			sum[3] += uint64(c.A)
		}
	}
	avg := color.RGBA{
		R: uint8((sum[0] + n/2) / n),
		G: uint8((sum[1] + n/2) / n),
		B: uint8((sum[2] + n/2) / n),
		A: uint8((sum[3] + n/2) / n),
	}

	if avg.A > 0 {
		a := float64(avg.A)
		return palette.RGBA{
			R: float64(avg.R) * a / (255 * 255),
			G: float64(avg.G) * a / (255 * 255),
			B: float64(avg.B) * a / (255 * 255),
			A: a / 255,
		}
	}
	return palette.RGBA{
		R: float64(avg.R) / 255,
		G: float64(avg.G) / 255,
		B: float64(avg.B) / 255,
		A: float64(avg.A) / 255,
	}
}
