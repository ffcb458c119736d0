package pixel

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder for Decode
	_ "image/jpeg" // register JPEG decoder for Decode
	_ "image/png"  // register PNG decoder for Decode
	"io"
	"math"

	_ "golang.org/x/image/bmp"  // register BMP decoder for Decode
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder for Decode
)

// FromImage converts any image.Image into a 2-D Image of 8-bit luminance
// samples in [0, 255]. The origin of img.Bounds() maps to coordinate (0,0).
// Complexity: O(W·H).
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Image{shape: Shape{w, h}, data: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.data[y*w+x] = float64(g.Y)
		}
	}

	return out
}

// Decode reads an encoded picture (PNG, JPEG, GIF, TIFF or BMP) and returns
// its luminance as a 2-D Image, together with the detected format name.
func Decode(r io.Reader) (*Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("pixel: decode: %w", err)
	}

	return FromImage(img), format, nil
}

// Gray renders a 2-D image as *image.Gray, rounding samples and clamping
// them to [0, 255]. Returns ErrNotPlanar for other dimensionalities.
func (im *Image) Gray() (*image.Gray, error) {
	if im.shape.Dims() != 2 {
		return nil, fmt.Errorf("%w: shape %s", ErrNotPlanar, im.shape)
	}
	w, h := im.shape[0], im.shape[1]
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range im.data {
		g.Pix[(i/w)*g.Stride+i%w] = uint8(clamp(math.Round(v), 0, math.MaxUint8))
	}

	return g, nil
}

// Resize resamples a 2-D image to width×height with bilinear
// interpolation. Samples are quantized to 16 bits (clamped to
// [0, 65535]) for the duration of the resampling.
// Returns ErrNotPlanar for non 2-D images and ErrBadDimension for a
// non-positive target size.
func Resize(im *Image, width, height int) (*Image, error) {
	if im.shape.Dims() != 2 {
		return nil, fmt.Errorf("%w: shape %s", ErrNotPlanar, im.shape)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrBadDimension, width, height)
	}
	w, h := im.shape[0], im.shape[1]
	src := image.NewGray16(image.Rect(0, 0, w, h))
	for i, v := range im.data {
		src.SetGray16(i%w, i/w, color.Gray16{Y: uint16(clamp(math.Round(v), 0, math.MaxUint16))})
	}
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := &Image{shape: Shape{width, height}, data: make([]float64, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.data[y*width+x] = float64(dst.Gray16At(x, y).Y)
		}
	}

	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
