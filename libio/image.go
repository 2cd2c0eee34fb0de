package libio

import (
	goimg "image"
	"image/draw"

	"github.com/chewxy/math32"
)

type image struct {
	Channels      int
	Width, Height int
}

// Calculates the tuple index into the images data.
//
// Rows are stored in the order they were produced, so whether row 0 is the top or
// the bottom depends on the source. Cube map faces keep the bottom left origin.
func (img *image) Index(x, y int) int {
	return x*img.Channels + y*img.Channels*img.Width
}

func (img *image) Count() int {
	return img.Width * img.Height
}

func (img *image) Stride() int {
	return img.Width * img.Channels
}

// IntImage is a tightly packed 8 bit per channel pixel buffer.
type IntImage struct {
	image
	Pix []uint8
}

func NewIntImage(pix []uint8, channels int, width, height int) *IntImage {
	return &IntImage{
		Pix: pix,
		image: image{
			Channels: channels,
			Width:    width,
			Height:   height,
		},
	}
}

// FromImage copies any image into a packed buffer with the given channel count.
// Row 0 of the result is the top row of src.
func FromImage(src goimg.Image, channels int) *IntImage {
	b := src.Bounds()
	nrgba, ok := src.(*goimg.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 {
		nrgba = goimg.NewNRGBA(goimg.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}
	n := b.Dx() * b.Dy()
	pix := toChannels(4, channels, n, nrgba.Pix[:n*4])
	if channels == 4 {
		pix = append([]uint8(nil), pix...)
	}
	return NewIntImage(pix, channels, b.Dx(), b.Dy())
}

func (img *IntImage) Bytes() int {
	return img.Width * img.Height * img.Channels
}

// Row returns the pixels of row y without copying.
func (img *IntImage) Row(y int) []uint8 {
	s := img.Stride()
	return img.Pix[y*s : (y+1)*s : (y+1)*s]
}

// SubImage returns a copy of the rows [y0, y1).
func (img *IntImage) SubImage(y0, y1 int) *IntImage {
	s := img.Stride()
	pix := make([]uint8, (y1-y0)*s)
	copy(pix, img.Pix[y0*s:y1*s])
	return NewIntImage(pix, img.Channels, img.Width, y1-y0)
}

// FlipVertically returns a new image with the pixel at (x, y) moved to (x, h-1-y).
// The receiver is not modified.
func (img *IntImage) FlipVertically() *IntImage {
	s := img.Stride()
	dst := make([]uint8, len(img.Pix))
	for y := 0; y < img.Height; y++ {
		copy(dst[(img.Height-y-1)*s:(img.Height-y)*s], img.Pix[y*s:(y+1)*s])
	}
	return NewIntImage(dst, img.Channels, img.Width, img.Height)
}

func (img *IntImage) ToChannels(nr int, defaults ...uint8) *IntImage {
	dst := toChannels(img.Channels, nr, img.Count(), img.Pix, defaults...)

	return NewIntImage(dst, nr, img.Width, img.Height)
}

func toChannels[P ~[]E, E any](srcCh, dstCh int, count int, pix P, defaults ...E) P {
	if srcCh == dstCh {
		return pix
	}

	if len(defaults) < dstCh {
		missing := dstCh - len(defaults)
		defaults = append(defaults, make([]E, missing)...)
	}

	dst := make([]E, count*dstCh)

	if dstCh > srcCh {
		for i := 0; i < count; i++ {
			for c := 0; c < srcCh; c++ {
				dst[i*dstCh+c] = pix[i*srcCh+c]
			}
			for c := srcCh; c < dstCh; c++ {
				dst[i*dstCh+c] = defaults[c]
			}
		}
	}

	if dstCh < srcCh {
		for i := 0; i < count; i++ {
			for c := 0; c < dstCh; c++ {
				dst[i*dstCh+c] = pix[i*srcCh+c]
			}
		}
	}

	return dst
}

// ToRGBA converts the buffer row for row, row 0 becomes the top of the image.
// Missing color channels are zero and alpha is opaque unless the buffer has four channels.
func (img *IntImage) ToRGBA() *goimg.RGBA {
	rgba := goimg.NewRGBA(goimg.Rect(0, 0, img.Width, img.Height))

	ch := min(img.Channels, 4)
	for i := 0; i < img.Count(); i++ {
		src := img.Pix[i*img.Channels : i*img.Channels+ch]
		dst := rgba.Pix[i*4 : i*4+4]
		copy(dst, src)
		if ch < 4 {
			dst[3] = 0xff
		}
	}

	return rgba
}

func (img *IntImage) ToFloatImage() *FloatImage {
	pix := make([]float32, len(img.Pix))
	for i, v := range img.Pix {
		pix[i] = float32(v) / 0xff
	}
	return NewFloatImage(pix, img.Channels, img.Width, img.Height)
}

// FloatImage is a tightly packed linear float pixel buffer.
type FloatImage struct {
	image
	Pix []float32
}

func NewFloatImage(pix []float32, channels int, width, height int) *FloatImage {
	return &FloatImage{
		Pix: pix,
		image: image{
			Channels: channels,
			Width:    width,
			Height:   height,
		},
	}
}

func (img *FloatImage) Bytes() int {
	return img.Width * img.Height * img.Channels * 4
}

func (img *FloatImage) ToChannels(nr int, defaults ...float32) *FloatImage {
	dst := toChannels(img.Channels, nr, img.Count(), img.Pix, defaults...)

	return NewFloatImage(dst, nr, img.Width, img.Height)
}

// ToIntImage gamma corrects, scales and clamps every channel to [0, 1] before quantizing.
func (img *FloatImage) ToIntImage(gamma, scale float32) *IntImage {
	pix := make([]uint8, len(img.Pix))

	for i := 0; i < len(img.Pix); i++ {
		pix[i] = Quantize(tonemap(img.Pix[i], 1.0/gamma, scale))
	}

	return NewIntImage(pix, img.Channels, img.Width, img.Height)
}

// Quantize maps [0, 1] to [0, 255] with rounding, values outside are clamped.
func Quantize(v float32) uint8 {
	return uint8(math32.Min(math32.Max(0.0, v), 1.0)*0xff + 0.5)
}

func tonemap(value, gamma, scale float32) float32 {
	value = math32.Pow(math32.Max(0.0, value), gamma) * scale
	return math32.Min(math32.Max(0.0, value), 1.0)
}
