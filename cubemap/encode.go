package cubemap

import (
	"fmt"
	goimg "image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"

	"skyboxer/libio"
)

// Format is a lossless image format faces can be written in.
type Format int

const (
	FormatPNG = Format(iota)
	FormatBMP
)

func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatBMP:
		return ".bmp"
	}
	return ""
}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	}
	return 0, fmt.Errorf("%s is not a valid image format; png or bmp", s)
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	return f.Set(string(text))
}

// EncodeFace writes an RGB face buffer, row 0 at the top of the image.
// Opaque buffers are written without an alpha channel by both encoders.
func EncodeFace(w io.Writer, img *libio.IntImage, format Format, level png.CompressionLevel) error {
	rgba := img.ToRGBA()
	switch format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: level}
		return enc.Encode(w, rgba)
	case FormatBMP:
		return bmp.Encode(w, rgba)
	}
	return fmt.Errorf("image format %d unsupported", int(format))
}

// DecodeFace reads a face image written by EncodeFace back into an RGB buffer.
func DecodeFace(r io.Reader, format Format) (*libio.IntImage, error) {
	var img goimg.Image
	var err error
	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	default:
		err = fmt.Errorf("image format %d unsupported", int(format))
	}
	if err != nil {
		return nil, err
	}
	return libio.FromImage(img, 3), nil
}
