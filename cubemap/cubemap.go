package cubemap

import (
	"fmt"

	"skyboxer/libio"
)

const (
	MinSize = 16
	MaxSize = 8192
)

// Cubemap holds six square faces of equal resolution. Face rows are stored
// bottom to top, the way texture memory is laid out.
type Cubemap struct {
	Size   int
	Format PixelFormat
	Faces  [FaceCount][]uint8
}

// New allocates a black RGB24 cube map.
func New(size int) *Cubemap {
	cm := &Cubemap{
		Size:   size,
		Format: RGB24,
	}
	n := size * size * RGB24.Channels()
	data := make([]uint8, FaceCount*n)
	for i := range cm.Faces {
		cm.Faces[i] = data[i*n : (i+1)*n : (i+1)*n]
	}
	return cm
}

// CheckSize reports whether size is a supported face resolution.
func CheckSize(size int) error {
	if size < MinSize || size > MaxSize {
		return invalidInput("resolution %d outside of supported range [%d, %d]", size, MinSize, MaxSize)
	}
	return nil
}

// ClampSize moves size into the supported range.
func ClampSize(size int) int {
	return min(MaxSize, max(MinSize, size))
}

// Validate checks resolution, pixel format and face buffer sizes.
func (cm *Cubemap) Validate() error {
	if cm == nil {
		return invalidInput("cube map is nil")
	}
	if err := CheckSize(cm.Size); err != nil {
		return err
	}
	if cm.Format != RGB24 {
		return invalidInput("pixel format %s unsupported, expected %s", cm.Format, RGB24)
	}
	want := cm.Size * cm.Size * cm.Format.Channels()
	for i, pix := range cm.Faces {
		if len(pix) == 0 {
			return invalidInput("face %s is empty", Face(i))
		}
		if len(pix) != want {
			return invalidInput("face %s has %d bytes, expected %d", Face(i), len(pix), want)
		}
	}
	return nil
}

// Face returns a view of the face pixels. The view shares memory with the cube map
// and must be treated as read only.
func (cm *Cubemap) Face(f Face) *libio.IntImage {
	return libio.NewIntImage(cm.Faces[f], cm.Format.Channels(), cm.Size, cm.Size)
}

// SetFace copies img into face f.
func (cm *Cubemap) SetFace(f Face, img *libio.IntImage) error {
	if !f.Valid() {
		return fmt.Errorf("invalid cube map face %d", int(f))
	}
	if img.Width != cm.Size || img.Height != cm.Size || img.Channels != cm.Format.Channels() {
		return fmt.Errorf("face %s must be %dx%dx%d but is %dx%dx%d", f, cm.Size, cm.Size, cm.Format.Channels(), img.Width, img.Height, img.Channels)
	}
	if len(cm.Faces[f]) != len(img.Pix) {
		cm.Faces[f] = make([]uint8, len(img.Pix))
	}
	copy(cm.Faces[f], img.Pix)
	return nil
}

// Renderer produces a populated cube map at the requested face resolution.
type Renderer interface {
	RenderCubemap(size int) (*Cubemap, error)
}
