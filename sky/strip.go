package sky

import (
	"fmt"
	"image"

	"skyboxer/cubemap"
	"skyboxer/libio"
)

// Static serves faces that already exist, such as a decoded file.
type Static struct {
	faces [cubemap.FaceCount]*libio.IntImage
	size  int
}

// NewStatic wraps the faces of an existing cube map.
func NewStatic(cm *cubemap.Cubemap) (*Static, error) {
	if err := cm.Validate(); err != nil {
		return nil, err
	}
	var faces [cubemap.FaceCount]*libio.IntImage
	for _, f := range cubemap.Faces() {
		faces[f] = cm.Face(f)
	}
	return NewFaces(faces)
}

// NewFaces serves six square RGB faces of equal size in GL order, bottom row
// first. Any size is accepted here, RenderCubemap resamples to a supported one.
func NewFaces(faces [cubemap.FaceCount]*libio.IntImage) (*Static, error) {
	size := 0
	for i, img := range faces {
		f := cubemap.Face(i)
		if img == nil {
			return nil, fmt.Errorf("face %s is missing", f)
		}
		if img.Width == 0 || img.Width != img.Height || img.Channels != 3 || len(img.Pix) != img.Bytes() {
			return nil, fmt.Errorf("face %s must be a square RGB image, got %dx%dx%d", f, img.Width, img.Height, img.Channels)
		}
		if size == 0 {
			size = img.Width
		} else if img.Width != size {
			return nil, fmt.Errorf("face %s is %d px but the first face is %d px", f, img.Width, size)
		}
	}
	return &Static{faces: faces, size: size}, nil
}

// NewStrip reads a vertical strip of six square faces in GL order, +X at the top.
// Each face in the image is upright, top row first.
func NewStrip(img image.Image) (*Static, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h != w*cubemap.FaceCount {
		return nil, fmt.Errorf("strip must be w x 6w pixels, got %dx%d", w, h)
	}

	full := libio.FromImage(img, 3)
	var faces [cubemap.FaceCount]*libio.IntImage
	for _, f := range cubemap.Faces() {
		// faces are stored bottom row first
		faces[f] = full.SubImage(int(f)*w, int(f+1)*w).FlipVertically()
	}
	return NewFaces(faces)
}

func (s *Static) FaceSize() int {
	return s.size
}

// RenderCubemap copies the faces, resampling with nearest neighbour when size differs.
// Size 0 keeps the native size, which then has to be supported.
func (s *Static) RenderCubemap(size int) (*cubemap.Cubemap, error) {
	if size == 0 {
		size = s.size
	}
	if err := cubemap.CheckSize(size); err != nil {
		return nil, err
	}
	cm := cubemap.New(size)
	for _, f := range cubemap.Faces() {
		face := s.faces[f]
		if size != s.size {
			face = resampleNearest(face, size)
		}
		if err := cm.SetFace(f, face); err != nil {
			return nil, err
		}
	}
	return cm, nil
}

func resampleNearest(src *libio.IntImage, size int) *libio.IntImage {
	ch := src.Channels
	dst := libio.NewIntImage(make([]uint8, size*size*ch), ch, size, size)
	for y := 0; y < size; y++ {
		sy := y * src.Height / size
		for x := 0; x < size; x++ {
			sx := x * src.Width / size
			copy(dst.Pix[dst.Index(x, y):dst.Index(x, y)+ch], src.Pix[src.Index(sx, sy):src.Index(sx, sy)+ch])
		}
	}
	return dst
}
