package cubemap

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one side of a cube map. The values follow the GL face order.
type Face int

const (
	PositiveX = Face(iota)
	NegativeX
	PositiveY
	NegativeY
	PositiveZ
	NegativeZ
)

const FaceCount = 6

var faceNames = [FaceCount]string{
	PositiveX: "PositiveX",
	NegativeX: "NegativeX",
	PositiveY: "PositiveY",
	NegativeY: "NegativeY",
	PositiveZ: "PositiveZ",
	NegativeZ: "NegativeZ",
}

// ExportOrder is the order faces are written in.
var ExportOrder = [FaceCount]Face{NegativeX, NegativeY, NegativeZ, PositiveX, PositiveY, PositiveZ}

// Faces returns all faces in GL order.
func Faces() []Face {
	return []Face{PositiveX, NegativeX, PositiveY, NegativeY, PositiveZ, NegativeZ}
}

func (f Face) Valid() bool {
	return f >= 0 && f < FaceCount
}

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// ParseFace accepts the canonical names as well as the short "+x" / "-x" forms.
func ParseFace(s string) (Face, error) {
	s = strings.TrimSpace(s)
	for f, name := range faceNames {
		if strings.EqualFold(s, name) {
			return Face(f), nil
		}
	}
	short := map[string]Face{
		"+x": PositiveX, "-x": NegativeX,
		"+y": PositiveY, "-y": NegativeY,
		"+z": PositiveZ, "-z": NegativeZ,
	}
	if f, ok := short[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown cube map face %q", s)
}

// Basis returns the world space axes of a face as seen from the cube center:
// right and up span the face from its bottom left corner, forward points at its center.
func (f Face) Basis() (right, up, forward mgl32.Vec3) {
	switch f {
	case PositiveX:
		return mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}
	case NegativeX:
		return mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{-1, 0, 0}
	case PositiveY:
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}
	case NegativeY:
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}
	case PositiveZ:
		return mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}
	case NegativeZ:
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1}
	}
	panic(fmt.Sprintf("invalid cube map face %d", int(f)))
}

// Direction returns the normalized view direction through texel (x, y) of a face
// with the given resolution. y = 0 is the bottom row.
func (f Face) Direction(size, x, y int) mgl32.Vec3 {
	right, up, forward := f.Basis()
	// (2x+1)/r - 1 is the center of the pixel in [-1, 1]
	u := (2.0*float32(x)+1.0)/float32(size) - 1.0
	v := (2.0*float32(y)+1.0)/float32(size) - 1.0
	return forward.Add(right.Mul(u)).Add(up.Mul(v)).Normalize()
}
