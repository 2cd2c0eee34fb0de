// Package sky renders cube maps in software. Every renderer works with world
// aligned face axes, the orientation of the source is applied to the sky instead.
package sky

import (
	"github.com/go-gl/mathgl/mgl32"

	"skyboxer/cubemap"
)

// DefaultSize is the face resolution used when a renderer has no natural size.
const DefaultSize = 1024

// forEachFacePixel visits every texel of a cube map of the given size with its view direction.
// y = 0 is the bottom row of a face.
func forEachFacePixel(size int, cb func(face cubemap.Face, x, y int, dir mgl32.Vec3)) {
	for _, face := range cubemap.Faces() {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				cb(face, x, y, face.Direction(size, x, y))
			}
		}
	}
}

func setPixel(cm *cubemap.Cubemap, face cubemap.Face, x, y int, r, g, b uint8) {
	i := (x + y*cm.Size) * 3
	pix := cm.Faces[face]
	pix[i+0], pix[i+1], pix[i+2] = r, g, b
}
