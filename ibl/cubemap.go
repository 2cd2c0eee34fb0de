package ibl

import (
	"fmt"

	"skyboxer/cubemap"
	"skyboxer/libio"
)

// Tonemap converts the base level into 8 bit RGB faces in GL order, bottom row
// first. The faces keep the environment size, which may be outside of what
// the exporter accepts.
func Tonemap(env *IblEnv, gamma, scale float32) ([cubemap.FaceCount]*libio.IntImage, error) {
	var faces [cubemap.FaceCount]*libio.IntImage
	if gamma <= 0 {
		return faces, fmt.Errorf("gamma must be positive, got %v", gamma)
	}
	for _, f := range cubemap.Faces() {
		face := libio.NewFloatImage(env.Faces[f], 3, env.BaseSize, env.BaseSize)
		faces[f] = face.ToIntImage(gamma, scale)
	}
	return faces, nil
}
