package ibl

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Pixels are stored as RGBE, three 8 bit mantissas sharing the exponent of the
// brightest channel. See: https://www.graphics.cornell.edu/~bjw/rgbe/rgbe.c

const rgbeBias = 128

func rgbe(c mgl32.Vec3) [4]byte {
	v := math32.Max(c[0], math32.Max(c[1], c[2]))
	if v < 1e-32 {
		return [4]byte{}
	}
	frac, exp := math32.Frexp(v)
	f := frac * 256 / v
	return [4]byte{mantissa(c[0] * f), mantissa(c[1] * f), mantissa(c[2] * f), byte(exp + rgbeBias)}
}

// negative channels have no representation
func mantissa(v float32) byte {
	return byte(math32.Min(255, math32.Max(0, v)))
}

func unrgbe(p []byte) mgl32.Vec3 {
	if p[3] == 0 {
		return mgl32.Vec3{}
	}
	f := float32(math.Ldexp(1, int(p[3])-(rgbeBias+8)))
	return mgl32.Vec3{float32(p[0]) * f, float32(p[1]) * f, float32(p[2]) * f}
}
