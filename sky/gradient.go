package sky

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"skyboxer/cubemap"
	"skyboxer/libio"
	"skyboxer/libutil"
)

// Gradient is a procedural sky blending from the ground color through the horizon
// to the zenith. Colors are linear RGB in [0, 1].
type Gradient struct {
	Zenith  mgl32.Vec3
	Horizon mgl32.Vec3
	Ground  mgl32.Vec3
	// rotates the sky, the cube faces stay world aligned
	Orientation mgl32.Quat
}

// NewGradient tilts the sky by pitch and yaw in degrees.
func NewGradient(zenith, horizon, ground mgl32.Vec3, pitch, yaw float32) *Gradient {
	return &Gradient{
		Zenith:      zenith,
		Horizon:     horizon,
		Ground:      ground,
		Orientation: mgl32.AnglesToQuat(pitch*libutil.Deg2Rad, yaw*libutil.Deg2Rad, 0, mgl32.XYZ),
	}
}

// Color returns the sky color seen along dir.
func (g *Gradient) Color(dir mgl32.Vec3) mgl32.Vec3 {
	q := g.Orientation
	if q == (mgl32.Quat{}) {
		q = mgl32.QuatIdent()
	}
	y := q.Rotate(dir.Normalize()).Y()
	if y >= 0 {
		return lerp(g.Horizon, g.Zenith, math32.Sqrt(y))
	}
	return lerp(g.Horizon, g.Ground, math32.Min(1, -y*4))
}

// RenderCubemap renders the sky, size 0 uses DefaultSize.
func (g *Gradient) RenderCubemap(size int) (*cubemap.Cubemap, error) {
	if size == 0 {
		size = DefaultSize
	}
	if err := cubemap.CheckSize(size); err != nil {
		return nil, err
	}
	cm := cubemap.New(size)
	forEachFacePixel(size, func(face cubemap.Face, x, y int, dir mgl32.Vec3) {
		c := g.Color(dir)
		setPixel(cm, face, x, y, libio.Quantize(c[0]), libio.Quantize(c[1]), libio.Quantize(c[2]))
	})
	return cm, nil
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
