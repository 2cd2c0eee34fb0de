package sky

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"skyboxer/cubemap"
	"skyboxer/libio"
)

// Equirect samples an equirectangular panorama, the top row of the image is straight up.
type Equirect struct {
	pano *libio.FloatImage
}

func NewEquirect(img image.Image) (*Equirect, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("panorama has zero size %dx%d", b.Dx(), b.Dy())
	}
	return &Equirect{pano: libio.FromImage(img, 3).ToFloatImage()}, nil
}

// SuggestedSize is a quarter of the panorama width, which keeps the texel density.
func (e *Equirect) SuggestedSize() int {
	return cubemap.ClampSize(e.pano.Width / 4)
}

// RenderCubemap samples the panorama, size 0 uses SuggestedSize.
func (e *Equirect) RenderCubemap(size int) (*cubemap.Cubemap, error) {
	if size == 0 {
		size = e.SuggestedSize()
	}
	if err := cubemap.CheckSize(size); err != nil {
		return nil, err
	}
	cm := cubemap.New(size)

	forEachFacePixel(size, func(face cubemap.Face, x, y int, dir mgl32.Vec3) {
		su, sv := sampleSphericalMap(dir.X(), dir.Y(), dir.Z())
		c := sampleBilinear(e.pano, su, 1-sv)
		setPixel(cm, face, x, y, libio.Quantize(c[0]), libio.Quantize(c[1]), libio.Quantize(c[2]))
	})

	return cm, nil
}

// 1/(2pi), 1/pi
var invAtan [2]float32 = [2]float32{0.15915494309, 0.31830988618}

func sampleSphericalMap(rx, ry, rz float32) (u, v float32) {
	u, v = math32.Atan2(rz, rx), math32.Asin(ry)
	u = u*invAtan[0] + 0.5
	v = v*invAtan[1] + 0.5
	return u, v
}

// sampleBilinear filters between the four texels around (u, v). The panorama
// wraps around horizontally and is clamped at the poles.
func sampleBilinear(pano *libio.FloatImage, u, v float32) mgl32.Vec3 {
	// -0.5 to adjust for the pixel center offset
	x := u*float32(pano.Width) - 0.5
	y := v*float32(pano.Height) - 0.5
	xf, yf := math32.Floor(x), math32.Floor(y)
	fx, fy := x-xf, y-yf

	x0, x1 := wrap(int(xf), pano.Width), wrap(int(xf)+1, pano.Width)
	y0, y1 := clampRow(int(yf), pano.Height), clampRow(int(yf)+1, pano.Height)

	top := lerp(texel(pano, x0, y0), texel(pano, x1, y0), fx)
	bottom := lerp(texel(pano, x0, y1), texel(pano, x1, y1), fx)
	return lerp(top, bottom, fy)
}

func texel(img *libio.FloatImage, x, y int) mgl32.Vec3 {
	i := img.Index(x, y)
	return mgl32.Vec3{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

func wrap(x, n int) int {
	x %= n
	if x < 0 {
		x += n
	}
	return x
}

func clampRow(y, h int) int {
	return max(0, min(y, h-1))
}
