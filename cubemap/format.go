package cubemap

import "fmt"

type PixelFormat int

const (
	RGB24 = PixelFormat(iota)
	RGBA32
)

func (pf PixelFormat) Channels() int {
	switch pf {
	case RGB24:
		return 3
	case RGBA32:
		return 4
	}
	return 0
}

func (pf PixelFormat) String() string {
	switch pf {
	case RGB24:
		return "RGB24"
	case RGBA32:
		return "RGBA32"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(pf))
}
