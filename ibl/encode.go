package ibl

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pierrec/lz4/v4"

	"skyboxer/cubemap"
)

type encoder struct {
	gamma       float32
	compression IblEnvCompression
	level       lz4.CompressionLevel
}

type EncodeOption func(e *encoder)

var lz4Levels = [...]lz4.CompressionLevel{lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9}

// WithCompression enables lz4, level 0 is the fast mode and 9 the strongest.
// A negative level stores the pixels raw.
func WithCompression(level int) EncodeOption {
	return func(e *encoder) {
		switch {
		case level < 0:
			e.compression = IblEnvCompressionNone
		case level == 0:
			e.compression, e.level = IblEnvCompressionLZ4Fast, lz4.Fast
		default:
			e.compression, e.level = IblEnvCompressionLZ4, lz4Levels[min(level, len(lz4Levels)-1)]
		}
	}
}

// WithGamma sets the gamma 8 bit faces are linearized with. The default is 2.2.
func WithGamma(gamma float32) EncodeOption {
	return func(e *encoder) {
		e.gamma = gamma
	}
}

func newEncoder(options []EncodeOption) (*encoder, error) {
	e := &encoder{gamma: 2.2}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.gamma <= 0 {
		return nil, fmt.Errorf("gamma must be positive, got %v", e.gamma)
	}
	return e, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// begin writes the header and returns the writer for the pixel stream.
// Closing it flushes the compressor, not w.
func (e *encoder) begin(w io.Writer, size, levels int) (io.WriteCloser, error) {
	header := IblEnvHeader{
		Check:       MagicNumberIBLENV,
		Version:     IblEnvVersion1_002_000,
		Compression: e.compression,
		Size:        uint32(size),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("could not write environment header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(levels)); err != nil {
		return nil, fmt.Errorf("could not write environment level count: %w", err)
	}

	if e.compression == IblEnvCompressionNone {
		return nopWriteCloser{w}, nil
	}
	lzw := lz4.NewWriter(w)
	if err := lzw.Apply(lz4.CompressionLevelOption(e.level)); err != nil {
		return nil, err
	}
	return lzw, nil
}

// EncodeCubemap writes cm as a single level environment. Faces are streamed in
// GL order one row at a time, bottom row first, and linearized with the encoder gamma.
func EncodeCubemap(w io.Writer, cm *cubemap.Cubemap, options ...EncodeOption) error {
	if err := cm.Validate(); err != nil {
		return err
	}
	e, err := newEncoder(options)
	if err != nil {
		return err
	}
	pw, err := e.begin(w, cm.Size, 1)
	if err != nil {
		return err
	}

	var linear [256]float32
	for i := range linear {
		linear[i] = math32.Pow(float32(i)/255, e.gamma)
	}

	row := make([]byte, cm.Size*4)
	for _, f := range cubemap.Faces() {
		face := cm.Face(f)
		for y := 0; y < face.Height; y++ {
			src := face.Row(y)
			for x := 0; x < face.Width; x++ {
				p := src[x*3 : x*3+3]
				px := rgbe(mgl32.Vec3{linear[p[0]], linear[p[1]], linear[p[2]]})
				copy(row[x*4:], px[:])
			}
			if _, err := pw.Write(row); err != nil {
				return fmt.Errorf("could not write face %s: %w", f, err)
			}
		}
	}
	return pw.Close()
}

// EncodeIblEnv writes every level of a float environment. The gamma option does
// not apply, float data is already linear.
func EncodeIblEnv(w io.Writer, env *IblEnv, options ...EncodeOption) error {
	e, err := newEncoder(options)
	if err != nil {
		return err
	}
	pw, err := e.begin(w, env.BaseSize, env.Levels)
	if err != nil {
		return err
	}

	data := env.Concat()
	buf := make([]byte, 0, 4096*4)
	for i := 0; i+3 <= len(data); i += 3 {
		px := rgbe(mgl32.Vec3{data[i], data[i+1], data[i+2]})
		buf = append(buf, px[:]...)
		if len(buf) == cap(buf) || i+3 >= len(data) {
			if _, err := pw.Write(buf); err != nil {
				return fmt.Errorf("could not write environment pixels: %w", err)
			}
			buf = buf[:0]
		}
	}
	return pw.Close()
}
