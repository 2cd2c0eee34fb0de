package ibl

const MagicNumberIBLENV = 0x78b85411

type IblEnvVersion uint32

const (
	IblEnvVersion1_001_000 = IblEnvVersion(1_001_000)
	// adds the mip level count after the header
	IblEnvVersion1_002_000 = IblEnvVersion(1_002_000)
)

type IblEnvCompression uint32

const (
	IblEnvCompressionNone = IblEnvCompression(iota)
	IblEnvCompressionLZ4Fast
	IblEnvCompressionLZ4
)

type IblEnvHeader struct {
	Check       uint32
	Version     IblEnvVersion
	Compression IblEnvCompression
	Size        uint32
}

// IblEnv is a float RGB cube map with optional mip levels. Levels are stored one
// after another, each level holds the six faces in GL order.
type IblEnv struct {
	Faces    [6][]float32
	BaseSize int
	Levels   int
	data     []float32
}

func levelSize(base, level int) int {
	return max(1, base>>level)
}

func pixelCount(base, levels int) int {
	n := 0
	for i := 0; i < levels; i++ {
		s := levelSize(base, i)
		n += 6 * s * s
	}
	return n
}

// NewIblEnv wraps data without copying, the base level faces are views into it.
func NewIblEnv(data []float32, size int, levels int) *IblEnv {
	env := &IblEnv{BaseSize: size, Levels: levels, data: data}
	n := size * size * 3
	for f := range env.Faces {
		env.Faces[f] = data[f*n : (f+1)*n : (f+1)*n]
	}
	return env
}

func (env *IblEnv) Concat() []float32 {
	return env.data
}

func (env *IblEnv) Size(level int) int {
	return levelSize(env.BaseSize, level)
}

// Level returns the six faces of a mip level back to back.
func (env *IblEnv) Level(level int) []float32 {
	start := pixelCount(env.BaseSize, level) * 3
	s := env.Size(level)
	return env.data[start : start+6*s*s*3]
}
