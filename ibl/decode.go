package ibl

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"skyboxer/cubemap"
)

// Environments with larger faces can't be exported and are rejected before
// any pixel is read.
const (
	maxDecodeSize   = cubemap.MaxSize
	maxDecodeLevels = 32
)

func DecodeIblEnv(r io.Reader) (*IblEnv, error) {
	var header IblEnvHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("expected environment header: %w", err)
	}
	if header.Check != MagicNumberIBLENV {
		return nil, fmt.Errorf("environment header is corrupt")
	}

	levels := uint32(1)
	switch header.Version {
	case IblEnvVersion1_001_000:
	case IblEnvVersion1_002_000:
		if err := binary.Read(r, binary.LittleEndian, &levels); err != nil {
			return nil, fmt.Errorf("expected environment level count: %w", err)
		}
	default:
		return nil, fmt.Errorf("environment version %d unsupported", header.Version)
	}

	if header.Size == 0 || header.Size > maxDecodeSize {
		return nil, fmt.Errorf("environment size %d outside of supported range [1, %d]", header.Size, maxDecodeSize)
	}
	if levels == 0 || levels > maxDecodeLevels {
		return nil, fmt.Errorf("environment level count %d unsupported", levels)
	}

	var pixr io.Reader
	switch header.Compression {
	case IblEnvCompressionNone:
		pixr = r
	case IblEnvCompressionLZ4, IblEnvCompressionLZ4Fast:
		pixr = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("environment compression id %d unsupported", header.Compression)
	}

	size := int(header.Size)
	data, err := readPixels(pixr, pixelCount(size, int(levels)), size)
	if err != nil {
		return nil, err
	}
	return NewIblEnv(data, size, int(levels)), nil
}

// readPixels decodes count RGBE pixels in rows of up to rowLen. The result only
// grows as pixels arrive, so a lying header fails on missing data instead of a
// huge allocation.
func readPixels(r io.Reader, count, rowLen int) ([]float32, error) {
	data := make([]float32, 0, min(count, rowLen)*3)
	row := make([]byte, rowLen*4)
	for remaining := count; remaining > 0; {
		n := min(remaining, rowLen)
		if _, err := io.ReadFull(r, row[:n*4]); err != nil {
			return nil, fmt.Errorf("expected %d encoded pixels, %d missing: %w", count, remaining, err)
		}
		for i := 0; i < n*4; i += 4 {
			c := unrgbe(row[i : i+4])
			data = append(data, c[0], c[1], c[2])
		}
		remaining -= n
	}
	return data, nil
}
