package cubemap

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type ExportContext struct {
	Format      Format
	Compression png.CompressionLevel
	Independent bool
	Parallelism int
	Logger      *log.Logger
}

type ExportOption func(ctx *ExportContext)

func WithFormat(format Format) ExportOption {
	return func(ctx *ExportContext) {
		ctx.Format = format
	}
}

func WithPNGCompression(level png.CompressionLevel) ExportOption {
	return func(ctx *ExportContext) {
		ctx.Compression = level
	}
}

// WithIndependentFaces keeps going after a failed face and reports all failures.
func WithIndependentFaces() ExportOption {
	return func(ctx *ExportContext) {
		ctx.Independent = true
	}
}

// WithParallelism exports up to n faces at the same time. Faces are independent,
// so this implies WithIndependentFaces.
func WithParallelism(n int) ExportOption {
	return func(ctx *ExportContext) {
		if n > 1 {
			ctx.Parallelism = n
			ctx.Independent = true
		}
	}
}

func WithLogger(logger *log.Logger) ExportOption {
	return func(ctx *ExportContext) {
		ctx.Logger = logger
	}
}

type ExportResult struct {
	Dir    string
	Format Format
	Files  map[Face]string
}

// Paths returns the written files in export order.
func (r *ExportResult) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, f := range ExportOrder {
		if p, ok := r.Files[f]; ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// Complete reports whether all six faces were written.
func (r *ExportResult) Complete() bool {
	return len(r.Files) == FaceCount
}

// FacePath returns the file a face is exported to.
func FacePath(dir string, face Face, format Format) string {
	return filepath.Join(dir, face.String()+format.Ext())
}

// ExportFaces writes every face of cm to dir as <FaceName>.<ext>, flipped so the
// first row of each file is the top of the face. Existing files are overwritten.
//
// Input is validated before anything is touched. A face file is replaced as a whole
// or not at all, faces written before a failure stay on disk.
func ExportFaces(cm *Cubemap, dir string, options ...ExportOption) (*ExportResult, error) {
	ctx := ExportContext{
		Format:      FormatPNG,
		Compression: png.DefaultCompression,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&ctx)
		}
	}

	if err := cm.Validate(); err != nil {
		return nil, err
	}
	if ctx.Format.Ext() == "" {
		return nil, invalidInput("image format %d unsupported", int(ctx.Format))
	}
	if dir == "" {
		return nil, invalidInput("destination path is empty")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &ExportError{Kind: ErrFilesystem, Path: dir, Err: err}
	}

	start := time.Now()
	result := &ExportResult{
		Dir:    dir,
		Format: ctx.Format,
		Files:  make(map[Face]string, FaceCount),
	}

	var paths [FaceCount]string
	var errs [FaceCount]error

	if ctx.Parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(ctx.Parallelism)
		for i, face := range ExportOrder {
			g.Go(func() error {
				paths[i], errs[i] = exportFace(cm, face, dir, &ctx)
				return nil
			})
		}
		g.Wait()
	} else {
		for i, face := range ExportOrder {
			paths[i], errs[i] = exportFace(cm, face, dir, &ctx)
			if errs[i] != nil && !ctx.Independent {
				break
			}
		}
	}

	for i, face := range ExportOrder {
		if errs[i] == nil && paths[i] != "" {
			result.Files[face] = paths[i]
		}
	}

	err := errors.Join(errs[:]...)
	if ctx.Logger != nil {
		if err != nil {
			ctx.Logger.Error("export incomplete", "dir", dir, "written", len(result.Files), "err", err)
		} else {
			ctx.Logger.Debug("exported cube map", "dir", dir, "size", cm.Size, "format", ctx.Format, "took", time.Since(start))
		}
	}
	return result, err
}

func exportFace(cm *Cubemap, face Face, dir string, ctx *ExportContext) (string, error) {
	path := FacePath(dir, face, ctx.Format)

	flipped := cm.Face(face).FlipVertically()

	buf := bytes.NewBuffer(make([]byte, 0, flipped.Bytes()/2))
	if err := EncodeFace(buf, flipped, ctx.Format, ctx.Compression); err != nil {
		return "", faceError(ErrEncode, face, path, err)
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", faceError(ErrFilesystem, face, path, err)
	}

	if ctx.Logger != nil {
		ctx.Logger.Debug("wrote face", "face", face, "path", path, "bytes", buf.Len())
	}
	return path, nil
}
