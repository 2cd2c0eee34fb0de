package cubemap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is reported before anything is written.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFilesystem is reported when the destination cannot be created or a face cannot be written.
	ErrFilesystem = errors.New("filesystem error")
	// ErrEncode is reported when a face buffer cannot be encoded.
	ErrEncode = errors.New("encode error")
)

// ExportError describes a failed export step. Kind is one of the package sentinels,
// Face is only meaningful when HasFace is set.
type ExportError struct {
	Kind    error
	Face    Face
	HasFace bool
	Path    string
	Err     error
}

func (e *ExportError) Error() string {
	msg := e.Kind.Error()
	if e.HasFace {
		msg = fmt.Sprintf("%s: face %s", msg, e.Face)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidInput(format string, args ...any) error {
	return &ExportError{Kind: ErrInvalidInput, Err: fmt.Errorf(format, args...)}
}

func faceError(kind error, face Face, path string, err error) error {
	return &ExportError{Kind: kind, Face: face, HasFace: true, Path: path, Err: err}
}

// FailedFaces lists the faces named by the ExportErrors in err, in the order they appear.
func FailedFaces(err error) []Face {
	var faces []Face
	var walk func(err error)
	walk = func(err error) {
		switch e := err.(type) {
		case *ExportError:
			if e.HasFace {
				faces = append(faces, e.Face)
			}
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	if err != nil {
		walk(err)
	}
	return faces
}
