package cubemap_test

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skyboxer/cubemap"
)

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestExportWritesSixFaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "New Skybox")
	cm := patterned(16)

	result, err := cubemap.ExportFaces(cm, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Complete() {
		t.Fatalf("expected 6 faces but got %d", len(result.Files))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Errorf("expected exactly 6 files in %s but found %d", dir, len(entries))
	}

	for i, face := range cubemap.ExportOrder {
		path := filepath.Join(dir, face.String()+".png")
		if result.Paths()[i] != path {
			t.Errorf("path %d should be %s but was %s", i, path, result.Paths()[i])
		}
		data := readFile(t, path)
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != 16 || cfg.Height != 16 {
			t.Errorf("face %s should be 16x16 but was %dx%d", face, cfg.Width, cfg.Height)
		}
		// IHDR bit depth and color type: 8 bit truecolor without alpha
		if data[24] != 8 || data[25] != 2 {
			t.Errorf("face %s should be 8 bit RGB but has depth %d color type %d", face, data[24], data[25])
		}
	}
}

func TestExportRoundTrip(t *testing.T) {
	for _, format := range []cubemap.Format{cubemap.FormatPNG, cubemap.FormatBMP} {
		dir := t.TempDir()
		cm := patterned(17)

		_, err := cubemap.ExportFaces(cm, dir, cubemap.WithFormat(format))
		if err != nil {
			t.Fatal(err)
		}

		for _, face := range cubemap.Faces() {
			f, err := os.Open(cubemap.FacePath(dir, face, format))
			if err != nil {
				t.Fatal(err)
			}
			decoded, err := cubemap.DecodeFace(f, format)
			f.Close()
			if err != nil {
				t.Fatal(err)
			}

			expected := cm.Face(face).FlipVertically()
			if !bytes.Equal(decoded.Pix, expected.Pix) {
				t.Errorf("%s face %s does not round trip", format, face)
			}
			// top row of the file is the last row of the source face
			if !bytes.Equal(decoded.Row(0), cm.Face(face).Row(16)) {
				t.Errorf("%s face %s is not flipped", format, face)
			}
		}
	}
}

func TestExportDoesNotModifyCubemap(t *testing.T) {
	cm := patterned(16)
	before := patterned(16)
	if _, err := cubemap.ExportFaces(cm, t.TempDir()); err != nil {
		t.Fatal(err)
	}
	for i := range cm.Faces {
		if !bytes.Equal(cm.Faces[i], before.Faces[i]) {
			t.Errorf("face %s was modified by export", cubemap.Face(i))
		}
	}
}

func TestExportDeterministic(t *testing.T) {
	dir := t.TempDir()
	cm := patterned(32)

	if _, err := cubemap.ExportFaces(cm, dir); err != nil {
		t.Fatal(err)
	}
	first := map[cubemap.Face][]byte{}
	for _, face := range cubemap.Faces() {
		first[face] = readFile(t, cubemap.FacePath(dir, face, cubemap.FormatPNG))
	}

	if _, err := cubemap.ExportFaces(cm, dir, cubemap.WithParallelism(3)); err != nil {
		t.Fatal(err)
	}
	for _, face := range cubemap.Faces() {
		second := readFile(t, cubemap.FacePath(dir, face, cubemap.FormatPNG))
		if !bytes.Equal(first[face], second) {
			t.Errorf("face %s differs between exports", face)
		}
	}
}

func TestExportOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := cubemap.FacePath(dir, cubemap.PositiveZ, cubemap.FormatPNG)
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := cubemap.ExportFaces(patterned(16), dir); err != nil {
		t.Fatal(err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(readFile(t, path))); err != nil {
		t.Errorf("stale file was not replaced: %v", err)
	}
}

func TestExportRejectsInvalidInput(t *testing.T) {
	cases := map[string]*cubemap.Cubemap{
		"nil":       nil,
		"size 0":    {Size: 0},
		"size 8193": {Size: 8193},
		"size 8":    cubemap.New(8),
	}
	for name, cm := range cases {
		dir := filepath.Join(t.TempDir(), "out")
		_, err := cubemap.ExportFaces(cm, dir)
		if !errors.Is(err, cubemap.ErrInvalidInput) {
			t.Errorf("%s: should fail with invalid input but got %v", name, err)
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("%s: destination should not be created", name)
		}
	}

	if _, err := cubemap.ExportFaces(patterned(16), ""); !errors.Is(err, cubemap.ErrInvalidInput) {
		t.Errorf("empty destination should be invalid input but got %v", err)
	}
}

func TestExportDestinationNotCreatable(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := cubemap.ExportFaces(patterned(16), filepath.Join(parent, "sky"))
	if !errors.Is(err, cubemap.ErrFilesystem) {
		t.Errorf("should fail with a filesystem error but got %v", err)
	}
}

// blockFace puts a directory where the face file should go, so replacing it fails
// no matter which user runs the test.
func blockFace(t *testing.T, dir string, face cubemap.Face) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(cubemap.FacePath(dir, face, cubemap.FormatPNG), "keep"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestExportStopsAtFailedFace(t *testing.T) {
	dir := t.TempDir()
	blockFace(t, dir, cubemap.NegativeY)

	result, err := cubemap.ExportFaces(patterned(16), dir)
	if !errors.Is(err, cubemap.ErrFilesystem) {
		t.Fatalf("should fail with a filesystem error but got %v", err)
	}
	var exportErr *cubemap.ExportError
	if !errors.As(err, &exportErr) || exportErr.Face != cubemap.NegativeY {
		t.Errorf("error should identify face NegativeY: %v", err)
	}
	if !strings.Contains(err.Error(), "NegativeY") || !strings.Contains(err.Error(), dir) {
		t.Errorf("error should name face and path: %v", err)
	}

	// NegativeX comes first and stays, nothing after the failure is written
	if len(result.Files) != 1 || result.Files[cubemap.NegativeX] == "" {
		t.Errorf("only NegativeX should be written but got %v", result.Files)
	}
	if _, err := os.Stat(cubemap.FacePath(dir, cubemap.NegativeX, cubemap.FormatPNG)); err != nil {
		t.Errorf("earlier face should remain on disk: %v", err)
	}
	if _, err := os.Stat(cubemap.FacePath(dir, cubemap.PositiveZ, cubemap.FormatPNG)); !os.IsNotExist(err) {
		t.Error("later face should not be written")
	}
}

func TestExportIndependentFaces(t *testing.T) {
	options := map[string]cubemap.ExportOption{
		"sequential": cubemap.WithIndependentFaces(),
		"parallel":   cubemap.WithParallelism(6),
	}
	for name, opt := range options {
		dir := t.TempDir()
		blockFace(t, dir, cubemap.PositiveY)

		result, err := cubemap.ExportFaces(patterned(16), dir, opt)
		if !errors.Is(err, cubemap.ErrFilesystem) {
			t.Fatalf("%s: should fail with a filesystem error but got %v", name, err)
		}
		failed := cubemap.FailedFaces(err)
		if len(failed) != 1 || failed[0] != cubemap.PositiveY {
			t.Errorf("%s: only PositiveY should fail but got %v", name, failed)
		}
		if len(result.Files) != 5 {
			t.Errorf("%s: the other five faces should be written but got %d", name, len(result.Files))
		}
		for _, face := range cubemap.Faces() {
			if face == cubemap.PositiveY {
				continue
			}
			if _, err := os.Stat(cubemap.FacePath(dir, face, cubemap.FormatPNG)); err != nil {
				t.Errorf("%s: face %s should be written: %v", name, face, err)
			}
		}

		matches, _ := filepath.Glob(filepath.Join(dir, ".*.tmp"))
		if len(matches) != 0 {
			t.Errorf("%s: temp files left behind: %v", name, matches)
		}
	}
}

func TestFormatParse(t *testing.T) {
	for in, want := range map[string]cubemap.Format{"png": cubemap.FormatPNG, ".PNG": cubemap.FormatPNG, "bmp": cubemap.FormatBMP} {
		got, err := cubemap.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := cubemap.ParseFormat("jpg"); err == nil {
		t.Error("lossy formats should be rejected")
	}
}
