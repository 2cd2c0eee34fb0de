package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"

	"skyboxer/cubemap"
	"skyboxer/ibl"
	"skyboxer/sky"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestSkyboxName(t *testing.T) {
	if got := skyboxName("New Skybox", "in/sunset.png", false); got != "New Skybox" {
		t.Errorf("single input should use the configured name but got %q", got)
	}
	if got := skyboxName("New Skybox", "in/sunset.png", true); got != "sunset" {
		t.Errorf("batch input should use the file name but got %q", got)
	}
}

func TestDetectLayout(t *testing.T) {
	if got := detectLayout(image.Rect(0, 0, 16, 96)); got != layoutStrip {
		t.Errorf("16x96 should be a strip but was %s", got)
	}
	if got := detectLayout(image.Rect(0, 0, 128, 64)); got != layoutEquirect {
		t.Errorf("128x64 should be equirectangular but was %s", got)
	}
}

func TestLoadRenderer(t *testing.T) {
	dir := t.TempDir()

	strip := image.NewRGBA(image.Rect(0, 0, 16, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 16; x++ {
			strip.SetRGBA(x, y, color.RGBA{uint8(y), 0, 0, 0xff})
		}
	}
	stripPath := filepath.Join(dir, "strip.png")
	writePNG(t, stripPath, strip)

	r, err := loadRenderer(stripPath, layoutAuto, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*sky.Static); !ok {
		t.Errorf("strip should load as a static sky but got %T", r)
	}
	if _, err := loadRenderer(stripPath, layoutEquirect, 1, 1); err != nil {
		t.Errorf("layout should be overridable: %v", err)
	}

	env := ibl.NewIblEnv(make([]float32, 6*16*16*3), 16, 1)
	envPath := filepath.Join(dir, "sky.iblenv")
	f, err := os.Create(envPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := ibl.EncodeIblEnv(f, env); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, err = loadRenderer(envPath, layoutAuto, 2.2, 1)
	if err != nil {
		t.Fatal(err)
	}
	cm, err := r.RenderCubemap(0)
	if err != nil {
		t.Fatal(err)
	}
	if cm.Size != 16 {
		t.Errorf("ibl environment should keep its size 16 but was %d", cm.Size)
	}

	if _, err := loadRenderer(filepath.Join(dir, "missing.png"), layoutAuto, 1, 1); err == nil {
		t.Error("missing file should fail")
	}
}

func TestWatchMatching(t *testing.T) {
	globs := []string{"in/*.png", "in/*.iblenv", "other/sky.png"}
	dirs := watchedDirs(globs)
	if len(dirs) != 2 || dirs[0] != "in" || dirs[1] != "other" {
		t.Errorf("expected the directories in and other but got %v", dirs)
	}
	if !matchesAny(globs, "in/a.png") || !matchesAny(globs, "./other/sky.png") {
		t.Error("changed sources should match their globs")
	}
	if matchesAny(globs, "in/a.bmp") {
		t.Error("unrelated files should not match")
	}
}

func TestWriteSkybox(t *testing.T) {
	args := newCommonArgs()
	args.cfg.Out = t.TempDir()
	cargs = &args

	cm := cubemap.New(16)
	if err := writeSkybox(cm, "Test"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(args.cfg.Out, "Test"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 7 {
		t.Errorf("expected six faces and a material but found %d files", len(entries))
	}
}

func TestExportSmallIblEnv(t *testing.T) {
	args := newCommonArgs()
	args.cfg.Out = t.TempDir()
	args.cfg.Resolution = 64
	cargs = &args

	envPath := filepath.Join(t.TempDir(), "small.iblenv")
	f, err := os.Create(envPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := ibl.EncodeIblEnv(f, ibl.NewIblEnv(make([]float32, 6*8*8*3), 8, 1)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := exportFile(layoutAuto, envPath, "Small"); err != nil {
		t.Fatal(err)
	}

	face, err := os.Open(cubemap.FacePath(filepath.Join(args.cfg.Out, "Small"), cubemap.NegativeX, cubemap.FormatPNG))
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()
	cfg, err := png.DecodeConfig(face)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || cfg.Height != 64 {
		t.Errorf("8 px environment should be exported at 64x64 but was %dx%d", cfg.Width, cfg.Height)
	}

	args.cfg.Resolution = 0
	if err := exportFile(layoutAuto, envPath, "Native"); err == nil {
		t.Error("exporting the 8 px environment at its native size should fail")
	}
}

func TestIsSourceChange(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sky.png")
	if err := os.WriteFile(src, nil, 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "New Skybox")
	if err := os.Mkdir(out, 0755); err != nil {
		t.Fatal(err)
	}
	globs := []string{filepath.Join(dir, "*")}

	if !isSourceChange(globs, fsnotify.Event{Name: src, Op: fsnotify.Write}) {
		t.Error("a written source file should trigger an export")
	}
	if isSourceChange(globs, fsnotify.Event{Name: out, Op: fsnotify.Create}) {
		t.Error("a created directory should not trigger an export")
	}
	if isSourceChange(globs, fsnotify.Event{Name: src, Op: fsnotify.Chmod}) {
		t.Error("a permission change should not trigger an export")
	}
	if isSourceChange(globs, fsnotify.Event{Name: filepath.Join(dir, "gone.png"), Op: fsnotify.Create}) {
		t.Error("a file removed before the event is handled should not trigger an export")
	}
}
