package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"

	"skyboxer/cubemap"
	"skyboxer/ibl"
	"skyboxer/libutil"
	"skyboxer/sky"
)

const (
	layoutAuto     = "auto"
	layoutStrip    = "strip"
	layoutEquirect = "equirect"
)

type exportArgs struct {
	commonArgs
	layout string
}

func createExportCommand() *command {

	args := exportArgs{
		commonArgs: newCommonArgs(),
		layout:     layoutAuto,
	}

	flags := flag.NewFlagSet("export", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	flags.StringVar(&args.layout, "layout", args.layout, "the image layout; auto, strip or equirect")
	flags.Var((*float32Value)(&args.cfg.Tonemap.Gamma), "gamma", "the gamma applied to ibl environments")
	flags.Var((*float32Value)(&args.cfg.Tonemap.Scale), "scale", "the brightness scale applied to ibl environments")

	return &command{
		Name: "export",
		Help: "export images and ibl environments as six sided skyboxes",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 || !validLayout(args.layout) {
				printCommandUsage(self, " file-glob...")
			}
			setCommonArgs(self.Flags, &args.commonArgs)

			files := gatherInputFiles(self.Flags.Args())
			runExport(args, files, len(files) > 1)
		},
		Flags: flags,
	}
}

func validLayout(layout string) bool {
	switch layout {
	case layoutAuto, layoutStrip, layoutEquirect:
		return true
	}
	return false
}

func runExport(args exportArgs, inputFiles []string, batch bool) {
	log := libutil.Logger()

	success := 0
	start := time.Now()
	for i, p := range inputFiles {
		log.Infof("Processing file %d/%d %q ...", i+1, len(inputFiles), filepath.ToSlash(filepath.Clean(p)))
		err := exportFile(args.layout, p, skyboxName(cargs.cfg.Name, p, batch))
		softerr(err)
		if err == nil {
			success++
		}
	}
	took := float32(time.Since(start).Milliseconds()) / 1000
	log.Infof("Exported %d/%d files in %.3f seconds", success, len(inputFiles), took)
}

// skyboxName is the configured name for a single input. Batches use the file
// names so the skyboxes don't overwrite each other.
func skyboxName(name string, path string, batch bool) string {
	if !batch {
		return name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func exportFile(layout string, p string, name string) error {
	r, err := loadRenderer(p, layout, cargs.cfg.Tonemap.Gamma, cargs.cfg.Tonemap.Scale)
	if err != nil {
		return err
	}

	cm, err := r.RenderCubemap(cargs.cfg.Resolution)
	if err != nil {
		return err
	}

	return writeSkybox(cm, name)
}

// loadRenderer opens a source file. IBL environments are tone mapped with
// gamma and scale, images are read as a vertical strip or an equirectangular
// panorama.
func loadRenderer(p string, layout string, gamma, scale float32) (cubemap.Renderer, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(p), ".iblenv") {
		env, err := ibl.DecodeIblEnv(f)
		if err != nil {
			return nil, err
		}
		faces, err := ibl.Tonemap(env, gamma, scale)
		if err != nil {
			return nil, err
		}
		// small environments are fine as long as a supported resolution is requested
		return sky.NewFaces(faces)
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", p, err)
	}
	libutil.Logger().Debug("Decoded image", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	if layout == layoutAuto {
		layout = detectLayout(img.Bounds())
	}

	switch layout {
	case layoutStrip:
		return sky.NewStrip(img)
	case layoutEquirect:
		return sky.NewEquirect(img)
	}
	return nil, fmt.Errorf("unknown layout %q", layout)
}

func detectLayout(bounds image.Rectangle) string {
	if bounds.Dy() == 6*bounds.Dx() {
		return layoutStrip
	}
	return layoutEquirect
}

type float32Value float32

func (f *float32Value) Set(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*f = float32Value(v)
	return nil
}

func (f *float32Value) String() string {
	return strconv.FormatFloat(float64(*f), 'g', -1, 32)
}
