package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"skyboxer/ibl"
	"skyboxer/libutil"
	"skyboxer/sky"
)

type renderArgs struct {
	commonArgs
	iblenv   string
	compress int
}

func createRenderCommand() *command {

	args := renderArgs{
		commonArgs: newCommonArgs(),
		compress:   1,
	}

	flags := flag.NewFlagSet("render", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	flags.StringVar(&args.iblenv, "iblenv", args.iblenv, "also write the sky as an ibl environment to this file")
	flags.IntVar(&args.compress, "compress-ibl", args.compress, "the lz4 compression level of the ibl environment; 0 = none, 1 = fast, 2-10 = high")
	flags.Var((*float32Value)(&args.cfg.Gradient.Pitch), "pitch", "the sky pitch in degrees")
	flags.Var((*float32Value)(&args.cfg.Gradient.Yaw), "yaw", "the sky yaw in degrees")

	return &command{
		Name: "render",
		Help: "render a procedural gradient sky as a six sided skybox",
		Run: func(self *command) {
			if self.Flags.NArg() > 0 || args.compress < 0 || args.compress > 10 {
				printCommandUsage(self, "")
			}
			setCommonArgs(self.Flags, &args.commonArgs)

			harderr(runRender(args))
		},
		Flags: flags,
	}
}

func runRender(args renderArgs) error {
	cfg := &cargs.cfg
	g := cfg.Gradient
	gradient := sky.NewGradient(vec3(g.Zenith), vec3(g.Horizon), vec3(g.Ground), g.Pitch, g.Yaw)

	cm, err := gradient.RenderCubemap(cfg.Resolution)
	if err != nil {
		return err
	}
	if err := writeSkybox(cm, cfg.Name); err != nil {
		return err
	}

	if args.iblenv == "" {
		return nil
	}

	buf := bytes.NewBuffer(nil)
	err = ibl.EncodeCubemap(buf, cm, ibl.WithGamma(cfg.Tonemap.Gamma), ibl.WithCompression(args.compress-1))
	if err != nil {
		return err
	}
	if err := os.WriteFile(args.iblenv, buf.Bytes(), 0644); err != nil {
		return err
	}
	libutil.Logger().Info("Wrote ibl environment", "path", filepath.ToSlash(filepath.Clean(args.iblenv)))
	return nil
}

func vec3(c [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{c[0], c[1], c[2]}
}
