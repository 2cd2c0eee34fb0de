package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"skyboxer/config"
	"skyboxer/cubemap"
	"skyboxer/libutil"
	"skyboxer/material"
)

type commonArgs struct {
	cfg        config.Config
	configPath string
	quiet      bool
	verbose    bool
	supress    bool
}

var cargs *commonArgs

type command struct {
	Run   func(self *command)
	Name  string
	Help  string
	Flags *flag.FlagSet
}

var commands = []*command{}

func printGeneralUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [arguments]\n\n", exe)
	fmt.Fprintf(os.Stderr, "The commands are:\n\n")
	longest := slices.MaxFunc(commands, func(a, b *command) int {
		return len(a.Name) - len(b.Name)
	})
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "    %*s%s\n", -len(longest.Name)-4, c.Name, c.Help)
	}
	fmt.Fprintln(os.Stderr, "")
	os.Exit(1)
}

func printCommandUsage(cmd *command, suffix string) {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s %s [arguments]%s\n\n", exe, cmd.Name, suffix)
	fmt.Fprintf(os.Stderr, "The arguments are:\n\n")
	cmd.Flags.SetOutput(os.Stderr)
	cmd.Flags.PrintDefaults()
	os.Exit(1)
}

func main() {
	commands = append(commands, createExportCommand())
	commands = append(commands, createRenderCommand())
	commands = append(commands, createWatchCommand())

	slices.SortFunc(commands, func(a, b *command) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(os.Args) < 2 {
		printGeneralUsage()
	}

	var cmd *command
	for _, c := range commands {
		if strings.EqualFold(c.Name, os.Args[1]) {
			cmd = c
			break
		}
	}
	if cmd == nil {
		printGeneralUsage()
	}

	err := cmd.Flags.Parse(os.Args[2:])
	harderr(err)

	cmd.Run(cmd)
}

func newCommonArgs() commonArgs {
	return commonArgs{cfg: config.Default()}
}

func registerCommonFlags(flags *flag.FlagSet, args *commonArgs) {
	cfg := &args.cfg
	flags.StringVar(&args.configPath, "config", args.configPath, "a toml file with default settings, flags take precedence")
	flags.StringVar(&cfg.Out, "out", cfg.Out, "the output directory, the skybox is written to a sub directory")
	flags.StringVar(&cfg.Out, "o", cfg.Out, "shorthand for out")
	flags.StringVar(&cfg.Name, "name", cfg.Name, "the skybox name and sub directory")
	flags.IntVar(&cfg.Resolution, "resolution", cfg.Resolution, "the cube map face resolution from 16 to 8192, 0 picks one from the source")
	flags.IntVar(&cfg.Resolution, "r", cfg.Resolution, "shorthand for resolution")
	flags.Var(&cfg.Format, "format", "the face image format; png or bmp")
	flags.StringVar(&cfg.Compression, "compress", cfg.Compression, "the png compression; default, none, fast or best")
	flags.IntVar(&cfg.Parallel, "parallel", cfg.Parallel, "the number of faces written at the same time")
	flags.BoolVar(&cfg.Independent, "independent", cfg.Independent, "keep writing the other faces when one fails")
	flags.BoolVar(&cfg.Material, "material", cfg.Material, "write the skybox material reference")
	flags.BoolVar(&args.quiet, "quiet", args.quiet, "disables informational logging")
	flags.BoolVar(&args.quiet, "q", args.quiet, "shorthand for quiet")
	flags.BoolVar(&args.verbose, "verbose", args.verbose, "enables debug logging")
	flags.BoolVar(&args.verbose, "v", args.verbose, "shorthand for verbose")
	flags.BoolVar(&args.supress, "supress", args.supress, "disables soft error logging")
}

// setCommonArgs loads the config file and applies the command line on top of it.
func setCommonArgs(flags *flag.FlagSet, args *commonArgs) {
	cargs = args
	libutil.Configure(args.quiet, args.verbose)

	if args.configPath != "" {
		cfg, err := config.Load(args.configPath)
		harderr(err)
		args.cfg = cfg
		// flags are bound to args.cfg, parsing again restores the explicit ones
		harderr(flags.Parse(os.Args[2:]))
		libutil.Configure(args.quiet, args.verbose)
	}

	harderr(args.cfg.Normalize())

	if args.cfg.Out == "" {
		var err error
		args.cfg.Out, err = os.Getwd()
		harderr(err)
	}

	_, err := os.Stat(args.cfg.Out)
	if err != nil {
		harderr(fmt.Errorf("cannot stat output directory: %w", err))
	}
}

func gatherInputFiles(globs []string) []string {
	matched := []string{}

	for _, g := range globs {
		m, err := filepath.Glob(g)
		softerr(err)
		matched = append(matched, m...)
	}

	return matched
}

// writeSkybox exports the faces of cm to out/name and binds them in a material.
func writeSkybox(cm *cubemap.Cubemap, name string) error {
	cfg := &cargs.cfg
	dir := filepath.Join(cfg.Out, name)
	log := libutil.Logger()

	log.Info("Writing skybox", "dir", filepath.ToSlash(filepath.Clean(dir)), "size", cm.Size, "format", cfg.Format)

	opts := append(cfg.ExportOptions(), cubemap.WithLogger(log))
	result, err := cubemap.ExportFaces(cm, dir, opts...)
	if err != nil {
		return err
	}

	if !cfg.Material {
		return nil
	}
	mat, err := material.New(name, result)
	if err != nil {
		return err
	}
	path, err := mat.Write(dir)
	if err != nil {
		return err
	}
	log.Debug("Wrote material", "path", path, "guid", mat.GUID)
	return nil
}

func softerr(err error) bool {
	if err != nil && !cargs.supress {
		libutil.Logger().Error(err)
		return true
	}
	return err != nil
}

func harderr(err error) {
	if err != nil {
		libutil.Logger().Fatal(err)
	}
}
