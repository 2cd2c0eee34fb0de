package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/slices"

	"skyboxer/libutil"
)

const watchSettle = 250 * time.Millisecond

type watchArgs struct {
	exportArgs
}

func createWatchCommand() *command {

	args := watchArgs{
		exportArgs: exportArgs{
			commonArgs: newCommonArgs(),
			layout:     layoutAuto,
		},
	}

	flags := flag.NewFlagSet("watch", flag.ExitOnError)

	registerCommonFlags(flags, &args.commonArgs)
	flags.StringVar(&args.layout, "layout", args.layout, "the image layout; auto, strip or equirect")
	flags.Var((*float32Value)(&args.cfg.Tonemap.Gamma), "gamma", "the gamma applied to ibl environments")
	flags.Var((*float32Value)(&args.cfg.Tonemap.Scale), "scale", "the brightness scale applied to ibl environments")

	return &command{
		Name: "watch",
		Help: "export skyboxes again whenever their source files change",
		Run: func(self *command) {
			if self.Flags.NArg() < 1 || !validLayout(args.layout) {
				printCommandUsage(self, " file-glob...")
			}
			setCommonArgs(self.Flags, &args.commonArgs)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			harderr(runWatch(ctx, args, self.Flags.Args()))
		},
		Flags: flags,
	}
}

// watchedDirs returns the distinct directories of the glob patterns.
func watchedDirs(globs []string) []string {
	seen := map[string]bool{}
	dirs := []string{}
	for _, g := range globs {
		dir := filepath.Dir(g)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func matchesAny(globs []string, name string) bool {
	name = filepath.Clean(name)
	for _, g := range globs {
		if ok, _ := filepath.Match(filepath.Clean(g), name); ok {
			return true
		}
	}
	return false
}

// isSourceChange reports whether e wrote a watched source file. Directories
// match broad globs too, the exported skybox directory among them.
func isSourceChange(globs []string, e fsnotify.Event) bool {
	if e.Op&(fsnotify.Write|fsnotify.Create) == 0 || !matchesAny(globs, e.Name) {
		return false
	}
	info, err := os.Stat(e.Name)
	return err == nil && !info.IsDir()
}

func runWatch(ctx context.Context, args watchArgs, globs []string) error {
	log := libutil.Logger()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range watchedDirs(globs) {
		if err := w.Add(dir); err != nil {
			return err
		}
		log.Debug("Watching", "dir", filepath.ToSlash(dir))
	}

	initial := gatherInputFiles(globs)
	batch := len(initial) > 1
	runExport(args.exportArgs, initial, batch)
	log.Info("Waiting for changes, press Ctrl+C to stop")

	// editors write files in several steps, exports wait until the events settle
	pending := map[string]bool{}
	settle := time.NewTimer(watchSettle)
	settle.Stop()

	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isSourceChange(globs, e) {
				continue
			}
			pending[e.Name] = true
			settle.Reset(watchSettle)

		case <-settle.C:
			files := make([]string, 0, len(pending))
			for p := range pending {
				files = append(files, p)
			}
			clear(pending)
			slices.Sort(files)
			runExport(args.exportArgs, files, batch)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			softerr(err)

		case <-ctx.Done():
			log.Info("Stopped watching")
			return nil
		}
	}
}
