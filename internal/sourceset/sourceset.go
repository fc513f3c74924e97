// Package sourceset loads discovered files into in-memory source units.
package sourceset

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/discover"
	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
)

// Set is a fully loaded collection of source units.
type Set struct {
	Units []model.SourceUnit
	// Commands lists the unit paths that live directly in the commands directory.
	Commands []string
}

// Load reads every file concurrently and returns once all reads have
// finished. Unit order follows files. Any read failure fails the load.
func Load(ctx context.Context, fsys afero.Fs, root string, files []discover.FileEntry, commandsDir string) (*Set, error) {
	units := make([]model.SourceUnit, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := afero.ReadFile(fsys, filepath.Join(root, filepath.FromSlash(f.Path)))
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Path, err)
			}
			// Each goroutine writes only its own slot.
			units[i] = model.SourceUnit{Path: f.Path, Text: string(data)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &Set{Units: units}
	dir := strings.Trim(path.Clean(filepath.ToSlash(commandsDir)), "/")
	for _, u := range units {
		if path.Dir(u.Path) == dir {
			set.Commands = append(set.Commands, u.Path)
		}
	}
	return set, nil
}
