package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spigell/screener/internal/identity"
)

// Dir reads artifacts from a flat local directory. Subdirectories are ignored.
type Dir struct {
	path   string
	filter Filter
}

func NewDir(path string, filter Filter) *Dir {
	return &Dir{path: path, filter: filter}
}

// List returns the matching files sorted by name.
func (d *Dir) List(ctx context.Context) ([]identity.Artifact, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", d.path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if d.filter != nil && !d.filter(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	artifacts := make([]identity.Artifact, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(d.path, name))
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", name, err)
		}
		artifacts = append(artifacts, identity.Artifact{Filename: name, Data: data})
	}

	return artifacts, nil
}
