// Package manifest defines the build-time input surface: an ordered list of
// program identifiers and paths whose order assigns each program its index
// in the packed image.
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"golang.org/x/sync/errgroup"
)

// Entry names one compiled user program to embed.
type Entry struct {
	// Name is the program's build-time identifier. It is recorded in the
	// image metadata but is not needed at run time.
	Name string `json:"name"`

	// Path locates the compiled binary, relative to the manifest's
	// directory unless absolute.
	Path string `json:"path"`
}

// Manifest is the ordered set of programs to embed. Manifest order defines
// program index.
type Manifest struct {
	Programs []Entry `json:"programs"`
}

// Program is a resolved manifest entry: the program's index, name, and raw
// bytes, ready for embedding.
type Program struct {
	Index int
	Name  string
	Bytes []byte
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every entry has a unique, non-empty name and a path.
// An empty manifest is valid: it produces an image with zero programs.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Programs))
	for i, e := range m.Programs {
		if e.Name == "" {
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidManifest, i)
		}
		if e.Path == "" {
			return fmt.Errorf("%w: entry %q has no path", ErrInvalidManifest, e.Name)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: duplicate program name %q", ErrInvalidManifest, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// Resolve reads every entry's bytes, preserving manifest order as program
// index. Relative paths are resolved against baseDir. A missing or
// unreadable binary fails the whole resolution with ErrUnreadableProgram.
func (m *Manifest) Resolve(ctx context.Context, baseDir string) ([]Program, error) {
	programs := make([]Program, len(m.Programs))

	g, _ := errgroup.WithContext(ctx)
	for i, e := range m.Programs {
		g.Go(func() error {
			path := e.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrUnreadableProgram, e.Name, err)
			}
			programs[i] = Program{Index: i, Name: e.Name, Bytes: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return programs, nil
}
