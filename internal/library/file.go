package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// FileSource reads a catalog from a file, or from every catalog file in a
// directory. Directory entries are merged in lexical order; the first file with
// a schema_version sets it.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

// Fetch reads and decodes the catalog.
func (s FileSource) Fetch(ctx context.Context) (*model.Catalog, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return readCatalogFile(s.Path)
	}

	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatForPath(e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no catalog files in %s", s.Path)
	}
	sort.Strings(names)

	merged := &model.Catalog{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cat, err := readCatalogFile(filepath.Join(s.Path, name))
		if err != nil {
			return nil, err
		}
		if merged.SchemaVersion == "" {
			merged.SchemaVersion = cat.SchemaVersion
		}
		merged.Components = append(merged.Components, cat.Components...)
		merged.Tiers = append(merged.Tiers, cat.Tiers...)
	}
	return merged, nil
}

// Publish writes the catalog to Path in the format its extension names.
func (s FileSource) Publish(_ context.Context, cat *model.Catalog) error {
	f, ok := FormatForPath(s.Path)
	if !ok {
		return fmt.Errorf("%s: unknown catalog extension", s.Path)
	}
	data, err := Encode(cat, f)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}

func readCatalogFile(path string) (*model.Catalog, error) {
	f, ok := FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: unknown catalog extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}
