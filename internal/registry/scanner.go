package registry

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// ManifestName is the filename of packaging manifests
const ManifestName = "jar.mn"

// Scanner enumerates the files of a source tree
type Scanner interface {
	Scan(ctx context.Context, root string) (Paths, error)
}

// FSScanner walks the real filesystem
type FSScanner struct{}

// NewFSScanner creates a filesystem scanner
func NewFSScanner() *FSScanner {
	return &FSScanner{}
}

// Scan walks root depth-first and classifies manifests, .properties and
// .xhtml files. Test fixtures and obj-* build output are pruned. Symbolic
// links are not followed.
func (s *FSScanner) Scan(ctx context.Context, root string) (Paths, error) {
	paths := Paths{
		Manifests:  []string{},
		Properties: []string{},
		XHTML:      []string{},
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return paths, err
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != absRoot && isPrunedDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case name == ManifestName:
			paths.Manifests = append(paths.Manifests, path)
		case strings.HasSuffix(name, ".properties"):
			paths.Properties = append(paths.Properties, path)
		case strings.HasSuffix(name, ".xhtml"):
			paths.XHTML = append(paths.XHTML, path)
		}
		return nil
	})

	return paths, err
}

func isPrunedDir(name string) bool {
	return name == "test" || name == "tests" || strings.HasPrefix(name, "obj-")
}
