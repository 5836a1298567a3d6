package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/conduit-lang/chromeuri/internal/resolver"
)

// OutputOptions controls how results are printed
type OutputOptions struct {
	// Root is the tree root; resolved paths are printed relative to it
	Root string
	// JSON prints path results as a JSON array of absolute paths
	JSON bool
}

// WriteResult prints a resolution result. Paths are printed one per line
// relative to the root; raw registry data is printed as indented JSON.
func WriteResult(w io.Writer, res *resolver.Result, opts OutputOptions) error {
	switch res.Kind {
	case resolver.KindPaths:
		if opts.JSON {
			return writeJSON(w, res.Paths)
		}
		for _, path := range res.Paths {
			fmt.Fprintln(w, relativeTo(opts.Root, path))
		}
		return nil
	case resolver.KindRaw:
		return writeJSON(w, res.Raw)
	default:
		return fmt.Errorf("unknown result kind %v", res.Kind)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func relativeTo(root, path string) string {
	if root == "" {
		return path
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, path)
	if err != nil {
		return path
	}
	return rel
}
