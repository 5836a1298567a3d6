package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/chromeuri/internal/cli/ui"
	"github.com/conduit-lang/chromeuri/internal/registry"
)

// NewPackagesCommand creates the packages command
func NewPackagesCommand(global *globalOptions) *cobra.Command {
	var (
		root string
		kind string
	)

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List declared packages",
		Long: `List the content, locale and resource packages declared by the
manifests under the tree root, with their entry counts and directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackages(cmd, global, root, kind)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Source tree root (default: working directory)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only list one kind (content, locale, resource)")

	return cmd
}

func runPackages(cmd *cobra.Command, global *globalOptions, root, kind string) error {
	sections := []struct {
		name string
		pick func(*registry.Registry) registry.Packages
	}{
		{registry.KeyContent, func(r *registry.Registry) registry.Packages { return r.Content }},
		{registry.KeyLocale, func(r *registry.Registry) registry.Packages { return r.Locale }},
		{registry.KeyResource, func(r *registry.Registry) registry.Packages { return r.Resource }},
	}

	switch kind {
	case "", registry.KeyContent, registry.KeyLocale, registry.KeyResource:
	default:
		return fmt.Errorf("unknown package kind %q (expected content, locale or resource)", kind)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, global)
	if err != nil {
		return err
	}
	defer a.Close()

	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	reg, err := a.resolver.Registry(ctx, root)
	if err != nil {
		return err
	}

	table := ui.NewTable(cmd.OutOrStdout(), global.noColor, "KIND", "PACKAGE", "ENTRIES", "DIRS")
	for _, s := range sections {
		if kind != "" && kind != s.name {
			continue
		}
		pkgs := s.pick(reg)
		names := make([]string, 0, len(pkgs))
		for name := range pkgs {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			entries := pkgs[name]
			table.AddRow(s.name, name, strconv.Itoa(len(entries)), entryDirs(entries))
		}
	}

	if table.Len() == 0 {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning("No packages declared under "+root, global.noColor))
		return nil
	}
	table.Render()
	return nil
}

// entryDirs lists the distinct declaring directories in entry order
func entryDirs(entries []registry.Entry) string {
	seen := make(map[string]bool, len(entries))
	var dirs []string
	for _, e := range entries {
		dir := e.Dir
		if dir == "" {
			dir = "."
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return strings.Join(dirs, ", ")
}
