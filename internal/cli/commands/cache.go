package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/chromeuri/internal/cache"
	"github.com/conduit-lang/chromeuri/internal/cli/config"
	"github.com/conduit-lang/chromeuri/internal/cli/ui"
)

// stdinIsTerminal reports whether prompts can be shown
var stdinIsTerminal = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// confirmClear asks the user before removing cached registries
var confirmClear = func(backend string) (bool, error) {
	ok := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Remove all cached registries from the %s cache?", backend),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// NewCacheCommand creates the cache command
func NewCacheCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Registry cache commands",
		Long: `Manage the registry cache.

Registries are cached per tree root and reused until cleared. Available
subcommands:
  clear - Remove every cached registry
  info  - Show the cache backend and whether a tree is cached`,
	}

	cmd.AddCommand(newCacheClearCommand(global))
	cmd.AddCommand(newCacheInfoCommand(global))

	return cmd
}

func newCacheClearCommand(global *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached registry",
		Long:  "Remove all registry records from the configured cache backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(cmd, global, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runCacheClear(cmd *cobra.Command, global *globalOptions, yes bool) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, global)
	if err != nil {
		return err
	}
	defer a.Close()

	if !yes && stdinIsTerminal() {
		ok, err := confirmClear(a.config.Cache.Backend)
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if !ok {
			infoColor := color.New(color.FgYellow)
			if global.noColor {
				infoColor.DisableColor()
			}
			infoColor.Fprintln(cmd.OutOrStdout(), "Cache left untouched")
			return nil
		}
	}

	removed, err := a.resolver.ClearCache(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Cache cleared, removed entries: %d", removed), global.noColor)
	return nil
}

func newCacheInfoCommand(global *globalOptions) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache configuration and status",
		Long:  "Show the configured cache backend and whether a registry is cached for the tree root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheInfo(cmd, global, root)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Source tree root (default: working directory)")

	return cmd
}

func runCacheInfo(cmd *cobra.Command, global *globalOptions, root string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, global)
	if err != nil {
		return err
	}
	defer a.Close()

	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("invalid root %s: %w", root, err)
	}

	_, cached, err := a.builder.Cached(ctx, absRoot)
	if err != nil {
		return err
	}

	status := "no"
	if cached {
		status = "yes"
	}

	kv := ui.NewKeyValueTable(cmd.OutOrStdout(), global.noColor)
	kv.AddRow("Backend", a.config.Cache.Backend)
	kv.AddRow("Location", cacheLocation(a.config))
	kv.AddRow("Structure version", strconv.Itoa(cache.StructureVersion))
	kv.AddRow("Root", absRoot)
	kv.AddRow("Record", cache.Key(absRoot))
	kv.AddRow("Cached", status)
	kv.Render()
	return nil
}

// cacheLocation describes where records live without echoing credentials
func cacheLocation(cfg *config.Config) string {
	c := cfg.Cache
	switch c.Backend {
	case cache.BackendFile:
		return c.Dir
	case cache.BackendRedis:
		return fmt.Sprintf("%s db %d prefix %q", c.Redis.Addr, c.Redis.DB, c.Redis.Prefix)
	case cache.BackendSQLite, cache.BackendPostgres:
		return "table " + c.SQL.Table
	case cache.BackendMemory:
		return "process memory"
	default:
		return "-"
	}
}
