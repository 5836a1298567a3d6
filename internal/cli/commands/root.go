package commands

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/chromeuri/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

type resolveOptions struct {
	root  string
	json  bool
	clear bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	global := &globalOptions{}
	opts := &resolveOptions{}

	rootCmd := &cobra.Command{
		Use:   "chromeuri [uri]",
		Short: "Resolve chrome:// and resource:// URIs to files in a source tree",
		Long: color.CyanString(`chromeuri - chrome:// URI resolver

Scans a source tree for jar.mn manifests and maps symbolic URIs to the
files they refer to. The registry built from the manifests is cached per
tree root until the cache is cleared.

URI forms:
  • chrome://<package>/content/<path>   content files
  • chrome://<package>/locale/<path>    en-US locale files
  • resource://<alias>/<path>           declared resource entries (unresolved)
  • <key>                               registry introspection (content, locale, resource, paths)`),
		Example: `  chromeuri chrome://browser/content/browser.xhtml
  chromeuri chrome://global/locale/intl.properties --root ~/src/gecko
  chromeuri resource
  chromeuri --clear`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var uri string
			if len(args) > 0 {
				uri = args[0]
			}
			return runResolve(cmd, global, opts, uri)
		},
	}

	rootCmd.PersistentFlags().StringVar(&global.configFile, "config", "", "Path to a chromeuri.yml config file")
	rootCmd.PersistentFlags().BoolVar(&global.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&opts.root, "root", "r", "", "Source tree root (default: working directory)")
	rootCmd.Flags().BoolVar(&opts.json, "json", false, "Print resolved paths as a JSON array")
	rootCmd.Flags().BoolVarP(&opts.clear, "clear", "c", false, "Clear the registry cache")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewCacheCommand(global))
	rootCmd.AddCommand(NewPackagesCommand(global))

	return rootCmd
}

func runResolve(cmd *cobra.Command, global *globalOptions, opts *resolveOptions, uri string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, global)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.clear {
		removed, err := a.resolver.ClearCache(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Cache cleared, removed entries: %d", removed), global.noColor)
		if uri == "" {
			return nil
		}
	}

	root := opts.root
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	res, err := a.resolver.Resolve(ctx, root, uri)
	if err != nil {
		return err
	}

	return ui.WriteResult(cmd.OutOrStdout(), res, ui.OutputOptions{Root: root, JSON: opts.json})
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the chromeuri version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "chromeuri version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd, err)
		return err
	}
	return nil
}

func reportError(cmd *cobra.Command, err error) {
	noColor := color.NoColor
	if isConfigError(err) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), noColor))
		return
	}
	ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptionsFor(err, noColor))
}
