package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conduit-lang/chromeuri/internal/registry"
	"github.com/conduit-lang/chromeuri/internal/resolver"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ UNKNOWN PACKAGE: browsr
//	   No content declarations for package 'browsr'.
//
//	   Did you mean: browser?
//
//	   → List content packages: chromeuri packages --kind content
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	default:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(opts.Context))
		if opts.Problem != "" {
			bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
		}
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// ErrorOptionsFor maps core errors to user-facing messages. Unrecognized
// errors are reported as-is.
func ErrorOptionsFor(err error, noColor bool) ErrorOptions {
	var upe *resolver.UnknownPackageError
	var le *registry.LocaleError

	switch {
	case errors.As(err, &upe):
		return ErrorOptions{
			Level:       ErrorLevelError,
			Context:     "unknown package: " + upe.Package,
			Problem:     fmt.Sprintf("No %s declarations for package '%s'.", upe.Section, upe.Package),
			Suggestions: FindSimilar(upe.Package, upe.Known, nil),
			HelpCommands: []string{
				fmt.Sprintf("List %s packages: chromeuri packages --kind %s", upe.Section, upe.Section),
			},
			NoColor: noColor,
		}
	case errors.As(err, &le):
		return ErrorOptions{
			Level:       ErrorLevelError,
			Context:     "invalid manifest",
			Problem:     fmt.Sprintf("Locale '%s' in %s is not supported.", le.Locale, le.Manifest),
			Consequence: fmt.Sprintf("Only %s and %s locale declarations can be resolved.", registry.PlaceholderLocale, registry.FallbackLocale),
			NoColor:     noColor,
		}
	default:
		return ErrorOptions{
			Level:   ErrorLevelError,
			Problem: err.Error(),
			NoColor: noColor,
		}
	}
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "configuration error",
		Problem: message,
		HelpCommands: []string{
			"View config: cat chromeuri.yml",
			"Get help: chromeuri --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
	})
}
