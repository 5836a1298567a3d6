package registry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// PlaceholderLocale stands in for whichever locale is selected at build time
	PlaceholderLocale = "@AB_CD@"
	// FallbackLocale is the only concrete locale the registry understands
	FallbackLocale = "en-US"

	directiveRelativeSrcDir = "relativesrcdir"
	declarationMarker       = "%"
)

// ErrUnsupportedLocale matches every LocaleError
var ErrUnsupportedLocale = errors.New("unsupported locale")

// LocaleError reports a locale declaration naming a locale other than the
// placeholder or the fallback locale.
type LocaleError struct {
	Manifest string
	Locale   string
}

// Error implements the error interface.
func (e *LocaleError) Error() string {
	return fmt.Sprintf("unexpected locale %q in %s", e.Locale, e.Manifest)
}

// Is lets errors.Is match ErrUnsupportedLocale.
func (e *LocaleError) Is(target error) bool {
	return target == ErrUnsupportedLocale
}

// ParseManifest reads the manifest at path and appends its declarations to
// reg. dir is the initial directory context, relative to the tree root.
func ParseManifest(path, dir string, reg *Registry) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return parseManifest(f, path, dir, reg)
}

// parseManifest handles two line classes in document order: relativesrcdir
// directives, which rebase every later declaration in the file, and
// "% content|locale|resource" declarations. Everything else is ignored.
func parseManifest(r io.Reader, path, dir string, reg *Registry) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		if newDir, ok := parseDirective(line); ok {
			dir = newDir
			continue
		}

		kind, fields, ok := parseDeclaration(line)
		if !ok {
			continue
		}

		pkg, fields := fields[0], fields[1:]
		if kind == KeyLocale {
			locale := ""
			if len(fields) > 0 {
				locale, fields = fields[0], fields[1:]
			}
			if locale != PlaceholderLocale && locale != FallbackLocale {
				return &LocaleError{Manifest: path, Locale: locale}
			}
		}

		entry := Entry{Dir: dir}
		if len(fields) > 0 {
			entry.URI = fields[0]
			if flags := fields[1:]; len(flags) > 0 {
				entry.Flags = append([]string(nil), flags...)
			}
		}

		switch kind {
		case KeyContent:
			reg.Content.add(pkg, entry)
		case KeyLocale:
			reg.Locale.add(pkg, entry)
		case KeyResource:
			reg.Resource.add(pkg, entry)
		}
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return nil
}

// parseDirective recognizes "relativesrcdir <path>:" and returns the path.
func parseDirective(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, directiveRelativeSrcDir)
	if !ok || rest == "" || !isSpace(rest[0]) {
		return "", false
	}
	rest = strings.TrimLeft(rest, " \t")
	colon := strings.LastIndexByte(rest, ':')
	if colon < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:colon]), true
}

// parseDeclaration recognizes "% <kind> <package> ..." and returns the kind
// and the fields following it. The package name is always fields[0].
func parseDeclaration(line string) (string, []string, bool) {
	if !strings.HasPrefix(line, declarationMarker) {
		return "", nil, false
	}
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != declarationMarker {
		return "", nil, false
	}
	switch fields[1] {
	case KeyContent, KeyLocale, KeyResource:
		return fields[1], fields[2:], true
	default:
		return "", nil, false
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
