package resolver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/conduit-lang/chromeuri/internal/registry"
)

// ErrUnknownPackage matches every UnknownPackageError
var ErrUnknownPackage = errors.New("unknown package")

// UnknownPackageError is returned when a chrome:// URI names a package with
// no declarations for the requested section.
type UnknownPackageError struct {
	Package string
	Section string
	// Known lists the packages that do declare Section, sorted
	Known []string
}

// Error implements the error interface.
func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("unknown package %s (no %s declarations)", e.Package, e.Section)
}

// Is lets errors.Is match ErrUnknownPackage.
func (e *UnknownPackageError) Is(target error) bool {
	return target == ErrUnknownPackage
}

func unknownPackage(name, section string, pkgs registry.Packages) *UnknownPackageError {
	known := make([]string, 0, len(pkgs))
	for pkg := range pkgs {
		known = append(known, pkg)
	}
	sort.Strings(known)
	return &UnknownPackageError{Package: name, Section: section, Known: known}
}
