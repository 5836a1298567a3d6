// Package resolver maps chrome://, resource:// and bare registry-key URIs to
// files on disk.
//
// Resolution runs against a registry obtained from a registry.Builder (cached
// or freshly built) and applies ordered heuristics:
//   - chrome://pkg/content/... tries every content entry of pkg, with a
//     segment-deduplicating retry when the direct path is missing
//   - chrome://pkg/locale/... probes the fallback locale directory and each
//     of its subdirectories, with and without the declared URI suffix
//   - resource://alias/... reports the raw entries for alias
//   - anything else is looked up as a top-level registry key
//
// When a chrome:// lookup finds nothing and the URI names a .properties or
// .xhtml file, every scanned file with the same basename is returned.
package resolver
