package resolver

// Kind discriminates Result variants
type Kind int

const (
	// KindPaths results carry filesystem-verified paths
	KindPaths Kind = iota
	// KindRaw results carry registry data that was not checked against disk
	KindRaw
)

// String returns a human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindPaths:
		return "paths"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Result is the outcome of a resolution.
type Result struct {
	Kind Kind
	// Paths holds the distinct resolved paths in discovery order (KindPaths).
	Paths []string
	// Raw holds registry data (KindRaw). It may be nil when a resource alias
	// is not declared.
	Raw any
}

// PathsResult wraps resolved paths
func PathsResult(paths []string) *Result {
	if paths == nil {
		paths = []string{}
	}
	return &Result{Kind: KindPaths, Paths: paths}
}

// RawResult wraps unresolved registry data
func RawResult(v any) *Result {
	return &Result{Kind: KindRaw, Raw: v}
}

// pathSet collects paths once each, keeping first-seen order
type pathSet struct {
	seen  map[string]struct{}
	paths []string
}

func newPathSet() *pathSet {
	return &pathSet{seen: make(map[string]struct{})}
}

func (s *pathSet) add(path string) {
	if _, ok := s.seen[path]; ok {
		return
	}
	s.seen[path] = struct{}{}
	s.paths = append(s.paths, path)
}

func (s *pathSet) len() int {
	return len(s.paths)
}
