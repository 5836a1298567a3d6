package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChromeURI(t *testing.T) {
	tests := []struct {
		uri  string
		want chromeURI
	}{
		{"chrome://browser/content/browser.xhtml", chromeURI{Package: "browser", Section: "content", Path: []string{"browser.xhtml"}}},
		{"chrome://global/locale/a/b.dtd", chromeURI{Package: "global", Section: "locale", Path: []string{"a", "b.dtd"}}},
		{"chrome://global/skin", chromeURI{Package: "global", Section: "skin"}},
		{"chrome://global", chromeURI{Package: "global"}},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChromeURI(tt.uri))
		})
	}
}

func TestParseResourceURI(t *testing.T) {
	assert.Equal(t, "gre", parseResourceURI("resource://gre/modules/x.sys.mjs"))
	assert.Equal(t, "gre", parseResourceURI("resource://gre"))
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "intl.properties", basename("chrome://global/locale/intl.properties"))
	assert.Equal(t, "x.xhtml", basename("x.xhtml"))
}

func TestStripLocalePrefix(t *testing.T) {
	tests := map[string]string{
		"%locale/@AB_CD@/global/": "global/",
		"%locale/global/":         "global/",
		"%locale/@AB_CD@/":        "",
		"%locale/":                "",
		"locale/global/":          "locale/global/",
		"@AB_CD@/global/":         "@AB_CD@/global/",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripLocalePrefix(in), in)
	}
}

func TestDedupeSegments(t *testing.T) {
	root := filepath.FromSlash("/src")
	assert.Equal(t,
		filepath.Join(root, "browser", "content", "foo.js"),
		dedupeSegments(root, filepath.Join(root, "browser", "content", "browser", "foo.js")),
	)
	assert.Equal(t,
		filepath.Join(root, "a", "b"),
		dedupeSegments(root, filepath.Join(root, "a", "b")),
	)
}

func TestSubdirProbe(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.dtd"), nil, 0o644))

	probe := newSubdirProbe()
	dirs, err := probe.subdirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, dirs)

	// Memoized for the lifetime of the probe
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c"), 0o755))
	dirs, err = probe.subdirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, dirs)

	dirs, err = newSubdirProbe().subdirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, dirs)

	dirs, err = probe.subdirs(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	ok, err := exists(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = exists(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = exists(filepath.Join(file, "below-a-file"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResult(t *testing.T) {
	res := PathsResult(nil)
	assert.Equal(t, KindPaths, res.Kind)
	assert.NotNil(t, res.Paths)

	raw := RawResult(map[string]int{"a": 1})
	assert.Equal(t, KindRaw, raw.Kind)
	assert.Equal(t, "raw", raw.Kind.String())
	assert.Equal(t, "paths", KindPaths.String())

	set := newPathSet()
	set.add("/a")
	set.add("/b")
	set.add("/a")
	assert.Equal(t, []string{"/a", "/b"}, set.paths)
}
