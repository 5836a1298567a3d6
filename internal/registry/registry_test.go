package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_JSONShape(t *testing.T) {
	reg := New()
	reg.Content.add("pkg", Entry{Dir: "a", URI: "content/"})
	reg.Resource.add("res", Entry{Dir: "b", URI: "./", Flags: []string{"contentaccessible=yes"}})
	reg.Paths.Manifests = append(reg.Paths.Manifests, "/src/a/jar.mn")

	data, err := reg.Encode()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.ElementsMatch(t, []string{"content", "locale", "resource", "paths"}, keys(raw))

	paths := raw["paths"].(map[string]any)
	assert.ElementsMatch(t, []string{"jar", "properties", "xhtml"}, keys(paths))

	entry := raw["content"].(map[string]any)["pkg"].([]any)[0].(map[string]any)
	assert.NotContains(t, entry, "flags")

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, reg, decoded)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := New()
	reg.Locale.add("global", Entry{URI: "%locale/"})

	for _, key := range []string{KeyContent, KeyLocale, KeyResource, KeyPaths} {
		_, ok := reg.Lookup(key)
		assert.True(t, ok, key)
	}

	got, ok := reg.Lookup(KeyLocale)
	require.True(t, ok)
	assert.Equal(t, reg.Locale, got)

	_, ok = reg.Lookup("skin")
	assert.False(t, ok)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("[1,2]"))
	assert.Error(t, err)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
