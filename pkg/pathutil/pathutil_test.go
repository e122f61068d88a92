package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "foo/bar", StripExtension("foo/bar.ts"))
	assert.Equal(t, "foo/bar", StripExtension("foo/bar.js"))
	assert.Equal(t, "foo/bar", StripExtension("foo/bar"))
}

func TestRelativeImport(t *testing.T) {
	cases := []struct {
		from, to, want string
	}{
		{"src/a.js", "src/b.js", "./b"},
		{"src/sub/a.js", "src/b.js", "../b"},
		{"src/a.js", "src/sub/b.js", "./sub/b"},
		{"a.js", "b.js", "./b"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RelativeImport(c.from, c.to), "from=%s to=%s", c.from, c.to)
	}
}

func TestLongestDottedPrefix(t *testing.T) {
	candidates := map[string]bool{
		"ns":        true,
		"ns.sub":    true,
		"other.pkg": true,
	}

	prefix, ok := LongestDottedPrefix("ns.sub.Type", candidates)
	assert.True(t, ok)
	assert.Equal(t, "ns.sub", prefix)

	_, ok = LongestDottedPrefix("unrelated.Type", candidates)
	assert.False(t, ok)
}

func TestSubstitutePrefix(t *testing.T) {
	assert.Equal(t, "T", SubstitutePrefix("ns.T", "ns.T", "T"))
	assert.Equal(t, "T.Inner", SubstitutePrefix("ns.sub.T.Inner", "ns.sub.T", "T"))
	assert.Equal(t, "unrelated.Type", SubstitutePrefix("unrelated.Type", "ns.sub", "T"))
}
