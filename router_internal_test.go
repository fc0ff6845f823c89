package qz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// requirePrefixFree walks the tree and checks that siblings never share a first byte and that wildcard
// nodes only hang below a segment ending in '/'.
func requirePrefixFree(t *testing.T, n *node) {
	t.Helper()

	seen := map[byte]bool{}
	for _, c := range n.children {
		require.NotEmpty(t, c.segment)
		require.False(t, seen[c.segment[0]], "siblings share first byte %q below %q", c.segment[0], n.segment)
		seen[c.segment[0]] = true

		if c.wildcard {
			require.Equal(t, "*", string(c.segment))
			require.Equal(t, byte('/'), n.segment[len(n.segment)-1])
		}

		requirePrefixFree(t, c)
	}
}

func TestRouterPrefixFree(t *testing.T) {
	paths := []string{
		"/", "/to", "/tea", "/ted", "/hoge", "/h", "/i", "/in", "/inn",
		"/static/*", "/static/index.html", "/stat", "/s/*", "/*", "/a/b/c", "/a/b", "/a/*",
	}

	for seed := int64(0); seed < 20; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		shuffled := append([]string(nil), paths...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		rt := NewRouter()
		for _, p := range shuffled {
			rt.Add(p, MethodGet, Status(CodeOK))
		}

		requirePrefixFree(t, rt.root)

		for _, p := range paths {
			n := rt.root.match([]byte(p))
			require.NotNil(t, n, "seed %d path %q", seed, p)
			require.Contains(t, n.handlers, MethodGet)
		}
	}
}
