package qz_test

import (
	"testing"

	"github.com/advdv/qz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverser(t *testing.T) {
	rev := qz.NewReverser()

	t.Run("should allow naming paths", func(t *testing.T) {
		s := rev.Named("homepage", "/")
		assert.Equal(t, "/", s)

		s, err := rev.NamedPath("blog_post", "/blog/*")
		require.NoError(t, err)
		assert.Equal(t, "/blog/*", s)
	})

	t.Run("should reverse named paths", func(t *testing.T) {
		res, err := rev.Reverse("homepage")
		require.NoError(t, err)
		assert.Equal(t, "/", res)

		res, err = rev.Reverse("blog_post", "hello-world")
		require.NoError(t, err)
		assert.Equal(t, "/blog/hello-world", res)
	})

	t.Run("should error if path already exists", func(t *testing.T) {
		_, err := rev.NamedPath("homepage", "/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("should panic for Named error", func(t *testing.T) {
		assert.PanicsWithValue(t, `qz: failed to parse route: route path must start with '/', got: ""`, func() {
			rev.Named("bogus", "")
		})
	})

	t.Run("should error if reversing unknown name", func(t *testing.T) {
		_, err := rev.Reverse("bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no route named: \"bogus\"")
	})

	t.Run("should error on wrong number of values", func(t *testing.T) {
		_, err := rev.Reverse("blog_post")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one value")

		_, err = rev.Reverse("homepage", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "takes no values")
	})
}

func TestServerReverse(t *testing.T) {
	srv := qz.NewBuilder().
		Route("/items/*", qz.MethodGet, named("item"), "get-item").
		Build()

	loc, err := srv.Reverse("get-item", "42")
	require.NoError(t, err)
	require.Equal(t, "/items/42", loc)

	resp := srv.Respond(t.Context(), qz.NewRequest(qz.MethodGet, loc))
	require.Equal(t, "item", string(resp.Body().Bytes()))
}
