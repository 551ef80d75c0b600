package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitNames(hits []SearchHit) []string {
	var res []string
	for _, h := range hits {
		res = append(res, h.Name)
	}
	return res
}

func TestSearch(t *testing.T) {
	r := openTestContainer(t)
	ei, err := NewEntryIndex(context.Background(), r)
	require.NoError(t, err)
	defer ei.Close()

	t.Run("value text", func(t *testing.T) {
		hits, err := ei.Search(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, []string{"Greeting"}, hitNames(hits))
		assert.Greater(t, hits[0].Score, 0.0)
	})

	t.Run("field query", func(t *testing.T) {
		hits, err := ei.Search(context.Background(), "comment:start")
		require.NoError(t, err)
		assert.Equal(t, []string{"Greeting"}, hitNames(hits))
	})

	t.Run("metadata", func(t *testing.T) {
		hits, err := ei.Search(context.Background(), "jane")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Author", hits[0].Name)
		assert.True(t, hits[0].Metadata)
	})

	t.Run("no match", func(t *testing.T) {
		hits, err := ei.Search(context.Background(), "nothing")
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := ei.Search(context.Background(), " ")
		assert.ErrorIs(t, err, ErrInvalidArgs)
	})
}

func TestSearchReader(t *testing.T) {
	hits, err := Search(context.Background(), openTestContainer(t), "failed")

	require.NoError(t, err)
	assert.Equal(t, []string{"Error.Title"}, hitNames(hits))
}
