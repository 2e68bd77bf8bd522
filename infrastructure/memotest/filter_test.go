package memotest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListFilter(t *testing.T) {
	t.Run("full expression", func(t *testing.T) {
		f, err := parseListFilter(`row_status == "NORMAL" && creator == "users/steven" && visibilities == ['PUBLIC', 'PROTECTED'] && content_search == ["#work", "meeting"] && order_by_pinned == true`)
		require.NoError(t, err)

		assert.Equal(t, "NORMAL", f.rowStatus)
		assert.Equal(t, "users/steven", f.creator)
		assert.Equal(t, []string{"PUBLIC", "PROTECTED"}, f.visibilities)
		assert.Equal(t, []string{"#work", "meeting"}, f.contentSearch)
		assert.True(t, f.orderByPinned)
	})

	t.Run("empty expression", func(t *testing.T) {
		f, err := parseListFilter("")
		require.NoError(t, err)
		assert.Empty(t, f.rowStatus)
		assert.False(t, f.orderByPinned)
	})

	t.Run("escaped quotes in search terms", func(t *testing.T) {
		f, err := parseListFilter(`content_search == ["say \"hi\""]`)
		require.NoError(t, err)
		assert.Equal(t, []string{`say "hi"`}, f.contentSearch)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := parseListFilter(`bogus == "x"`)
		assert.Error(t, err)
	})

	t.Run("clause without comparison is rejected", func(t *testing.T) {
		_, err := parseListFilter(`row_status`)
		assert.Error(t, err)
	})
}
