package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoDisplayTs(t *testing.T) {
	memo := &Memo{CreatedTs: 100, UpdatedTs: 200}

	assert.Equal(t, int64(100), memo.DisplayTs(false))
	assert.Equal(t, int64(200), memo.DisplayTs(true))
}

func TestMemoClone(t *testing.T) {
	parent := int64(9)
	memo := &Memo{
		ID:           1,
		Content:      "original",
		ParentID:     &parent,
		ResourceList: []Resource{{ID: 5, Filename: "a.png"}},
		RelationList: []MemoRelation{{MemoID: 1, RelatedMemoID: 2, Type: RelationReference}},
	}

	clone := memo.Clone()
	clone.Content = "changed"
	*clone.ParentID = 42
	clone.ResourceList[0].Filename = "b.png"
	clone.RelationList[0].RelatedMemoID = 3

	assert.Equal(t, "original", memo.Content)
	assert.Equal(t, int64(9), *memo.ParentID)
	assert.Equal(t, "a.png", memo.ResourceList[0].Filename)
	assert.Equal(t, int64(2), memo.RelationList[0].RelatedMemoID)
}

func TestNormalizeRelations(t *testing.T) {
	t.Run("drops self edges", func(t *testing.T) {
		out := NormalizeRelations(1, []MemoRelation{
			{MemoID: 1, RelatedMemoID: 1, Type: RelationReference},
			{MemoID: 1, RelatedMemoID: 2, Type: RelationReference},
		})

		require.Len(t, out, 1)
		assert.Equal(t, int64(2), out[0].RelatedMemoID)
	})

	t.Run("first relation per target wins", func(t *testing.T) {
		out := NormalizeRelations(1, []MemoRelation{
			{MemoID: 1, RelatedMemoID: 2, Type: RelationReference},
			{MemoID: 1, RelatedMemoID: 2, Type: RelationComment},
		})

		require.Len(t, out, 1)
		assert.Equal(t, RelationReference, out[0].Type)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, NormalizeRelations(1, nil))
	})
}

func TestUserClone(t *testing.T) {
	user := &User{Name: "users/steven", Nickname: "Steve"}

	clone := user.Clone()
	clone.Nickname = "changed"

	assert.Equal(t, "Steve", user.Nickname)
	assert.Equal(t, "steven", user.Username())
}
