package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teligen-kh/aicounsel/store"
)

func TestUpsertKeywordSet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	set, err := st.UpsertKeywordSet(ctx, &store.KeywordSet{
		Category: store.CategoryProfanity,
		Keywords: []string{"나쁜말"},
	})
	require.NoError(t, err)
	assert.NotZero(t, set.UpdatedTs)

	// Second upsert replaces, not appends.
	_, err = st.UpsertKeywordSet(ctx, &store.KeywordSet{
		Category: store.CategoryProfanity,
		Keywords: []string{"다른말"},
	})
	require.NoError(t, err)

	got, err := st.GetKeywordSet(ctx, store.CategoryProfanity)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"다른말"}, got.Keywords)
}

func TestUpsertKeywordSetValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.UpsertKeywordSet(ctx, &store.KeywordSet{Category: "spam"})
	assert.ErrorIs(t, err, store.ErrInvalidKeywordSet)
}

func TestAddKeyword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	set, err := st.AddKeyword(ctx, store.CategoryCasual, "모닝")
	require.NoError(t, err)
	assert.Equal(t, []string{"모닝"}, set.Keywords)

	set, err = st.AddKeyword(ctx, store.CategoryCasual, "굿밤")
	require.NoError(t, err)
	assert.Equal(t, []string{"모닝", "굿밤"}, set.Keywords)

	// Duplicates are no-ops.
	set, err = st.AddKeyword(ctx, store.CategoryCasual, "모닝")
	require.NoError(t, err)
	assert.Len(t, set.Keywords, 2)

	// Blank keywords are rejected.
	_, err = st.AddKeyword(ctx, store.CategoryCasual, "   ")
	assert.ErrorIs(t, err, store.ErrInvalidKeywordSet)
}

func TestRemoveKeyword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.AddKeyword(ctx, store.CategoryCasual, "모닝")
	require.NoError(t, err)
	_, err = st.AddKeyword(ctx, store.CategoryCasual, "굿밤")
	require.NoError(t, err)

	set, err := st.RemoveKeyword(ctx, store.CategoryCasual, "모닝")
	require.NoError(t, err)
	assert.Equal(t, []string{"굿밤"}, set.Keywords)

	// Removing from a category that has no set fails.
	_, err = st.RemoveKeyword(ctx, store.CategoryTechnical, "포스")
	assert.ErrorIs(t, err, store.ErrInvalidKeywordSet)
}

func TestListKeywordSetsCached(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.AddKeyword(ctx, store.CategoryCasual, "모닝")
	require.NoError(t, err)

	first, err := st.ListKeywordSets(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A mutation invalidates the cached list.
	_, err = st.AddKeyword(ctx, store.CategoryProfanity, "나쁜말")
	require.NoError(t, err)

	second, err := st.ListKeywordSets(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}
