package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/models"
)

func TestImagesOrderedByTimestamp(t *testing.T) {
	ctx := context.Background()
	s := NewImages()
	for _, img := range []models.Image{
		{GroupID: "g1", Timestamp: "2024-01-01T00:00:02.000000000Z", ImageID: "c"},
		{GroupID: "g1", Timestamp: "2024-01-01T00:00:00.000000000Z", ImageID: "a"},
		{GroupID: "g2", Timestamp: "2024-01-01T00:00:01.000000000Z", ImageID: "x"},
		{GroupID: "g1", Timestamp: "2024-01-01T00:00:01.000000000Z", ImageID: "b"},
	} {
		_, err := s.Put(ctx, img)
		require.NoError(t, err)
	}

	got, err := s.ListByGroup(ctx, "g1")
	require.NoError(t, err)
	ids := []string{}
	for _, img := range got {
		ids = append(ids, img.ImageID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	img, err := s.GetByImageID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "g2", img.GroupID)

	_, err = s.GetByImageID(ctx, "d")
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestImagesSameTimestamp(t *testing.T) {
	ctx := context.Background()
	s := NewImages()
	ts := "2024-01-01T00:00:01.000000000Z"
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Put(ctx, models.Image{GroupID: "g1", Timestamp: ts, ImageID: id})
		require.NoError(t, err)
	}
	_, err := s.Put(ctx, models.Image{GroupID: "g2", Timestamp: ts, ImageID: "x"})
	require.NoError(t, err)

	got, err := s.ListByGroup(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-01T00:00:01.000000000Z", got[0].Timestamp)
	assert.Equal(t, "2024-01-01T00:00:01.000000001Z", got[1].Timestamp)
	assert.Equal(t, "2024-01-01T00:00:01.000000002Z", got[2].Timestamp)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ImageID, got[1].ImageID, got[2].ImageID})

	c, err := s.GetByImageID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, got[2], c)

	other, err := s.GetByImageID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, ts, other.Timestamp)
}

func TestImagesSameTimestampUnparsable(t *testing.T) {
	ctx := context.Background()
	s := NewImages()
	_, err := s.Put(ctx, models.Image{GroupID: "g1", Timestamp: "now", ImageID: "a"})
	require.NoError(t, err)

	_, err = s.Put(ctx, models.Image{GroupID: "g1", Timestamp: "now", ImageID: "b"})
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGroups(t *testing.T) {
	ctx := context.Background()
	s := NewGroups()
	require.NoError(t, s.Put(ctx, models.Group{ID: "g1", Name: "Trip"}))
	require.Error(t, s.Put(ctx, models.Group{ID: "g1", Name: "Again"}))

	g, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Trip", g.Name)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	ok, err := l.Claim(ctx, models.LedgerEntry{DedupKey: "i1#e1"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Claim(ctx, models.LedgerEntry{DedupKey: "i1#e1"})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "i1#e1"))
	ok, _ = l.Claim(ctx, models.LedgerEntry{DedupKey: "i1#e1"})
	assert.True(t, ok)
	assert.Len(t, l.Entries(), 1)
}
