package converter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/andrewhowdencom/md2dita/internal/kv/bbolt"
	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedConvert(t *testing.T) {
	store, err := bbolt.NewTestStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	c := NewCached(New(model.DefaultOptions()), store)
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	doc := "# Guide\n\nIntro.\n\n## Install\n\nSteps.\n"

	first, cached, err := c.Convert(context.Background(), "guide.md", "guide.dita", doc)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Guide", first.Title)
	assert.Equal(t, 2, first.Topics)
	assert.Equal(t, kv.Digest(doc, c.Converter().Options()), first.ID)

	second, cached, err := c.Convert(context.Background(), "guide.md", "guide.dita", doc)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.XML, second.XML)

	records, err := store.ListRecords()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCachedConvertFailuresNotStored(t *testing.T) {
	store, err := bbolt.NewTestStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	c := NewCached(New(model.DefaultOptions()), store)
	_, _, err = c.Convert(context.Background(), "bad.md", "", "# T\n### Deep\n")
	assert.ErrorIs(t, err, model.ErrInvalidNesting)

	records, err := store.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCachedConvertWithoutStore(t *testing.T) {
	c := NewCached(New(model.DefaultOptions()), nil)

	r, cached, err := c.Convert(context.Background(), "-", "", "# Only\n")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Contains(t, r.XML, `<concept id="only">`)
}
