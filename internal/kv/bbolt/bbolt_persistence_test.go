package bbolt_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/andrewhowdencom/md2dita/internal/kv/bbolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persistence_test.db")

	store, err := bbolt.NewTestStore(dbPath)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second) // Truncate for clean comparison
	err = store.PutRecord(&kv.Record{
		ID:          "persisted",
		Source:      "doc.md",
		ConvertedAt: now,
		XML:         "<concept/>",
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopen the store and read the record back
	store, err = bbolt.NewTestStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	retrieved, err := store.GetRecord("persisted")
	assert.NoError(t, err)
	assert.Equal(t, now, retrieved.ConvertedAt, "The ConvertedAt field should be persisted and retrieved correctly.")
	assert.Equal(t, "<concept/>", retrieved.XML)
}
