package bbolt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/andrewhowdencom/md2dita/internal/kv"
	"go.etcd.io/bbolt"
)

var recordsBucket = []byte("records")

// Store manages the persistence of conversion records.
type Store struct {
	db *bbolt.DB
}

// NewReadWriteStore creates a new read-write Store and initializes the database.
func NewReadWriteStore() (kv.Storer, error) {
	dbPath, err := xdg.DataFile("md2dita/md2dita.db")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get db path: %w", kv.ErrDBOperationFailed, err)
	}

	return newStore(dbPath, false)
}

// NewReadOnlyStore creates a new read-only Store.
func NewReadOnlyStore() (kv.Storer, error) {
	dbPath, err := xdg.DataFile("md2dita/md2dita.db")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get db path: %w", kv.ErrDBOperationFailed, err)
	}

	return newStore(dbPath, true)
}

// NewTestStore creates a new Store for testing purposes.
func NewTestStore(dbPath string) (kv.Storer, error) {
	return newStore(dbPath, false)
}

func newStore(dbPath string, readOnly bool) (kv.Storer, error) {
	options := &bbolt.Options{
		ReadOnly: readOnly,
	}
	db, err := bbolt.Open(dbPath, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open db: %w", kv.ErrDBOperationFailed, err)
	}

	if !readOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			if _, err := tx.CreateBucketIfNotExists(recordsBucket); err != nil {
				return fmt.Errorf("%w: failed to create bucket '%s': %w", kv.ErrDBOperationFailed, recordsBucket, err)
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutRecord stores a record, replacing any record with the same ID.
func (s *Store) PutRecord(r *kv.Record) error {
	if r.ID == "" {
		return fmt.Errorf("%w: record has no id", kv.ErrDBOperationFailed)
	}
	r.ShortID = kv.GenerateShortID(r.ID)

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		buf, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal record: %w", kv.ErrSerializationFailed, err)
		}
		if err := b.Put([]byte(r.ID), buf); err != nil {
			return fmt.Errorf("%w: failed to put record: %w", kv.ErrDBOperationFailed, err)
		}
		return nil
	})
}

// GetRecord retrieves a record by its ID, falling back to a short ID prefix.
func (s *Store) GetRecord(id string) (*kv.Record, error) {
	var r kv.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b == nil {
			return fmt.Errorf("%w: record with id '%s'", kv.ErrNotFound, id)
		}
		v := b.Get([]byte(id))
		if v == nil {
			// If the full ID isn't found, try to find it by short ID.
			found, err := s.getRecordByShortID(tx, id)
			if err != nil {
				return err
			}
			r = *found
			return nil
		}
		if err := json.Unmarshal(v, &r); err != nil {
			return fmt.Errorf("%w: failed to unmarshal record: %w", kv.ErrSerializationFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRecordByShortID retrieves a single record by a prefix of its short ID.
func (s *Store) GetRecordByShortID(shortID string) (*kv.Record, error) {
	var r *kv.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		found, err := s.getRecordByShortID(tx, shortID)
		if err != nil {
			return err
		}
		r = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) getRecordByShortID(tx *bbolt.Tx, shortID string) (*kv.Record, error) {
	var found []*kv.Record
	b := tx.Bucket(recordsBucket)
	if b == nil || shortID == "" {
		return nil, fmt.Errorf("%w: record with short id '%s'", kv.ErrNotFound, shortID)
	}
	err := b.ForEach(func(k, v []byte) error {
		var r kv.Record
		if err := json.Unmarshal(v, &r); err != nil {
			return fmt.Errorf("%w: failed to unmarshal record: %w", kv.ErrSerializationFailed, err)
		}
		if strings.HasPrefix(r.ShortID, shortID) {
			found = append(found, &r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to iterate over records: %w", kv.ErrDBOperationFailed, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: record with short id '%s'", kv.ErrNotFound, shortID)
	}
	if len(found) > 1 {
		return nil, fmt.Errorf("%w: record with short id '%s'", kv.ErrAmbiguousID, shortID)
	}
	return found[0], nil
}

// ListRecords retrieves all records, most recent first.
func (s *Store) ListRecords() ([]*kv.Record, error) {
	var records []*kv.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b == nil {
			return nil
		}
		err := b.ForEach(func(k, v []byte) error {
			var r kv.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("%w: failed to unmarshal record: %w", kv.ErrSerializationFailed, err)
			}
			records = append(records, &r)
			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: failed to iterate over records: %w", kv.ErrDBOperationFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ConvertedAt.After(records[j].ConvertedAt)
	})
	return records, nil
}

// DeleteRecord removes a record, addressed by ID or short ID.
func (s *Store) DeleteRecord(id string) error {
	r, err := s.GetRecord(id)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if err := b.Delete([]byte(r.ID)); err != nil {
			return fmt.Errorf("%w: failed to delete record: %w", kv.ErrDBOperationFailed, err)
		}
		return nil
	})
}

// ClearRecords removes every record.
func (s *Store) ClearRecords() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(recordsBucket); err != nil {
			return fmt.Errorf("%w: failed to delete bucket '%s': %w", kv.ErrDBOperationFailed, recordsBucket, err)
		}
		if _, err := tx.CreateBucket(recordsBucket); err != nil {
			return fmt.Errorf("%w: failed to create bucket '%s': %w", kv.ErrDBOperationFailed, recordsBucket, err)
		}
		return nil
	})
}
