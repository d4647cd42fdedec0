package datastore

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andrewhowdencom/md2dita/internal/kv"
)

// MemoryStore keeps records for the lifetime of the process.
type MemoryStore struct {
	records map[string]*kv.Record
	mu      sync.Mutex
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*kv.Record),
	}
}

// PutRecord stores a copy of r, replacing any record with the same ID.
func (s *MemoryStore) PutRecord(r *kv.Record) error {
	if r.ID == "" {
		return fmt.Errorf("%w: record has no id", kv.ErrDBOperationFailed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ShortID = kv.GenerateShortID(r.ID)
	stored := *r
	s.records[r.ID] = &stored
	return nil
}

// GetRecord retrieves a record by its ID, falling back to a short ID prefix.
func (s *MemoryStore) GetRecord(id string) (*kv.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[id]; ok {
		found := *r
		return &found, nil
	}
	return s.getRecordByShortID(id)
}

// GetRecordByShortID retrieves a single record by a prefix of its short ID.
func (s *MemoryStore) GetRecordByShortID(shortID string) (*kv.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getRecordByShortID(shortID)
}

func (s *MemoryStore) getRecordByShortID(shortID string) (*kv.Record, error) {
	var found []*kv.Record
	if shortID != "" {
		for _, r := range s.records {
			if strings.HasPrefix(r.ShortID, shortID) {
				found = append(found, r)
			}
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: record with short id '%s'", kv.ErrNotFound, shortID)
	case 1:
		r := *found[0]
		return &r, nil
	default:
		return nil, fmt.Errorf("%w: record with short id '%s'", kv.ErrAmbiguousID, shortID)
	}
}

// ListRecords retrieves all records, most recent first.
func (s *MemoryStore) ListRecords() ([]*kv.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]*kv.Record, 0, len(s.records))
	for _, r := range s.records {
		c := *r
		records = append(records, &c)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].ConvertedAt.Equal(records[j].ConvertedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].ConvertedAt.After(records[j].ConvertedAt)
	})
	return records, nil
}

// DeleteRecord removes a record, addressed by ID or short ID.
func (s *MemoryStore) DeleteRecord(id string) error {
	r, err := s.GetRecord(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, r.ID)
	return nil
}

// ClearRecords removes every record.
func (s *MemoryStore) ClearRecords() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*kv.Record)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
