package kv

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/andrewhowdencom/md2dita/internal/model"
)

// Err* are common errors returned by the datastore.
var (
	ErrNotFound            = errors.New("not found")
	ErrDBOperationFailed   = errors.New("db operation failed")
	ErrSerializationFailed = errors.New("serialization failed")
	ErrAmbiguousID         = errors.New("ambiguous ID")
)

// Record is a finished conversion. Its ID is the digest of the Markdown and
// the options it was converted with, so an identical request maps onto the
// same record.
type Record struct {
	ID          string    `json:"id"`
	ShortID     string    `json:"short_id"`
	Source      string    `json:"source"`
	Output      string    `json:"output,omitempty"`
	Title       string    `json:"title"`
	Topics      int       `json:"topics"`
	ConvertedAt time.Time `json:"converted_at"`
	XML         string    `json:"xml"`
}

// Storer is an interface that defines the methods for interacting with the datastore.
type Storer interface {
	PutRecord(r *Record) error
	GetRecord(id string) (*Record, error)
	GetRecordByShortID(shortID string) (*Record, error)
	ListRecords() ([]*Record, error)
	DeleteRecord(id string) error
	ClearRecords() error
	Close() error
}

// Digest identifies a conversion of text under opts.
func Digest(text string, opts model.Options) string {
	opts = opts.WithDefaults()
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%t\x00%s\x00", opts.HashToken, opts.DuplicateToken, opts.Shortdesc, opts.Lang)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateShortID generates a short ID for a given ID.
func GenerateShortID(id string) string {
	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:])[:8]
}
