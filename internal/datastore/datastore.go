package datastore

import (
	"fmt"

	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/andrewhowdencom/md2dita/internal/kv/bbolt"
	"github.com/spf13/viper"
)

// NewStore creates the Store selected by datastore.type.
func NewStore(readOnly bool) (kv.Storer, error) {
	datastoreType := viper.GetString("datastore.type")
	switch datastoreType {
	case "bbolt", "":
		if readOnly {
			return bbolt.NewReadOnlyStore()
		}
		return bbolt.NewReadWriteStore()
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown datastore type: %s", datastoreType)
	}
}

// NewTestStore creates a new Store for testing purposes.
func NewTestStore(dbPath string) (kv.Storer, error) {
	return bbolt.NewTestStore(dbPath)
}
