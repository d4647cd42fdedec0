package cmd

import (
	"log/slog"

	"github.com/andrewhowdencom/md2dita/internal/converter"
	"github.com/andrewhowdencom/md2dita/internal/datastore"
	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/spf13/viper"
)

var datastoreNewStore = func(readOnly bool) (kv.Storer, error) {
	return datastore.NewStore(readOnly)
}

// openCache opens the conversion store when caching is enabled. The returned
// store is nil otherwise.
func openCache() (kv.Storer, func()) {
	if !viper.GetBool("cache.enabled") {
		return nil, func() {}
	}
	store, err := datastoreNewStore(false)
	if err != nil {
		slog.Warn("conversion cache unavailable", "error", err)
		return nil, func() {}
	}
	return store, func() { store.Close() }
}

// newConverter builds a converter from the configuration.
func newConverter() (*converter.Cached, func(), error) {
	opts, err := conversionOptions()
	if err != nil {
		return nil, nil, err
	}
	store, done := openCache()
	return converter.NewCached(converter.New(opts), store), done, nil
}
