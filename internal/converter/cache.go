package converter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/andrewhowdencom/md2dita/internal/outline"
)

// Cached records every conversion in a store and answers repeated requests
// for the same Markdown and options from it.
type Cached struct {
	conv  *Converter
	store kv.Storer
	now   func() time.Time
}

// NewCached wraps conv. A nil store disables caching.
func NewCached(conv *Converter, store kv.Storer) *Cached {
	return &Cached{conv: conv, store: store, now: time.Now}
}

// Converter returns the wrapped converter.
func (c *Cached) Converter() *Converter {
	return c.conv
}

// Convert converts text read from source. The returned bool reports whether
// the record came from the store.
func (c *Cached) Convert(ctx context.Context, source, output, text string) (*kv.Record, bool, error) {
	id := kv.Digest(text, c.conv.Options())

	if c.store != nil {
		r, err := c.store.GetRecord(id)
		switch {
		case err == nil:
			slog.Debug("using cached conversion", "source", source, "id", r.ShortID)
			return r, true, nil
		case !errors.Is(err, kv.ErrNotFound):
			slog.Warn("could not read conversion cache", "error", err)
		}
	}

	res, err := c.conv.Convert(ctx, text)
	if err != nil {
		return nil, false, err
	}

	r := &kv.Record{
		ID:          id,
		Source:      source,
		Output:      output,
		Title:       outline.PlainTitle(res.Tree.Title(res.Tree.RootIndex())),
		Topics:      len(res.Tree.Headings()),
		ConvertedAt: c.now().UTC(),
		XML:         res.XML,
	}
	if c.store != nil {
		if err := c.store.PutRecord(r); err != nil {
			slog.Warn("could not record conversion", "source", source, "error", err)
		}
	}
	return r, false, nil
}
