package poller

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/andrewhowdencom/md2dita/internal/sourcer"
)

// Poller checks a list of documents and reports the ones that changed since
// the previous poll.
type Poller struct {
	sourcer sourcer.Sourcer

	mu         sync.Mutex
	knownState map[string]string
}

// New creates a new Poller.
func New(sourcer sourcer.Sourcer) *Poller {
	return &Poller{
		sourcer:    sourcer,
		knownState: make(map[string]string),
	}
}

// Poll checks for updates in the sources and returns the changed documents.
func (p *Poller) Poll(urls []string) ([]*sourcer.Source, error) {
	var changed []*sourcer.Source
	var lastErr error
	for _, url := range urls {
		source, err := p.pollURL(url)
		if err != nil {
			// If a source can't be found, we log the error and continue.
			slog.Error("error checking source", "url", url, "error", err)
			lastErr = err
			continue
		}
		if source != nil {
			changed = append(changed, source)
		}
	}

	// If every source failed there is nothing to convert, so surface the
	// last error we saw.
	if len(changed) == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to poll any sources: %w", lastErr)
	}
	return changed, nil
}

// Forget drops the recorded state for url so the next poll reports it again.
func (p *Poller) Forget(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.knownState, url)
}

func (p *Poller) pollURL(url string) (*sourcer.Source, error) {
	source, state, err := p.sourcer.Source(url)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if known, ok := p.knownState[url]; ok && known == state {
		return nil, nil // No change
	}

	p.knownState[url] = state
	return source, nil
}
