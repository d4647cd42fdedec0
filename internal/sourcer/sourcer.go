package sourcer

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Source is a Markdown document ready for conversion.
type Source struct {
	URL  string
	Text string
}

// Base returns the file name of the source without its extension.
func (s *Source) Base() string {
	u, err := url.Parse(s.URL)
	p := s.URL
	if err == nil && u.Path != "" {
		p = u.Path
	}
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Fetcher defines the interface for fetching content from a URL.
type Fetcher interface {
	Fetch(url string) ([]byte, string, error)
}

// CompositeFetcher is a fetcher that can handle multiple schemes.
type CompositeFetcher struct {
	fetchers map[string]Fetcher
}

// NewCompositeFetcher creates a new CompositeFetcher.
func NewCompositeFetcher() *CompositeFetcher {
	return &CompositeFetcher{
		fetchers: make(map[string]Fetcher),
	}
}

// AddFetcher adds a new fetcher for a given scheme.
func (f *CompositeFetcher) AddFetcher(scheme string, fetcher Fetcher) {
	f.fetchers[scheme] = fetcher
}

// Fetch fetches the content of a URL and returns it as a byte slice. Plain
// paths without a scheme are handled by the "file" fetcher.
func (f *CompositeFetcher) Fetch(rawURL string) ([]byte, string, error) {
	scheme := "file"
	if rawURL == "-" {
		scheme = "stdin"
	} else if i := strings.Index(rawURL, "://"); i > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse url %s: %w", rawURL, err)
		}
		scheme = u.Scheme
	}

	fetcher, ok := f.fetchers[scheme]
	if !ok {
		return nil, "", fmt.Errorf("unsupported scheme: %s", scheme)
	}

	return fetcher.Fetch(rawURL)
}

// HTTPFetcher is an implementation of Fetcher that fetches content over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a new HTTPFetcher.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{
		client: client,
	}
}

// Fetch fetches the content of a URL and returns it as a byte slice.
func (f *HTTPFetcher) Fetch(url string) ([]byte, string, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch url %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch url %s: status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	// Prefer ETag, but fall back to Last-Modified.
	var state string
	if etag := resp.Header.Get("ETag"); etag != "" {
		state = etag
	} else if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		state = lastModified
	} else {
		state = digest(body)
	}

	return body, state, nil
}

// FileFetcher is an implementation of Fetcher that reads local files, given
// either as a plain path or a file:// URL.
type FileFetcher struct{}

// NewFileFetcher creates a new FileFetcher.
func NewFileFetcher() *FileFetcher {
	return &FileFetcher{}
}

// Fetch reads the file and returns its content and digest.
func (f *FileFetcher) Fetch(rawURL string) ([]byte, string, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse url %s: %w", rawURL, err)
		}
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	return data, digest(data), nil
}

// ReaderFetcher reads its content once from a reader, e.g. standard input.
type ReaderFetcher struct {
	r io.Reader
}

// NewReaderFetcher creates a new ReaderFetcher.
func NewReaderFetcher(r io.Reader) *ReaderFetcher {
	return &ReaderFetcher{r: r}
}

// Fetch reads everything from the underlying reader.
func (f *ReaderFetcher) Fetch(_ string) ([]byte, string, error) {
	data, err := io.ReadAll(f.r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input: %w", err)
	}
	return data, digest(data), nil
}

// Parser defines the interface for parsing fetched content into a Source.
type Parser interface {
	Parse(url string, data []byte) (*Source, error)
}

// MarkdownParser accepts UTF-8 Markdown.
type MarkdownParser struct{}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// Parse checks the encoding and strips a leading byte order mark.
func (p *MarkdownParser) Parse(rawURL string, data []byte) (*Source, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("document '%s' is not valid UTF-8", rawURL)
	}
	return &Source{URL: rawURL, Text: string(data)}, nil
}

// Sourcer is an interface that defines the methods for sourcing documents.
type Sourcer interface {
	Source(url string) (*Source, string, error)
}

// sourcer is the concrete implementation of the Sourcer interface.
type sourcer struct {
	fetcher Fetcher
	parser  Parser
}

// NewSourcer creates a new Sourcer.
func NewSourcer(fetcher Fetcher, parser Parser) Sourcer {
	return &sourcer{
		fetcher: fetcher,
		parser:  parser,
	}
}

// Source fetches and parses a document from a URL. The returned state
// changes whenever the document does.
func (s *sourcer) Source(url string) (*Source, string, error) {
	data, state, err := s.fetcher.Fetch(url)
	if err != nil {
		return nil, "", err
	}

	source, err := s.parser.Parse(url, data)
	if err != nil {
		return nil, "", err
	}

	return source, state, nil
}

func digest(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
