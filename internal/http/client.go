package http

import (
	"net"
	"net/http"
	"time"
)

const (
	// UserAgent identifies md2dita to the servers documents are fetched from.
	UserAgent = "md2dita"
	// Accept prefers Markdown but takes whatever the server has.
	Accept = "text/markdown, text/x-markdown;q=0.9, text/plain;q=0.8, */*;q=0.1"
	// FetchTimeout bounds a whole document download, body included.
	FetchTimeout = 60 * time.Second
)

// NewClient creates an HTTP client for downloading Markdown documents. Every
// request carries the md2dita User-Agent and a Markdown Accept header unless
// the caller set its own.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: FetchTimeout,
		Transport: &documentTransport{
			base: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

type documentTransport struct {
	base http.RoundTripper
}

func (t *documentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" && req.Header.Get("Accept") != "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", Accept)
	}
	return t.base.RoundTrip(req)
}
