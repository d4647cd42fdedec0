package sourcer

import (
	"net/url"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

func (f *GitFetcher) auth(repoURL string) transport.AuthMethod {
	u, err := url.Parse(repoURL)
	if err != nil {
		return nil
	}
	token, ok := f.tokens[u.Host]
	if !ok || token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "md2dita", Password: token}
}
