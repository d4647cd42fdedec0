package cmd

import (
	"io"
	"os"

	"github.com/andrewhowdencom/md2dita/internal/http"
	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/andrewhowdencom/md2dita/internal/sourcer"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

const helpHint = "Use the '-h' or '--help' flag to see usage information"

// stdin is where documents are read from when no input is named.
var stdin io.Reader = os.Stdin

// stdinIsTerminal reports whether nothing is piped into the process.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// buildFetcher creates a fetcher for every supported input scheme.
func buildFetcher() *sourcer.CompositeFetcher {
	client := http.NewClient()
	fetcher := sourcer.NewCompositeFetcher()
	fetcher.AddFetcher("http", sourcer.NewHTTPFetcher(client))
	fetcher.AddFetcher("https", sourcer.NewHTTPFetcher(client))
	fetcher.AddFetcher("file", sourcer.NewFileFetcher())
	fetcher.AddFetcher("stdin", sourcer.NewReaderFetcher(stdin))
	git := sourcer.NewGitFetcher(viper.GetStringMapString("git.tokens"))
	fetcher.AddFetcher("git", git)
	fetcher.AddFetcher("git+https", git)
	fetcher.AddFetcher("git+http", git)
	return fetcher
}

// buildSourcer creates a new sourcer reading Markdown with the default fetchers.
func buildSourcer() sourcer.Sourcer {
	return sourcer.NewSourcer(buildFetcher(), sourcer.NewMarkdownParser())
}

// readInput loads the document named by input, or standard input when input
// is empty. It returns the text and the name to report it under.
func readInput(input string) (string, string, error) {
	if input == "" {
		if stdinIsTerminal() {
			return "", "", &model.InputError{Kind: model.ErrNoSource, Hint: helpHint}
		}
		input = "-"
	}

	source, _, err := buildSourcer().Source(input)
	if err != nil {
		return "", "", err
	}
	return source.Text, source.URL, nil
}
