package finalize

import (
	"regexp"
	"strings"

	"github.com/andrewhowdencom/md2dita/internal/model"
)

// Header is the XML declaration and DITA concept DOCTYPE.
const Header = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE concept PUBLIC "-//OASIS//DTD DITA Concept//EN" "concept.dtd">`

var titleElement = regexp.MustCompile(`(?s)<title>.*?</title>`)

// Finalizer turns an assembled concept fragment into a complete document.
type Finalizer struct {
	hashToken string
	suffix    *regexp.Regexp
	shortdesc bool
}

// New creates a Finalizer configured from opts.
func New(opts model.Options) *Finalizer {
	opts = opts.WithDefaults()
	return &Finalizer{
		hashToken: opts.HashToken,
		suffix:    regexp.MustCompile(regexp.QuoteMeta(opts.DuplicateToken) + `\d+`),
		shortdesc: opts.Shortdesc,
	}
}

// Finalize runs every step in order: restore placeholders, promote the
// shortdesc, tidy paragraphs and prepend the header.
func (f *Finalizer) Finalize(fragment string) string {
	doc := f.Restore(fragment)
	if f.shortdesc {
		doc = PromoteShortdesc(doc)
	}
	doc = Tidy(doc)
	return Header + doc + "\n"
}

// Restore drops duplicate suffixes from titles and turns hash placeholders
// back into '#'.
func (f *Finalizer) Restore(fragment string) string {
	out := titleElement.ReplaceAllStringFunc(fragment, func(title string) string {
		return f.suffix.ReplaceAllString(title, "")
	})
	return strings.ReplaceAll(out, f.hashToken, "#")
}

// PromoteShortdesc moves the first paragraph of the root body into a
// <shortdesc> placed before <conbody>. Nothing changes when the root body
// does not start with a paragraph, or when that paragraph only holds a figure
// or an image, which <shortdesc> cannot contain.
func PromoteShortdesc(doc string) string {
	const open = "<conbody>"
	at := strings.Index(doc, open)
	if at < 0 {
		return doc
	}
	rest := strings.TrimLeft(doc[at+len(open):], " \t\r\n")
	if !strings.HasPrefix(rest, "<p>") {
		return doc
	}
	end := strings.Index(rest, "</p>")
	if end < 0 {
		return doc
	}
	para := rest[len("<p>"):end]
	if isFigure(strings.TrimSpace(para)) {
		return doc
	}
	return doc[:at] + "<shortdesc>" + para + "</shortdesc>\n" + open + rest[end+len("</p>"):]
}
