package render

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

// extensions are the gomarkdown parser extensions understood by the DITA
// renderer. Math and definition lists have no mapping and stay disabled.
const extensions = (parser.CommonExtensions | parser.Footnotes | parser.NoEmptyLineBeforeBlock) &^
	(parser.MathJax | parser.DefinitionLists)

// Renderer converts Markdown fragments into DITA markup.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render converts a block of Markdown into DITA body markup.
func (r *Renderer) Render(md string) string {
	// gomarkdown parsers keep state between calls, so each render gets its own.
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))
	return string(markdown.Render(doc, newDITARenderer()))
}

var blockStart = regexp.MustCompile(`^(\d{1,9})([.)])`)

// RenderInline converts a single line of Markdown, such as a heading title,
// into inline DITA markup without a wrapping paragraph.
func (r *Renderer) RenderInline(md string) string {
	out := strings.TrimSpace(r.Render(escapeBlockStart(strings.TrimSpace(md))))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = out[len("<p>") : len(out)-len("</p>")]
	}
	return out
}

// escapeBlockStart backslash-escapes a leading marker that would otherwise
// turn a one-line fragment into a list, quote or code fence.
func escapeBlockStart(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasPrefix(s, "```"), strings.HasPrefix(s, "~~~"), s[0] == '>', s[0] == '|':
		return `\` + s
	case len(s) > 1 && strings.ContainsRune("-+*", rune(s[0])) && (s[1] == ' ' || s[1] == '\t'):
		return `\` + s
	}
	if m := blockStart.FindStringSubmatchIndex(s); m != nil {
		return s[:m[4]] + `\` + s[m[4]:]
	}
	return s
}
