package finalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	wordChar   = regexp.MustCompile(`[\p{L}\p{N}_]`)
	figureOnly = regexp.MustCompile(`(?s)\A(?:<fig>.*</fig>|<image\b[^<>]*/>)\z`)
)

// Tidy unwraps paragraphs that only hold a figure or an image and removes
// paragraphs made up of nothing but punctuation. Every other byte is copied
// through untouched.
func Tidy(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))

	var out strings.Builder
	var inner strings.Builder
	var open string
	inPara := false

	flush := func() {
		if inPara {
			out.WriteString(open)
			out.WriteString(inner.String())
		}
		inner.Reset()
		inPara = false
	}

	for {
		tt := z.Next()
		raw := string(z.Raw())
		if tt == html.ErrorToken {
			flush()
			out.WriteString(raw)
			break
		}

		isPara := false
		if tt == html.StartTagToken || tt == html.EndTagToken {
			name, _ := z.TagName()
			isPara = string(name) == "p"
		}

		switch {
		case isPara && tt == html.StartTagToken:
			flush()
			inPara = true
			open = raw
		case isPara && tt == html.EndTagToken && inPara:
			out.WriteString(tidyParagraph(open, inner.String(), raw))
			inner.Reset()
			inPara = false
		case inPara:
			inner.WriteString(raw)
		default:
			out.WriteString(raw)
		}
	}
	return out.String()
}

func tidyParagraph(open, inner, close string) string {
	trimmed := strings.TrimSpace(inner)
	switch {
	case isFigure(trimmed):
		return trimmed
	case !strings.Contains(trimmed, "<") && !wordChar.MatchString(trimmed):
		return ""
	}
	return open + inner + close
}

// isFigure reports whether s is exactly one figure or one image.
func isFigure(s string) bool {
	return figureOnly.MatchString(s) && strings.Count(s, "<fig>") <= 1
}
