package outline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrewhowdencom/md2dita/internal/model"
)

// MaxLevel is the deepest heading that maps onto a nested concept.
const MaxLevel = 4

// depthLimit is the number of consecutive markers rejected outright.
const depthLimit = 6

// Sanitizer protects stray '#' characters and disambiguates repeated headings
// so the rest of the pipeline only ever sees structural markers.
type Sanitizer struct {
	hashToken      string
	duplicateToken string
}

// NewSanitizer creates a Sanitizer using the tokens from opts.
func NewSanitizer(opts model.Options) *Sanitizer {
	opts = opts.WithDefaults()
	return &Sanitizer{
		hashToken:      opts.HashToken,
		duplicateToken: opts.DuplicateToken,
	}
}

// Sanitize returns text with every non-structural single '#' replaced by the
// hash token, every '#' inside fenced code protected, and every heading whose
// line is repeated elsewhere in the document suffixed with the duplicate
// token and its position in the group.
func (s *Sanitizer) Sanitize(text string) (string, error) {
	lines := splitLines(text)

	type heading struct {
		level int
		title string
	}
	headings := make(map[int]heading)
	counts := make(map[string]int)
	titleSeen := false
	var tooDeep []string

	for i, l := range lines {
		// Six markers are rejected wherever a line starts with them, fenced or not.
		if markerRun(l.text) >= depthLimit {
			tooDeep = append(tooDeep, fmt.Sprintf("line %d: %s", i+1, strings.TrimSpace(l.text)))
			continue
		}
		if l.fenced {
			continue
		}
		level, title, ok := parseATX(l.text)
		if !ok {
			continue
		}
		if level == 1 {
			// Only the first h1 is structural, later ones are plain text.
			if titleSeen {
				continue
			}
			titleSeen = true
		}
		headings[i] = heading{level: level, title: title}
		counts[headingKey(level, title)]++
	}
	if len(tooDeep) > 0 {
		return "", model.NewStructureError(model.ErrDepthExceeded, tooDeep...)
	}

	seen := make(map[string]int)
	var b strings.Builder
	b.Grow(len(text))
	for i, l := range lines {
		eol := text[l.start+len(l.text) : l.end]
		switch h, ok := headings[i]; {
		case l.fenced:
			b.WriteString(strings.ReplaceAll(l.text, "#", s.hashToken))
		case ok:
			b.WriteString(strings.Repeat("#", h.level))
			b.WriteByte(' ')
			b.WriteString(s.protect(h.title))
			key := headingKey(h.level, h.title)
			if counts[key] > 1 {
				seen[key]++
				b.WriteString(s.duplicateToken)
				b.WriteString(strconv.Itoa(seen[key]))
			}
		default:
			b.WriteString(s.protect(l.text))
		}
		b.WriteString(eol)
	}
	return b.String(), nil
}

// protect replaces every lone '#' with the hash token. Runs of two or more
// are left alone since they can never open a heading mid-line.
func (s *Sanitizer) protect(text string) string {
	if strings.IndexByte(text, '#') < 0 {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		if text[i] != '#' {
			b.WriteByte(text[i])
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] == '#' {
			j++
		}
		if j-i == 1 {
			b.WriteString(s.hashToken)
		} else {
			b.WriteString(text[i:j])
		}
		i = j
	}
	return b.String()
}

// Restore reverses every hash placeholder in text.
func (s *Sanitizer) Restore(text string) string {
	return strings.ReplaceAll(text, s.hashToken, "#")
}

func headingKey(level int, title string) string {
	return strings.Repeat("#", level) + " " + title
}
