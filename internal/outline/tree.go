package outline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andrewhowdencom/md2dita/internal/model"
)

// DocumentIndex is the arena index of the synthetic document node that owns
// the h1 and anything appearing before it.
const DocumentIndex = 0

// Node is one heading in the arena. Children holds arena indexes in source
// order; a node is owned by exactly one parent.
type Node struct {
	Level        int
	RawTitle     string
	DisplayTitle string
	Body         string
	Line         int
	Parent       int
	Children     []int
}

// Tree is the heading hierarchy of a sanitized document.
type Tree struct {
	Nodes     []Node
	hashToken string
}

// Builder turns sanitized text into a Tree.
type Builder struct {
	hashToken string
	suffix    *regexp.Regexp
}

// NewBuilder creates a Builder using the tokens from opts.
func NewBuilder(opts model.Options) *Builder {
	opts = opts.WithDefaults()
	return &Builder{
		hashToken: opts.HashToken,
		suffix:    regexp.MustCompile(regexp.QuoteMeta(opts.DuplicateToken) + `\d+$`),
	}
}

// Build scans sanitized once, attaching every heading to the nearest open
// heading of a lower level. A node's body runs from the end of its heading
// line to the start of the next heading at any level.
func (b *Builder) Build(sanitized string) (*Tree, error) {
	t := &Tree{
		Nodes:     []Node{{Level: 0, Parent: -1}},
		hashToken: b.hashToken,
	}

	// open[l] is the arena index of the current open heading at level l.
	var open [MaxLevel + 1]int
	for l := range open {
		open[l] = -1
	}
	open[0] = DocumentIndex

	var tooDeep []string
	bodyStart := 0
	current := DocumentIndex
	lines := splitLines(sanitized)
	for i, l := range lines {
		if l.fenced {
			continue
		}
		level, title, ok := parseATX(l.text)
		if !ok {
			continue
		}
		if level > MaxLevel {
			tooDeep = append(tooDeep, fmt.Sprintf("line %d: %s", i+1, strings.TrimSpace(t.restore(l.text))))
			continue
		}

		t.Nodes[current].Body = sanitized[bodyStart:l.start]

		parent := DocumentIndex
		for p := level - 1; p >= 0; p-- {
			if open[p] >= 0 {
				parent = open[p]
				break
			}
		}
		idx := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{
			Level:        level,
			RawTitle:     title,
			DisplayTitle: b.suffix.ReplaceAllString(title, ""),
			Line:         i + 1,
			Parent:       parent,
		})
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)

		open[level] = idx
		for deeper := level + 1; deeper <= MaxLevel; deeper++ {
			open[deeper] = -1
		}
		current = idx
		bodyStart = l.end
	}
	t.Nodes[current].Body = sanitized[bodyStart:]

	if len(tooDeep) > 0 {
		return nil, model.NewStructureError(model.ErrDepthExceeded, tooDeep...)
	}
	if t.RootIndex() < 0 {
		return nil, model.NewStructureError(model.ErrMissingTitle, "the document has no h1 heading")
	}
	return t, nil
}

// RootIndex returns the arena index of the h1, or -1 if there is none.
func (t *Tree) RootIndex() int {
	for _, c := range t.Nodes[DocumentIndex].Children {
		if t.Nodes[c].Level == 1 {
			return c
		}
	}
	return -1
}

// Root returns the h1 node.
func (t *Tree) Root() *Node {
	i := t.RootIndex()
	if i < 0 {
		return nil
	}
	return &t.Nodes[i]
}

// Preamble is the text found before the first heading.
func (t *Tree) Preamble() string {
	return t.Nodes[DocumentIndex].Body
}

// Title returns the display title of node i with placeholders restored.
func (t *Tree) Title(i int) string {
	if i == DocumentIndex {
		return "the start of the document"
	}
	return t.restore(t.Nodes[i].DisplayTitle)
}

// Walk visits the subtree rooted at i in document order.
func (t *Tree) Walk(i int, fn func(i int, n *Node)) {
	fn(i, &t.Nodes[i])
	for _, c := range t.Nodes[i].Children {
		t.Walk(c, fn)
	}
}

// Headings returns every heading index in document order.
func (t *Tree) Headings() []int {
	var out []int
	t.Walk(DocumentIndex, func(i int, _ *Node) {
		if i != DocumentIndex {
			out = append(out, i)
		}
	})
	return out
}

func (t *Tree) restore(s string) string {
	return strings.ReplaceAll(s, t.hashToken, "#")
}
