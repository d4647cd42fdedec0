package topic

import (
	"fmt"
	"strings"

	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/andrewhowdencom/md2dita/internal/outline"
	nethtml "golang.org/x/net/html"
)

// Renderer is the inline Markdown collaborator.
type Renderer interface {
	Render(md string) string
	RenderInline(md string) string
}

// Topic is the assembled form of one heading. Fields are written once, in
// order: ID and Title before assembly, Body and XML during it.
type Topic struct {
	ID    string
	Level int
	Title string
	Body  string
	XML   string
}

// Assembly is the output of Assemble. Topics is indexed like the tree's arena.
type Assembly struct {
	Topics []Topic
	Root   int
}

// XML returns the fragment of the root concept.
func (a *Assembly) XML() string {
	return a.Topics[a.Root].XML
}

// Assembler turns a heading tree into nested <concept> elements.
type Assembler struct {
	renderer Renderer
	lang     string
}

// New creates an Assembler rendering bodies with renderer.
func New(renderer Renderer, opts model.Options) *Assembler {
	return &Assembler{renderer: renderer, lang: opts.Lang}
}

// Assemble builds every concept bottom-up: a node is closed only once all
// of its children have been assembled.
func (a *Assembler) Assemble(tree *outline.Tree) (*Assembly, error) {
	root := tree.RootIndex()
	if root < 0 {
		return nil, model.NewStructureError(model.ErrMissingTitle, "the document has no h1 heading")
	}

	out := &Assembly{Topics: make([]Topic, len(tree.Nodes)), Root: root}
	ids := IDs(tree)
	tree.Walk(root, func(i int, n *outline.Node) {
		out.Topics[i] = Topic{
			ID:    ids[i],
			Level: n.Level,
			Title: a.renderer.RenderInline(n.DisplayTitle),
		}
	})

	a.assemble(tree, out, root)
	return out, nil
}

// IDs assigns every heading under the h1 its concept id, in document order.
// The result is indexed like the tree's arena.
func IDs(tree *outline.Tree) []string {
	out := make([]string, len(tree.Nodes))
	root := tree.RootIndex()
	if root < 0 {
		return out
	}
	ids := make(idSet)
	tree.Walk(root, func(i int, n *outline.Node) {
		out[i] = ids.claim(Slug(outline.PlainTitle(n.DisplayTitle)))
	})
	return out
}

func (a *Assembler) assemble(tree *outline.Tree, out *Assembly, i int) {
	node := &tree.Nodes[i]
	t := &out.Topics[i]
	t.Body = a.renderer.Render(node.Body)

	var children strings.Builder
	for _, c := range node.Children {
		a.assemble(tree, out, c)
		children.WriteString(out.Topics[c].XML)
	}

	attrs := fmt.Sprintf(" id=%q", t.ID)
	if i == out.Root && a.lang != "" {
		attrs = fmt.Sprintf(` xml:lang="%s"`, nethtml.EscapeString(a.lang)) + attrs
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n<concept%s>\n<title>%s</title>\n<conbody>\n%s</conbody>", attrs, t.Title, t.Body)
	b.WriteString(children.String())
	b.WriteString("\n</concept>")
	t.XML = b.String()
}
