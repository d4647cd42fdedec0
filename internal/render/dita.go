package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown/ast"
	nethtml "golang.org/x/net/html"
)

// ditaRenderer walks a gomarkdown AST and writes DITA markup. It only knows
// about blocks and inlines; topic structure is handled by the caller.
type ditaRenderer struct{}

func newDITARenderer() *ditaRenderer {
	return &ditaRenderer{}
}

// RenderHeader is a no-op; fragments carry no document header.
func (r *ditaRenderer) RenderHeader(w io.Writer, _ ast.Node) {}

// RenderFooter is a no-op.
func (r *ditaRenderer) RenderFooter(w io.Writer, _ ast.Node) {}

// RenderNode writes the markup for a single node.
func (r *ditaRenderer) RenderNode(w io.Writer, node ast.Node, entering bool) ast.WalkStatus {
	switch n := node.(type) {
	case *ast.Document:
	case *ast.Text:
		io.WriteString(w, escape(string(n.Literal)))
	case *ast.Softbreak, *ast.Hardbreak:
		io.WriteString(w, "\n")
	case *ast.Paragraph:
		if tightListItem(n) {
			break
		}
		r.tag(w, entering, "<p>", "</p>\n")
	case *ast.Heading:
		// Headings that reach the renderer are not structural, e.g. inside a
		// block quote, so they become bold paragraphs.
		r.tag(w, entering, "<p><b>", "</b></p>\n")
	case *ast.Emph:
		r.tag(w, entering, "<i>", "</i>")
	case *ast.Strong:
		r.tag(w, entering, "<b>", "</b>")
	case *ast.Del:
		// Strikethrough keeps its text but loses the formatting.
	case *ast.Code:
		fmt.Fprintf(w, "<codeph>%s</codeph>", escape(strings.TrimRightFunc(string(n.Literal), unicode.IsSpace)))
	case *ast.CodeBlock:
		r.codeBlock(w, n)
	case *ast.BlockQuote:
		r.tag(w, entering, "<codeblock>", "</codeblock>\n")
	case *ast.HorizontalRule:
		// DITA has no horizontal rule.
	case *ast.HTMLSpan:
		w.Write(n.Literal)
	case *ast.HTMLBlock:
		w.Write(n.Literal)
		io.WriteString(w, "\n")
	case *ast.Link:
		return r.link(w, n, entering)
	case *ast.Image:
		if entering {
			r.image(w, n)
		}
		return ast.SkipChildren
	case *ast.List:
		if n.IsFootnotesList {
			return ast.SkipChildren
		}
		if n.ListFlags&ast.ListTypeOrdered != 0 {
			r.tag(w, entering, "<ol>", "</ol>\n")
		} else {
			r.tag(w, entering, "<ul>", "</ul>\n")
		}
	case *ast.ListItem:
		r.tag(w, entering, "<li>", "</li>\n")
	case *ast.Table:
		if entering {
			r.openTable(w, n)
		} else {
			io.WriteString(w, "</tgroup>\n</table>\n")
		}
	case *ast.TableHeader:
		r.tag(w, entering, "<thead>\n", "</thead>\n")
	case *ast.TableBody, *ast.TableFooter:
		r.tag(w, entering, "<tbody>\n", "</tbody>\n")
	case *ast.TableRow:
		r.tag(w, entering, "<row>\n", "</row>\n")
	case *ast.TableCell:
		r.tableCell(w, n, entering)
	default:
		if leaf := node.AsLeaf(); leaf != nil && entering {
			io.WriteString(w, escape(string(leaf.Literal)))
		}
	}
	return ast.GoToNext
}

func (r *ditaRenderer) tag(w io.Writer, entering bool, open, close string) {
	if entering {
		io.WriteString(w, open)
	} else {
		io.WriteString(w, close)
	}
}

func (r *ditaRenderer) codeBlock(w io.Writer, n *ast.CodeBlock) {
	code := escape(strings.TrimRight(string(n.Literal), "\n"))
	if lang := strings.Fields(string(n.Info)); len(lang) > 0 {
		fmt.Fprintf(w, "<codeblock outputclass=\"language-%s\">%s</codeblock>\n", escape(lang[0]), code)
		return
	}
	fmt.Fprintf(w, "<codeblock>%s</codeblock>\n", code)
}

func (r *ditaRenderer) link(w io.Writer, n *ast.Link, entering bool) ast.WalkStatus {
	if n.NoteID > 0 {
		// Footnotes are dropped entirely.
		return ast.SkipChildren
	}
	if !entering {
		io.WriteString(w, "</xref>")
		return ast.GoToNext
	}
	dest := string(n.Destination)
	if strings.Contains(dest, "@") && !strings.Contains(dest, ":") {
		dest = "mailto:" + dest
	}
	fmt.Fprintf(w, "<xref href=\"%s\">", escape(dest))
	if len(n.GetChildren()) == 0 {
		io.WriteString(w, escape(string(n.Title)))
	}
	return ast.GoToNext
}

func (r *ditaRenderer) image(w io.Writer, n *ast.Image) {
	src := escape(string(n.Destination))
	alt := escape(plainText(n))
	if len(n.Title) > 0 {
		fmt.Fprintf(w, "<fig><title>%s</title>\n<image href=\"%s\" alt=\"%s\"/></fig>", escape(string(n.Title)), src, alt)
		return
	}
	fmt.Fprintf(w, "<image href=\"%s\" alt=\"%s\"/>", src, alt)
}

func (r *ditaRenderer) openTable(w io.Writer, n *ast.Table) {
	cols := columnCount(n)
	fmt.Fprintf(w, "<table>\n<tgroup cols=\"%d\">\n", cols)
	for i := 1; i <= cols; i++ {
		fmt.Fprintf(w, "<colspec colname=\"col%d\"/>\n", i)
	}
}

func (r *ditaRenderer) tableCell(w io.Writer, n *ast.TableCell, entering bool) {
	if !entering {
		io.WriteString(w, "</entry>\n")
		return
	}
	if align := alignment(n.Align); align != "" {
		fmt.Fprintf(w, "<entry align=\"%s\">", align)
		return
	}
	io.WriteString(w, "<entry>")
}

func alignment(a ast.CellAlignFlags) string {
	switch a {
	case ast.TableAlignmentLeft:
		return "left"
	case ast.TableAlignmentRight:
		return "right"
	case ast.TableAlignmentCenter:
		return "center"
	}
	return ""
}

// columnCount is the number of cells in the first row of the table.
func columnCount(table *ast.Table) int {
	for _, section := range table.GetChildren() {
		for _, row := range section.GetChildren() {
			if _, ok := row.(*ast.TableRow); ok {
				return len(row.GetChildren())
			}
		}
	}
	return 0
}

func tightListItem(p *ast.Paragraph) bool {
	item, ok := p.GetParent().(*ast.ListItem)
	if !ok {
		return false
	}
	list, ok := item.GetParent().(*ast.List)
	return ok && list.Tight
}

// plainText concatenates the literal text below n.
func plainText(n ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if leaf := node.AsLeaf(); leaf != nil && entering {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}

func escape(s string) string {
	return nethtml.EscapeString(s)
}
