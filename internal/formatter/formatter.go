package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/andrewhowdencom/md2dita/internal/outline"
	"github.com/andrewhowdencom/md2dita/internal/topic"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Formats accepted by the writers in this package.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatTree  = "tree"
)

// Entry is one heading of a document outline.
type Entry struct {
	Level    int     `yaml:"level"`
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Line     int     `yaml:"line"`
	Children []Entry `yaml:"children,omitempty"`
}

// FromTree converts a validated tree into outline entries rooted at the h1.
func FromTree(tree *outline.Tree) []Entry {
	root := tree.RootIndex()
	if root < 0 {
		return nil
	}
	ids := topic.IDs(tree)

	var build func(i int) Entry
	build = func(i int) Entry {
		n := tree.Nodes[i]
		e := Entry{
			Level: n.Level,
			ID:    ids[i],
			Title: outline.PlainTitle(tree.Title(i)),
			Line:  n.Line,
		}
		for _, c := range n.Children {
			e.Children = append(e.Children, build(c))
		}
		return e
	}
	return []Entry{build(root)}
}

// Outline writes entries in the given format.
func Outline(w io.Writer, entries []Entry, format string) error {
	switch format {
	case FormatYAML:
		return writeYAML(w, entries)
	case FormatTree:
		var write func(e Entry)
		write = func(e Entry) {
			fmt.Fprintf(w, "%s%s (#%s)\n", strings.Repeat("  ", e.Level-1), e.Title, e.ID)
			for _, c := range e.Children {
				write(c)
			}
		}
		for _, e := range entries {
			write(e)
		}
		return nil
	case FormatTable, "":
		table := tablewriter.NewWriter(w)
		table.Header("Line", "Level", "ID", "Title")
		var appendRows func(e Entry) error
		appendRows = func(e Entry) error {
			title := strings.Repeat("  ", e.Level-1) + e.Title
			if err := table.Append(strconv.Itoa(e.Line), "h"+strconv.Itoa(e.Level), e.ID, title); err != nil {
				return err
			}
			for _, c := range e.Children {
				if err := appendRows(c); err != nil {
					return err
				}
			}
			return nil
		}
		for _, e := range entries {
			if err := appendRows(e); err != nil {
				return err
			}
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format %q: use table, tree or yaml", format)
	}
}

// Records writes conversion records in the given format.
func Records(w io.Writer, records []*kv.Record, format string) error {
	switch format {
	case FormatYAML:
		type row struct {
			ID          string    `yaml:"id"`
			Source      string    `yaml:"source"`
			Output      string    `yaml:"output,omitempty"`
			Title       string    `yaml:"title"`
			Topics      int       `yaml:"topics"`
			ConvertedAt time.Time `yaml:"converted_at"`
		}
		rows := make([]row, 0, len(records))
		for _, r := range records {
			rows = append(rows, row{r.ShortID, r.Source, r.Output, r.Title, r.Topics, r.ConvertedAt})
		}
		return writeYAML(w, rows)
	case FormatTable, "":
		table := tablewriter.NewWriter(w)
		table.Header("ID", "Converted At", "Source", "Output", "Title", "Topics")
		for _, r := range records {
			err := table.Append(r.ShortID, r.ConvertedAt.Local().Format(time.DateTime), r.Source, r.Output, r.Title, strconv.Itoa(r.Topics))
			if err != nil {
				return err
			}
		}
		return table.Render()
	default:
		return fmt.Errorf("unsupported format %q: use table or yaml", format)
	}
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
