package outline

import (
	"fmt"
	"strings"

	"github.com/andrewhowdencom/md2dita/internal/model"
)

// Validate checks that every heading sits exactly one level below its parent.
// All violations are collected before failing so they can be fixed in one go.
func Validate(t *Tree) error {
	var violations []string

	if h1s := t.countLevel(DocumentIndex, 1); h1s > 1 {
		violations = append(violations, fmt.Sprintf("multiple h1 headings: found %d", h1s))
	}

	t.Walk(DocumentIndex, func(i int, n *Node) {
		var levels []int
		jumps := make(map[int][]string)
		for _, c := range n.Children {
			child := t.Nodes[c]
			if child.Level == n.Level+1 {
				continue
			}
			if _, ok := jumps[child.Level]; !ok {
				levels = append(levels, child.Level)
			}
			jumps[child.Level] = append(jumps[child.Level], fmt.Sprintf("%q", t.Title(c)))
		}
		for _, level := range levels {
			after := t.Title(i)
			if i != DocumentIndex {
				after = fmt.Sprintf("%q", after)
			}
			violations = append(violations, fmt.Sprintf(
				"invalid heading jump: one or more h%d after %s: %s",
				level, after, strings.Join(jumps[level], ", "),
			))
		}
	})

	if len(violations) > 0 {
		return model.NewStructureError(model.ErrInvalidNesting, violations...)
	}
	return nil
}

func (t *Tree) countLevel(i, level int) int {
	n := 0
	for _, c := range t.Nodes[i].Children {
		if t.Nodes[c].Level == level {
			n++
		}
	}
	return n
}
