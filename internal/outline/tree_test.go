package outline

import (
	"errors"
	"testing"

	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, input string) *Tree {
	t.Helper()
	opts := model.DefaultOptions()
	sanitized, err := NewSanitizer(opts).Sanitize(input)
	require.NoError(t, err)
	tree, err := NewBuilder(opts).Build(sanitized)
	require.NoError(t, err)
	return tree
}

func titles(tree *Tree, idx []int) []string {
	var out []string
	for _, i := range idx {
		out = append(out, tree.Nodes[i].DisplayTitle)
	}
	return out
}

func TestBuilder_Hierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

#### Detail

Detail content.

## Section B

Section B content.
`
	tree := build(t, input)

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Title", root.DisplayTitle)
	assert.Equal(t, "\nIntro text.\n\n", root.Body)
	assert.Equal(t, []string{"Section A", "Section B"}, titles(tree, root.Children))

	secA := tree.Nodes[root.Children[0]]
	assert.Equal(t, "\nSection A content.\n\n", secA.Body)
	assert.Equal(t, []string{"Subsection A1"}, titles(tree, secA.Children))

	sub := tree.Nodes[secA.Children[0]]
	assert.Equal(t, 3, sub.Level)
	assert.NotContains(t, sub.Body, "Detail content.")
	assert.Equal(t, []string{"Detail"}, titles(tree, sub.Children))

	secB := tree.Nodes[root.Children[1]]
	assert.Equal(t, "\nSection B content.\n", secB.Body)
	assert.Empty(t, secB.Children)

	assert.Equal(t, []string{"Title", "Section A", "Subsection A1", "Detail", "Section B"}, titles(tree, tree.Headings()))
}

func TestBuilder_NewHeadingClosesDeeperSections(t *testing.T) {
	tree := build(t, "# T\n## A\n### A1\n## B\n### B1\n")
	root := tree.Root()
	b := tree.Nodes[root.Children[1]]
	assert.Equal(t, []string{"B1"}, titles(tree, b.Children))
}

func TestBuilder_DuplicateTitles(t *testing.T) {
	tree := build(t, "# T\n## Overview\nfirst\n## Overview\nsecond\n")
	root := tree.Root()
	require.Len(t, root.Children, 2)

	first, second := tree.Nodes[root.Children[0]], tree.Nodes[root.Children[1]]
	assert.Equal(t, "Overview", first.DisplayTitle)
	assert.Equal(t, "Overview", second.DisplayTitle)
	assert.NotEqual(t, first.RawTitle, second.RawTitle)
	assert.Equal(t, "first\n", first.Body)
	assert.Equal(t, "second\n", second.Body)
}

func TestBuilder_FencedHeadingsAreBody(t *testing.T) {
	tree := build(t, "# T\n\n```\n## shell comment\n```\n")
	root := tree.Root()
	assert.Empty(t, root.Children)
	assert.Contains(t, root.Body, "shell comment")
}

func TestBuilder_Preamble(t *testing.T) {
	tree := build(t, "front matter\n\n# T\nbody\n")
	assert.Equal(t, "front matter\n\n", tree.Preamble())
	assert.Equal(t, "body\n", tree.Root().Body)
}

func TestBuilder_MissingTitle(t *testing.T) {
	_, err := NewBuilder(model.DefaultOptions()).Build("## Only a section\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMissingTitle))
}

func TestBuilder_LevelFiveIsTooDeep(t *testing.T) {
	_, err := NewBuilder(model.DefaultOptions()).Build("# T\n## A\n### B\n#### C\n##### D\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDepthExceeded))

	var serr *model.StructureError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, []string{"line 5: ##### D"}, serr.Violations)
}

func TestBuilder_JumpAttachesToNearestOpenAncestor(t *testing.T) {
	tree := build(t, "# T\n### Deep\n")
	root := tree.Root()
	require.Len(t, root.Children, 1)
	assert.Equal(t, 3, tree.Nodes[root.Children[0]].Level)
}
