package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		expected string
	}{
		{
			name:     "paragraph",
			markdown: "some text",
			expected: "<p>some text</p>\n",
		},
		{
			name:     "bold and italic",
			markdown: "**Hello** *World*",
			expected: "<p><b>Hello</b> <i>World</i></p>\n",
		},
		{
			name:     "inline code is escaped",
			markdown: "use `a < b`",
			expected: "<p>use <codeph>a &lt; b</codeph></p>\n",
		},
		{
			name:     "fenced code with language",
			markdown: "```go\nfmt.Println(\"<hi>\")\n```\n",
			expected: "<codeblock outputclass=\"language-go\">fmt.Println(&#34;&lt;hi&gt;&#34;)</codeblock>\n",
		},
		{
			name:     "fenced code without language",
			markdown: "```\nplain\n```\n",
			expected: "<codeblock>plain</codeblock>\n",
		},
		{
			name:     "link",
			markdown: "[link](https://example.com)",
			expected: "<p><xref href=\"https://example.com\">link</xref></p>\n",
		},
		{
			name:     "unordered list",
			markdown: "- one\n- two",
			expected: "<ul><li>one</li>\n<li>two</li>\n</ul>\n",
		},
		{
			name:     "ordered list",
			markdown: "1. one\n2. two",
			expected: "<ol><li>one</li>\n<li>two</li>\n</ol>\n",
		},
		{
			name:     "image",
			markdown: "![alt text](pic.png)",
			expected: "<p><image href=\"pic.png\" alt=\"alt text\"/></p>\n",
		},
		{
			name:     "image with title",
			markdown: "![alt](pic.png \"A figure\")",
			expected: "<p><fig><title>A figure</title>\n<image href=\"pic.png\" alt=\"alt\"/></fig></p>\n",
		},
		{
			name:     "block quote",
			markdown: "> quoted",
			expected: "<codeblock><p>quoted</p>\n</codeblock>\n",
		},
		{
			name:     "horizontal rule is dropped",
			markdown: "---\n",
			expected: "",
		},
		{
			name:     "strikethrough keeps text",
			markdown: "~~gone~~ here",
			expected: "<p>gone here</p>\n",
		},
		{
			name:     "inline html passes through",
			markdown: "a <span>b</span>",
			expected: "<p>a <span>b</span></p>\n",
		},
		{
			name:     "placeholders are untouched",
			markdown: "C\uE000 code",
			expected: "<p>C\uE000 code</p>\n",
		},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Render(tt.markdown))
		})
	}
}

func TestRenderer_Table(t *testing.T) {
	md := "| Name | Size |\n|:-----|-----:|\n| a | 1 |\n"
	expected := "<table>\n<tgroup cols=\"2\">\n" +
		"<colspec colname=\"col1\"/>\n<colspec colname=\"col2\"/>\n" +
		"<thead>\n<row>\n<entry align=\"left\">Name</entry>\n<entry align=\"right\">Size</entry>\n</row>\n</thead>\n" +
		"<tbody>\n<row>\n<entry align=\"left\">a</entry>\n<entry align=\"right\">1</entry>\n</row>\n</tbody>\n" +
		"</tgroup>\n</table>\n"
	assert.Equal(t, expected, New().Render(md))
}

func TestRenderer_Footnotes(t *testing.T) {
	out := New().Render("Text[^1].\n\n[^1]: The note.\n")
	assert.Contains(t, out, "<p>Text.</p>")
	assert.NotContains(t, out, "The note")
}

func TestRenderer_EmailAutolink(t *testing.T) {
	out := New().Render("<me@example.com>")
	assert.Contains(t, out, `href="mailto:me@example.com"`)
	assert.Contains(t, out, ">me@example.com</xref>")
}

func TestRenderer_RenderInline(t *testing.T) {
	tests := []struct {
		markdown string
		expected string
	}{
		{"Overview", "Overview"},
		{"**Bold** title", "<b>Bold</b> title"},
		{"1. Intro", "1. Intro"},
		{"- dash", "- dash"},
		{"a < b", "a &lt; b"},
	}
	r := New()
	for _, tt := range tests {
		t.Run(tt.markdown, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.RenderInline(tt.markdown))
		})
	}
}
