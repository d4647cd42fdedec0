package converter

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// conceptPaths returns the id path of every <concept>, e.g. "root/child".
func conceptPaths(t *testing.T, doc string) []string {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	d.Strict = false

	var stack, paths []string
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "concept" {
				continue
			}
			id := ""
			for _, a := range el.Attr {
				if a.Name.Local == "id" {
					id = a.Value
				}
			}
			stack = append(stack, id)
			paths = append(paths, strings.Join(stack, "/"))
		case xml.EndElement:
			if el.Name.Local == "concept" {
				stack = stack[:len(stack)-1]
			}
		}
	}
	assert.Empty(t, stack, "unbalanced concepts")
	return paths
}

func convert(t *testing.T, input string, opts model.Options) string {
	t.Helper()
	res, err := New(opts).Convert(context.Background(), input)
	require.NoError(t, err)
	return res.XML
}

func TestConvert_Nesting(t *testing.T) {
	input := `# Guide

Intro paragraph.

## Install

Install steps.

## Configure

Configure steps.

### Options

Option list.
`
	doc := convert(t, input, model.DefaultOptions())

	assert.Equal(t, 4, strings.Count(doc, "<concept "))
	assert.Equal(t, []string{
		"guide",
		"guide/install",
		"guide/configure",
		"guide/configure/options",
	}, conceptPaths(t, doc))
}

func TestConvert_Header(t *testing.T) {
	doc := convert(t, "# T\n\nBody.\n", model.DefaultOptions())
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="utf-8"?>`+"\n"+
		`<!DOCTYPE concept PUBLIC "-//OASIS//DTD DITA Concept//EN" "concept.dtd">`+"\n<concept id=\"t\">"))
}

func TestConvert_DepthExceeded(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "heading", input: "# T\n## A\n###### Way too deep\n"},
		{name: "no space after markers", input: "# T\n\n######foo\n"},
		{name: "inside fenced code", input: "# T\n\n```\n###### x\n```\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := New(model.DefaultOptions()).Convert(context.Background(), tc.input)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrDepthExceeded))
		})
	}
}

func TestConvert_InvalidNesting(t *testing.T) {
	res, err := New(model.DefaultOptions()).Convert(context.Background(), "# Title\n\n### Orphan\n\ntext\n")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidNesting))
	assert.Contains(t, err.Error(), `one or more h3 after "Title": "Orphan"`)
}

func TestConvert_LeadingFigureStaysInBody(t *testing.T) {
	doc := convert(t, "# T\n\n![alt](a.png \"Cap\")\n", model.DefaultOptions())
	assert.NotContains(t, doc, "<shortdesc>")
	assert.NotContains(t, doc, "<p><fig>")
	assert.Contains(t, doc, "<fig><title>Cap</title>")
}

func TestConvert_DuplicateTitles(t *testing.T) {
	input := "# T\n\n## Overview\n\nAlpha text.\n\n## Overview\n\nBeta text.\n"
	doc := convert(t, input, model.DefaultOptions())

	assert.Equal(t, 2, strings.Count(doc, "<title>Overview</title>"))
	first := strings.Index(doc, `<concept id="overview">`)
	second := strings.Index(doc, `<concept id="overview_2">`)
	require.True(t, first >= 0 && second > first)

	firstSection := doc[first:second]
	secondSection := doc[second:]
	assert.Contains(t, firstSection, "Alpha text.")
	assert.NotContains(t, firstSection, "Beta text.")
	assert.Contains(t, secondSection, "Beta text.")
	assert.NotContains(t, secondSection, "Alpha text.")
	assert.NotContains(t, doc, model.DefaultDuplicateToken)
}

func TestConvert_Shortdesc(t *testing.T) {
	input := "# T\n\nFirst paragraph.\n\nSecond paragraph.\n"

	doc := convert(t, input, model.DefaultOptions())
	assert.Contains(t, doc, "<shortdesc>First paragraph.</shortdesc>\n<conbody>")
	assert.NotContains(t, doc, "<p>First paragraph.</p>")

	opts := model.DefaultOptions()
	opts.Shortdesc = false
	doc = convert(t, input, opts)
	assert.NotContains(t, doc, "<shortdesc>")
	assert.Contains(t, doc, "<conbody>\n<p>First paragraph.</p>")
}

func TestConvert_Slug(t *testing.T) {
	doc := convert(t, "# My Section!\n", model.DefaultOptions())
	assert.Contains(t, doc, `<concept id="my_section">`)
	assert.Contains(t, doc, "<title>My Section!</title>")
}

func TestConvert_HashesRestored(t *testing.T) {
	input := "# C# Notes\n\nTicket #42.\n\n```python\n# comment\nx = 1  # trailing\n```\n\n# Not a title\n"
	doc := convert(t, input, model.DefaultOptions())

	assert.NotContains(t, doc, model.DefaultHashToken)
	assert.Contains(t, doc, "<title>C# Notes</title>")
	assert.Contains(t, doc, `<concept id="c_notes">`)
	assert.Contains(t, doc, "Ticket #42.")
	assert.Contains(t, doc, "<codeblock outputclass=\"language-python\"># comment\nx = 1  # trailing</codeblock>")
	assert.Contains(t, doc, "<p># Not a title</p>")
	assert.Equal(t, strings.Count(input, "#")-1, strings.Count(doc, "#"))
}

func TestConvert_FigureParagraphUnwrapped(t *testing.T) {
	doc := convert(t, "# T\n\nIntro.\n\n![A cat](cat.png \"Cat\")\n", model.DefaultOptions())
	assert.Contains(t, doc, "\n<fig><title>Cat</title>\n<image href=\"cat.png\" alt=\"A cat\"/></fig>")
	assert.NotContains(t, doc, "<p><fig>")
}

func TestConvert_MissingTitle(t *testing.T) {
	_, err := New(model.DefaultOptions()).Convert(context.Background(), "no headings at all\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMissingTitle))
}

func TestConvert_Parallel(t *testing.T) {
	c := New(model.DefaultOptions())
	inputs := []string{
		"# One\n\nFirst.\n\n## A\n\na\n",
		"# Two\n\nSecond.\n\n## B\n\nb\n",
	}
	expected := make([]string, len(inputs))
	for i, in := range inputs {
		expected[i] = convert(t, in, model.DefaultOptions())
	}

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Convert(context.Background(), inputs[i%2])
			if err == nil {
				results[i] = res.XML
			}
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, expected[i%2], r)
	}
}

func TestOutline(t *testing.T) {
	tree, err := New(model.DefaultOptions()).Outline(context.Background(), "# T\n## A\n### B\n")
	require.NoError(t, err)
	assert.Len(t, tree.Headings(), 3)
}

func TestConvert_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { provider.Shutdown(context.Background()) })

	_, err := New(model.DefaultOptions()).Convert(context.Background(), "# T\n\nBody.\n")
	require.NoError(t, err)

	var names []string
	parents := make(map[string]string)
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
		parents[span.Name()] = span.Parent().SpanID().String()
	}
	assert.ElementsMatch(t, []string{"sanitize", "build", "validate", "assemble", "finalize", "convert"}, names)

	var convertID string
	for _, span := range recorder.Ended() {
		if span.Name() == "convert" {
			convertID = span.SpanContext().SpanID().String()
		}
	}
	assert.Equal(t, convertID, parents["finalize"])
}
