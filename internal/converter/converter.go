package converter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/andrewhowdencom/md2dita/internal/finalize"
	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/andrewhowdencom/md2dita/internal/outline"
	"github.com/andrewhowdencom/md2dita/internal/render"
	"github.com/andrewhowdencom/md2dita/internal/topic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/andrewhowdencom/md2dita/internal/converter"

// Result holds the converted document and the tree it was built from.
type Result struct {
	XML      string
	Tree     *outline.Tree
	Assembly *topic.Assembly
}

// Converter runs the whole pipeline for one document at a time. It holds no
// mutable state, so one Converter may be shared between goroutines.
type Converter struct {
	opts      model.Options
	sanitizer *outline.Sanitizer
	builder   *outline.Builder
	assembler *topic.Assembler
	finalizer *finalize.Finalizer

	tracer      trace.Tracer
	conversions metric.Int64Counter
}

// New creates a Converter using the default DITA renderer.
func New(opts model.Options) *Converter {
	return NewWithRenderer(opts, render.New())
}

// NewWithRenderer creates a Converter with a custom inline renderer.
func NewWithRenderer(opts model.Options, renderer topic.Renderer) *Converter {
	opts = opts.WithDefaults()

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"md2dita.conversions",
		metric.WithDescription("Number of documents converted, by outcome."),
	)
	if err != nil {
		slog.Warn("could not create conversion counter", "error", err)
	}

	return &Converter{
		opts:        opts,
		sanitizer:   outline.NewSanitizer(opts),
		builder:     outline.NewBuilder(opts),
		assembler:   topic.New(renderer, opts),
		finalizer:   finalize.New(opts),
		tracer:      otel.Tracer(instrumentationName),
		conversions: counter,
	}
}

// Options returns the options the converter was created with.
func (c *Converter) Options() model.Options {
	return c.opts
}

// Convert turns Markdown text into a DITA concept document. Structural
// problems fail the whole conversion; nothing partial is returned.
func (c *Converter) Convert(ctx context.Context, text string) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "convert")
	defer span.End()

	res, err := c.convert(ctx, text)
	c.record(ctx, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

// Outline sanitizes, builds and validates text without rendering anything.
func (c *Converter) Outline(ctx context.Context, text string) (*outline.Tree, error) {
	ctx, span := c.tracer.Start(ctx, "outline")
	defer span.End()

	tree, err := c.outline(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return tree, nil
}

func (c *Converter) outline(ctx context.Context, text string) (*outline.Tree, error) {
	var sanitized string
	err := c.stage(ctx, "sanitize", func() (err error) {
		sanitized, err = c.sanitizer.Sanitize(text)
		return err
	})
	if err != nil {
		return nil, err
	}

	var tree *outline.Tree
	if err := c.stage(ctx, "build", func() (err error) {
		tree, err = c.builder.Build(sanitized)
		return err
	}); err != nil {
		return nil, err
	}

	if err := c.stage(ctx, "validate", func() error {
		return outline.Validate(tree)
	}); err != nil {
		return nil, err
	}

	if preamble := strings.TrimSpace(tree.Preamble()); preamble != "" {
		slog.Warn("dropping text before the title heading", "bytes", len(preamble))
	}
	return tree, nil
}

func (c *Converter) convert(ctx context.Context, text string) (*Result, error) {
	tree, err := c.outline(ctx, text)
	if err != nil {
		return nil, err
	}

	var assembly *topic.Assembly
	if err := c.stage(ctx, "assemble", func() (err error) {
		assembly, err = c.assembler.Assemble(tree)
		return err
	}); err != nil {
		return nil, err
	}

	_, span := c.tracer.Start(ctx, "finalize")
	doc := c.finalizer.Finalize(assembly.XML())
	span.End()

	slog.Debug("converted document", "topics", len(tree.Headings()), "bytes", len(doc))
	return &Result{XML: doc, Tree: tree, Assembly: assembly}, nil
}

func (c *Converter) stage(ctx context.Context, name string, fn func() error) error {
	_, span := c.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Converter) record(ctx context.Context, err error) {
	if c.conversions == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.conversions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
