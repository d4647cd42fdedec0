package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"sync"

	"github.com/andrewhowdencom/md2dita/internal/converter"
	"github.com/andrewhowdencom/md2dita/internal/kv"
	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/andrewhowdencom/md2dita/internal/processor"
	"github.com/andrewhowdencom/md2dita/internal/sourcer"
	"github.com/andrewhowdencom/md2dita/internal/topic"
	"golang.org/x/sync/errgroup"
)

// DefaultOutput names the output of a job that does not name its own.
const DefaultOutput = "{{ .Base }}.dita"

// Result is the outcome of one batch job.
type Result struct {
	Job    model.Job
	Output string
	Record *kv.Record
	Cached bool
	Err    error
}

// Batch converts every job in a manifest.
type Batch struct {
	sourcer sourcer.Sourcer
	store   kv.Storer
	base    model.Options
	workers int
}

// NewBatch creates a Batch. store may be nil to disable caching.
func NewBatch(s sourcer.Sourcer, store kv.Storer, base model.Options, workers int) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{sourcer: s, store: store, base: base, workers: workers}
}

// ErrDuplicateOutput marks a job whose output path was already claimed by an
// earlier job in the manifest.
var ErrDuplicateOutput = errors.New("output path used by an earlier job")

// Run converts the jobs of m with at most b.workers in flight. Results are in
// manifest order. When several jobs resolve to the same output only the first
// is written; the later ones fail with ErrDuplicateOutput. The error joins
// every failed job.
func (b *Batch) Run(ctx context.Context, m *model.Manifest) ([]Result, error) {
	results := make([]Result, len(m.Jobs))
	converters := newConverterSet(b.store)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, job := range m.Jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Job: job, Err: err}
				return nil
			}
			results[i] = b.convertJob(gctx, converters.get(m.Options(job, b.base)), m.Defaults, job)
			return nil
		})
	}
	_ = g.Wait()

	claimOutputs(results)

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			b.writeJob(gctx, &results[i])
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Job.Input, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

// claimOutputs fails every successful result whose output path was already
// taken by an earlier result.
func claimOutputs(results []Result) {
	claimed := make(map[string]string)
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		key := filepath.Clean(r.Output)
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if first, ok := claimed[key]; ok {
			r.Err = fmt.Errorf("%w: %s is also the output of %s", ErrDuplicateOutput, r.Output, first)
			slog.Warn("skipping job with duplicate output", "input", r.Job.Input, "output", r.Output, "first", first)
			continue
		}
		claimed[key] = r.Job.Input
	}
}

// convertJob fetches, processes and converts one job and resolves its output
// path. Nothing is written yet.
func (b *Batch) convertJob(ctx context.Context, conv *converter.Cached, defaults model.Defaults, job model.Job) Result {
	res := Result{Job: job}

	source, _, err := b.sourcer.Source(job.Input)
	if err != nil {
		res.Err = err
		return res
	}

	var data map[string]interface{}
	if job.Data != nil {
		data = maps.Clone(job.Data)
	}
	text, err := processor.ForJob(data).Process(source.Text, data)
	if err != nil {
		res.Err = fmt.Errorf("failed to process document: %w", err)
		return res
	}

	record, cached, err := conv.Convert(ctx, source.URL, "", text)
	if err != nil {
		res.Err = err
		return res
	}
	res.Record, res.Cached = record, cached

	res.Output, err = OutputPath(job.Output, defaults.OutputDir, source, record.Title)
	if err != nil {
		res.Err = err
	}
	return res
}

func (b *Batch) writeJob(ctx context.Context, res *Result) {
	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}
	record := res.Record
	if err := WriteFile(res.Output, []byte(record.XML)); err != nil {
		res.Err = err
		return
	}
	if b.store != nil && record.Output != res.Output {
		record.Output = res.Output
		if err := b.store.PutRecord(record); err != nil {
			slog.Warn("could not record output path", "output", res.Output, "error", err)
		}
	}

	slog.Info("converted document", "input", res.Job.Input, "output", res.Output, "topics", record.Topics, "cached", res.Cached)
}

// OutputPath expands an output template for source. Relative results are
// placed under dir when it is set.
func OutputPath(tmpl, dir string, source *sourcer.Source, title string) (string, error) {
	if tmpl == "" {
		tmpl = DefaultOutput
	}
	out, err := processor.NewTemplateProcessor().Process(tmpl, map[string]interface{}{
		"Input": source.URL,
		"Base":  source.Base(),
		"Slug":  topic.Slug(title),
	})
	if err != nil {
		return "", fmt.Errorf("failed to expand output %q: %w", tmpl, err)
	}
	if out == "" {
		return "", fmt.Errorf("output %q expands to an empty path", tmpl)
	}
	if dir != "" && !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	return out, nil
}

// converterSet shares one converter between jobs with the same options.
type converterSet struct {
	store kv.Storer

	mu   sync.Mutex
	byOp map[model.Options]*converter.Cached
}

func newConverterSet(store kv.Storer) *converterSet {
	return &converterSet{store: store, byOp: make(map[model.Options]*converter.Cached)}
}

func (s *converterSet) get(opts model.Options) *converter.Cached {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.byOp[opts]; ok {
		return c
	}
	c := converter.NewCached(converter.New(opts), s.store)
	s.byOp[opts] = c
	return c
}
