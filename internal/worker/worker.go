package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/andrewhowdencom/md2dita/internal/converter"
	"github.com/andrewhowdencom/md2dita/internal/poller"
	"github.com/robfig/cron/v3"
)

// Status summarises the most recent watch pass.
type Status struct {
	LastRun   time.Time `json:"last_run"`
	Converted int       `json:"converted"`
	Failed    int       `json:"failed"`
}

// Worker watches a set of documents and reconverts the ones that change.
type Worker struct {
	poller    *poller.Poller
	conv      *converter.Cached
	inputs    []string
	outputDir string
	schedule  string

	mu     sync.RWMutex
	status Status
}

// New creates a new worker. schedule is a cron expression or descriptor
// such as "@every 30s".
func New(p *poller.Poller, conv *converter.Cached, inputs []string, outputDir, schedule string) (*Worker, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
	}
	return &Worker{
		poller:    p,
		conv:      conv,
		inputs:    inputs,
		outputDir: outputDir,
		schedule:  schedule,
	}, nil
}

// Run polls on the schedule and whenever SIGHUP arrives, until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("starting worker", "inputs", len(w.inputs), "schedule", w.schedule)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP)
	defer signal.Stop(signals)

	ticks := make(chan struct{}, 1)
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() {
		select {
		case ticks <- struct{}{}:
		default:
			// A pass is still queued.
		}
	}); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", w.schedule, err)
	}
	c.Start()
	defer c.Stop()

	// Run a poll on startup
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping worker")
			return nil
		case <-ticks:
			w.RunOnce(ctx)
		case <-signals:
			slog.Info("SIGHUP received, running poller")
			w.RunOnce(ctx)
		}
	}
}

// RunOnce converts every document that changed since the previous pass.
func (w *Worker) RunOnce(ctx context.Context) Status {
	slog.Debug("polling documents", "inputs", w.inputs)
	status := Status{LastRun: time.Now().UTC()}

	sources, err := w.poller.Poll(w.inputs)
	if err != nil {
		slog.Error("error polling documents", "error", err)
		status.Failed = len(w.inputs)
	}

	for _, source := range sources {
		record, _, err := w.conv.Convert(ctx, source.URL, "", source.Text)
		if err != nil {
			slog.Error("failed to convert document", "input", source.URL, "error", err)
			status.Failed++
			continue
		}

		out, err := OutputPath(DefaultOutput, w.outputDir, source, record.Title)
		if err == nil {
			err = WriteFile(out, []byte(record.XML))
		}
		if err != nil {
			slog.Error("failed to write document", "input", source.URL, "error", err)
			// Try again on the next pass even if the input does not change.
			w.poller.Forget(source.URL)
			status.Failed++
			continue
		}

		slog.Info("converted document", "input", source.URL, "output", out, "topics", record.Topics)
		status.Converted++
	}

	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
	return status
}

// Status returns the outcome of the most recent pass.
func (w *Worker) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}
