// Package batch parses the memos of many transactions concurrently.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/grocktx/grocktx/internal/model"
)

// MemoParser classifies a single memo. *memo.Parser satisfies it.
type MemoParser interface {
	Parse(memo string, ref time.Time) model.MemoRecord
}

// Summary describes a finished run.
type Summary struct {
	Total     int
	ByChannel map[model.Channel]int
	Started   time.Time
	Finished  time.Time
}

// Unknown returns how many memos could not be classified.
func (s Summary) Unknown() int {
	return s.ByChannel[model.ChannelUnknown]
}

// Runner fans transactions out to a fixed number of workers.
type Runner struct {
	parser    MemoParser
	workers   int
	reference time.Time
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of parsing goroutines. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = max(n, 1) }
}

// WithReference sets the reference date used for transactions that carry
// no date. The zero time leaves the choice to the parser.
func WithReference(ref time.Time) Option {
	return func(r *Runner) { r.reference = ref }
}

// WithLogger sets the logger for run events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner around p.
func NewRunner(p MemoParser, opts ...Option) *Runner {
	r := &Runner{
		parser:  p,
		workers: 1,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run parses every transaction's memo, using the transaction's own date as
// the reference date. The returned slice is a copy of txns, in the same
// order, with Record set. If ctx is cancelled Run stops handing out work
// and returns ctx.Err().
func (r *Runner) Run(ctx context.Context, txns []model.Transaction) ([]model.Transaction, Summary, error) {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)

	sum := Summary{Total: len(txns), ByChannel: make(map[model.Channel]int), Started: r.now()}
	r.logger.Info("batch_started", "transactions", len(txns), "workers", r.workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range r.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ref := out[i].Date
				if ref.IsZero() {
					ref = r.reference
				}
				out[i].Record = r.parser.Parse(out[i].Memo, ref)
			}
		}()
	}

	var err error
feed:
	for i := range out {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		r.logger.Warn("batch_cancelled", "error", err.Error())
		return nil, Summary{}, err
	}

	for _, t := range out {
		sum.ByChannel[t.Record.Channel]++
	}
	sum.Finished = r.now()
	r.logger.Info("batch_completed",
		"transactions", sum.Total,
		"unknown", sum.Unknown(),
		"elapsed", sum.Finished.Sub(sum.Started).String(),
	)
	return out, sum, nil
}
