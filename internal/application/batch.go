package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ahrav/crmbench/internal/dataset"
	"github.com/ahrav/crmbench/internal/domain"
	"github.com/ahrav/crmbench/internal/ports"
	"github.com/ahrav/crmbench/internal/questionset"
)

// Strategy selects how a batch schedules its runs. All strategies
// produce identical BatchSummary content; they differ only in wall time
// and resource pressure.
type Strategy string

const (
	// StrategySequential runs units one after another.
	StrategySequential Strategy = "sequential"
	// StrategyPool runs units on a fixed pool of workers fed by a jobs
	// channel.
	StrategyPool Strategy = "pool"
	// StrategyConcurrent launches every unit immediately, bounded by a
	// weighted semaphore.
	StrategyConcurrent Strategy = "concurrent"
)

// Unit is one batch entry: an ordered question sequence, its table, and
// a tag for per-dataset averaging.
type Unit struct {
	Questions []domain.Question
	Table     *dataset.Table
	Tag       string
}

// FileUnit is a path-based batch entry. Loading happens inside the run
// boundary so an unreadable or malformed file is absorbed as that run's
// failure, never the batch's.
type FileUnit struct {
	QuestionsPath string
	TablePath     string
	Tag           string
}

// BatchConfig tunes a RunMany call.
type BatchConfig struct {
	// Strategy selects the scheduling strategy; empty means sequential.
	Strategy Strategy

	// Workers bounds concurrency for the pool and concurrent
	// strategies. Must be positive for those strategies.
	Workers int

	// UnitTimeout, when positive, bounds each unit's run with its own
	// deadline. The batch itself is never cancelled by a slow unit.
	UnitTimeout time.Duration

	// Progress, when set, is called after each completed unit with the
	// number done and the total. Calls may arrive from worker
	// goroutines.
	Progress func(done, total int)

	// RunOptions are forwarded to every unit's run.
	RunOptions []RunOption
}

// validate rejects configurations that cannot possibly run. These are
// the only errors RunMany surfaces; everything downstream is absorbed
// into per-run results.
func (c BatchConfig) validate() error {
	switch c.Strategy {
	case StrategySequential, "":
	case StrategyPool, StrategyConcurrent:
		if c.Workers <= 0 {
			return fmt.Errorf("%w: strategy %q requires positive workers, got %d",
				domain.ErrConfigMismatch, c.Strategy, c.Workers)
		}
	default:
		return fmt.Errorf("%w: unknown strategy %q", domain.ErrConfigMismatch, c.Strategy)
	}
	return nil
}

// RunMany benchmarks the agent over every unit and aggregates the
// outcomes. A failing unit (unreadable files, malformed question set,
// crashing agent) contributes a zero-scored RunResult carrying the error
// string; the batch always runs to completion. IndividualResults
// preserves input order regardless of strategy.
//
// Only pre-flight configuration problems return an error.
func (r *Runner) RunMany(ctx context.Context, agent ports.Agent, units []Unit, cfg BatchConfig) (domain.BatchSummary, error) {
	if err := cfg.validate(); err != nil {
		return domain.BatchSummary{}, err
	}

	tagged := make([]domain.TaggedResult, len(units))
	run := func(ctx context.Context, i int) {
		tagged[i] = r.runUnit(ctx, agent, units[i], cfg)
	}

	r.dispatch(ctx, len(units), cfg, run)

	return domain.BatchAverages(tagged), nil
}

// RunManyFiles is RunMany over path-based units.
func (r *Runner) RunManyFiles(ctx context.Context, agent ports.Agent, units []FileUnit, cfg BatchConfig) (domain.BatchSummary, error) {
	if err := cfg.validate(); err != nil {
		return domain.BatchSummary{}, err
	}

	tagged := make([]domain.TaggedResult, len(units))
	run := func(ctx context.Context, i int) {
		tagged[i] = r.runFileUnit(ctx, agent, units[i], i, cfg)
	}

	r.dispatch(ctx, len(units), cfg, run)

	return domain.BatchAverages(tagged), nil
}

// dispatch schedules n indexed runs according to the configured
// strategy. Each index is written exactly once into a pre-allocated
// slot, so completion order never disturbs result order.
func (r *Runner) dispatch(ctx context.Context, n int, cfg BatchConfig, run func(ctx context.Context, i int)) {
	progress := newProgressTracker(n, cfg.Progress)

	switch cfg.Strategy {
	case StrategyPool:
		jobs := make(chan int)
		var g errgroup.Group
		for w := 0; w < cfg.Workers; w++ {
			g.Go(func() error {
				for i := range jobs {
					run(ctx, i)
					progress.done()
				}
				return nil
			})
		}
		for i := 0; i < n; i++ {
			jobs <- i
		}
		close(jobs)
		_ = g.Wait()

	case StrategyConcurrent:
		sem := semaphore.NewWeighted(int64(cfg.Workers))
		var g errgroup.Group
		for i := 0; i < n; i++ {
			if err := sem.Acquire(ctx, 1); err != nil {
				// Context cancelled: run the remaining units inline so
				// every slot still gets a (fault-absorbed) result.
				run(ctx, i)
				progress.done()
				continue
			}
			g.Go(func() error {
				defer sem.Release(1)
				run(ctx, i)
				progress.done()
				return nil
			})
		}
		_ = g.Wait()

	default: // sequential
		for i := 0; i < n; i++ {
			run(ctx, i)
			progress.done()
		}
	}
}

// runUnit executes one in-memory unit with per-unit deadline and full
// fault absorption.
func (r *Runner) runUnit(ctx context.Context, agent ports.Agent, unit Unit, cfg BatchConfig) domain.TaggedResult {
	if cfg.UnitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.UnitTimeout)
		defer cancel()
	}

	opts := append([]RunOption{WithTag(unit.Tag)}, cfg.RunOptions...)
	result := r.runAbsorbed(ctx, agent, unit.Questions, unit.Table, opts)
	return domain.TaggedResult{Tag: unit.Tag, Result: result}
}

// runFileUnit loads a file-based unit and executes it. Load failures
// become the run's failure.
func (r *Runner) runFileUnit(ctx context.Context, agent ports.Agent, unit FileUnit, index int, cfg BatchConfig) domain.TaggedResult {
	questions, err := questionset.LoadFile(unit.QuestionsPath)
	if err != nil {
		return domain.TaggedResult{Tag: unit.Tag, Result: failedRun(index, unit.Tag, err)}
	}

	table, err := dataset.ReadFile(unit.TablePath)
	if err != nil {
		return domain.TaggedResult{Tag: unit.Tag, Result: failedRun(index, unit.Tag, err)}
	}

	return r.runUnit(ctx, agent, Unit{Questions: questions, Table: table, Tag: unit.Tag}, cfg)
}

// runAbsorbed fences RunOne with a recover so even an orchestration
// panic is confined to one unit of the batch.
func (r *Runner) runAbsorbed(ctx context.Context, agent ports.Agent, questions []domain.Question, table *dataset.Table, opts []RunOption) (result domain.RunResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = domain.RunResult{
				Err: fmt.Sprintf("%v: run panicked: %v", domain.ErrRunExecution, rec),
			}
		}
	}()
	return r.RunOne(ctx, agent, questions, table, opts...)
}

// failedRun builds the zero-scored result recorded for a unit that
// could not start.
func failedRun(index int, tag string, err error) domain.RunResult {
	return domain.RunResult{
		Err: domain.NewRunError(index, tag, err).Error(),
	}
}

// progressTracker serializes Progress callbacks across workers.
type progressTracker struct {
	mu     sync.Mutex
	total  int
	count  int
	notify func(done, total int)
}

func newProgressTracker(total int, notify func(done, total int)) *progressTracker {
	return &progressTracker{total: total, notify: notify}
}

func (t *progressTracker) done() {
	if t.notify == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
	t.notify(t.count, t.total)
}
