package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Runner re-imports the catalog on a fixed interval until its context is
// cancelled.
type Runner struct {
	controller Controller
	done       chan struct{}
	progress   chan RunnerProgress
	config     RunnerConfig
}

type RunnerConfig struct {
	Interval time.Duration
	// SkipInitial waits a full interval before the first run, for callers
	// that already imported synchronously.
	SkipInitial bool
}

type RunnerProgress struct {
	Run      int
	Imported int
	Failed   int
	At       time.Time
}

func NewRunner(controller Controller, config RunnerConfig) *Runner {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	return &Runner{
		controller: controller,
		done:       make(chan struct{}),
		progress:   make(chan RunnerProgress, 100),
		config:     config,
	}
}

// Start runs a Runner in the background. The returned stop cancels it and
// blocks until the current run, if any, has finished.
func Start(ctx context.Context, controller Controller, config RunnerConfig) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	runner := NewRunner(controller, config)
	go runner.Run(ctx)

	return func() {
		cancel()
		<-runner.Done()
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Progress reports each completed run. Reports are dropped when nobody reads.
func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("component", "ingest").Logger()
	defer close(r.done)
	defer close(r.progress)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	if r.config.SkipInitial {
		select {
		case <-ctx.Done():
			logger.Info().Msg("ingest runner stopped")
			return
		case <-ticker.C:
		}
	}

	for run := 1; ; run++ {
		results, err := r.controller.ImportAll(ctx)
		if err != nil && ctx.Err() == nil {
			logger.Warn().Err(err).Int("run", run).Msg("import run finished with errors")
		}

		report := RunnerProgress{Run: run, At: time.Now().UTC()}
		for _, result := range results {
			if result.Err != nil {
				report.Failed++
			} else {
				report.Imported++
			}
		}
		select {
		case r.progress <- report:
		default:
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("ingest runner stopped")
			return
		case <-ticker.C:
		}
	}
}
