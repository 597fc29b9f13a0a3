package bench

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/authz-engine/engine-bench/internal/engine"
	"github.com/authz-engine/engine-bench/internal/fixture"
	"github.com/authz-engine/engine-bench/internal/report"
	"github.com/authz-engine/engine-bench/internal/stats"
	"github.com/authz-engine/engine-bench/pkg/types"
)

// Options configures one benchmark run.
type Options struct {
	// Warmup is the number of discarded decision calls per scenario.
	Warmup int
	// Samples is the number of timed decision calls per scenario.
	Samples int
}

// Runner executes the scenario catalogue against one engine, strictly one
// scenario at a time in catalogue order. Concurrent measurement would add
// scheduler noise, which is exactly what the harness exists to avoid.
type Runner struct {
	eng    engine.Engine
	schema engine.Schema
	logger *zap.Logger
	opts   Options
}

// NewRunner creates a runner, parsing the shared schema once for reuse
// across every scenario in the run.
func NewRunner(eng engine.Engine, opts Options, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Warmup < 0 || opts.Samples < 0 {
		return nil, fmt.Errorf("iteration counts must be non-negative")
	}

	schema, err := eng.ParseSchema(fixture.Schema(eng.Dialect()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse shared schema: %w", err)
	}

	return &Runner{eng: eng, schema: schema, logger: logger, opts: opts}, nil
}

// Scenarios lists the full catalogue for the runner's engine, in run order.
func (r *Runner) Scenarios() []types.Scenario {
	return fixture.All(r.eng.Dialect())
}

// Run prepares one scenario, samples it, and reduces the samples.
func (r *Runner) Run(sc types.Scenario) (types.BenchmarkStats, error) {
	prepared, err := Prepare(r.eng, sc, r.schema)
	if err != nil {
		return types.BenchmarkStats{}, err
	}

	m, err := prepared.Sample(r.opts.Warmup, r.opts.Samples)
	if err != nil {
		return types.BenchmarkStats{}, err
	}

	st := stats.Reduce(m.Samples)
	st.GCCount = m.GCCycles
	return st, nil
}

// RunAll runs every catalogue scenario and assembles the results report.
// The first failure aborts the run: skipping a scenario would silently
// shrink the report and mislead cross-engine comparisons.
func (r *Runner) RunAll() (types.ResultsOutput, error) {
	scenarios := r.Scenarios()
	benchmarks := make([]types.BenchmarkResult, 0, len(scenarios))

	for _, sc := range scenarios {
		r.logger.Info("running scenario",
			zap.String("scenario", sc.Name),
			zap.Int("warmup", r.opts.Warmup),
			zap.Int("samples", r.opts.Samples),
		)

		st, err := r.Run(sc)
		if err != nil {
			return types.ResultsOutput{}, err
		}

		r.logger.Info("scenario complete",
			zap.String("scenario", sc.Name),
			zap.Int64("mean_ns", st.MeanNS),
			zap.Int64("std_dev", st.StdDev),
		)
		benchmarks = append(benchmarks, types.BenchmarkResult{Name: sc.Name, Results: st})
	}

	return report.Assemble(r.eng.Name(), time.Now(), benchmarks), nil
}
