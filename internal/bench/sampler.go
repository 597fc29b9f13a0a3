package bench

import (
	"fmt"
	"runtime"
	"time"
)

// Measurement is the raw output of sampling one prepared scenario: elapsed
// nanoseconds per measured call, in measurement order, plus the engine's
// collection-cycle delta when the engine exposes one.
type Measurement struct {
	Samples  []int64
	GCCycles *int64
}

// Sample performs exactly warmup discarded decision calls followed by exactly
// n individually timed calls. Calls are sequential and single-threaded so no
// measurement is perturbed by another. n == 0 is a valid degenerate case and
// yields an empty sample set.
//
// A decision call that errors aborts the scenario: a benchmark of a failing
// call is meaningless and no statistic may be reported for it.
func (p *Prepared) Sample(warmup, n int) (Measurement, error) {
	if warmup < 0 || n < 0 {
		return Measurement{}, fmt.Errorf("scenario %s: negative iteration count", p.Scenario.Name)
	}

	for i := 0; i < warmup; i++ {
		if _, err := p.Decide(); err != nil {
			return Measurement{}, fmt.Errorf("scenario %s: warmup call %d: %w", p.Scenario.Name, i, err)
		}
	}

	// Collect warmup garbage so measured calls are not charged for it.
	runtime.GC()
	gcBefore, hasGC := p.eng.GCCount()

	samples := make([]int64, n)
	for i := 0; i < n; i++ {
		start := time.Now()
		_, err := p.Decide()
		elapsed := time.Since(start)
		if err != nil {
			return Measurement{}, fmt.Errorf("scenario %s: measured call %d: %w", p.Scenario.Name, i, err)
		}
		samples[i] = elapsed.Nanoseconds()
	}

	m := Measurement{Samples: samples}
	if hasGC {
		gcAfter, _ := p.eng.GCCount()
		cycles := int64(gcAfter - gcBefore)
		m.GCCycles = &cycles
	}
	return m, nil
}
