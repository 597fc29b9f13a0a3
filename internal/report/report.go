// Package report assembles per-scenario statistics into the run report.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/authz-engine/engine-bench/pkg/types"
)

// Assemble combines per-scenario results, in catalogue order, with run
// metadata. Pure assembly; no computation.
func Assemble(engineName string, timestamp time.Time, benchmarks []types.BenchmarkResult) types.ResultsOutput {
	return types.ResultsOutput{
		Timestamp:  timestamp.UTC().Format(time.RFC3339Nano),
		Engine:     engineName,
		Benchmarks: benchmarks,
	}
}

// Encode renders the report as indented JSON for the results file.
func Encode(out types.ResultsOutput) ([]byte, error) {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}
	return data, nil
}
