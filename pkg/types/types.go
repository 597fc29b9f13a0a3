// Package types provides shared types for the benchmark harness
package types

// Decision is the outcome of a single decision-engine call. The harness
// measures the latency of producing it; the value itself is only inspected
// by fixture sanity tests.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// Attributes is a subject attribute record. Values are one of: string,
// int64, bool, or []string. The decision engine validates the record
// against the shared schema before a run.
type Attributes map[string]interface{}

// Request is the fixed (subject, action, resource) triple evaluated by every
// scenario. Holding it constant keeps latency differences attributable to
// policy and entity complexity rather than request shape.
type Request struct {
	Subject  string                 `json:"subject"`
	Action   string                 `json:"action"`
	Resource string                 `json:"resource"`
	Context  map[string]interface{} `json:"context"`
}

// Scenario is one named, self-contained benchmark case: policy text,
// entity attributes, and the fixed request. Scenarios are immutable once
// generated and their names are unique within a catalogue.
type Scenario struct {
	Name         string
	PolicySource []string
	Entities     Attributes
	Request      Request
}

// BenchmarkStats summarizes one scenario's latency samples. All time fields
// are integer nanoseconds, truncated. GCCount is nil for engines that do not
// expose a collection-cycle counter; nil and zero are distinct on the wire.
//
// Field names are the persisted report schema consumed by downstream
// comparison tooling and must not change.
type BenchmarkStats struct {
	MeanNS  int64  `json:"mean-ns"`
	StdDev  int64  `json:"std-dev"`
	LowerQ  int64  `json:"lower-q"`
	UpperQ  int64  `json:"upper-q"`
	Samples int64  `json:"samples"`
	GCCount *int64 `json:"gc-count"`
}

// BenchmarkResult pairs a scenario name with its statistics.
type BenchmarkResult struct {
	Name    string         `json:"name"`
	Results BenchmarkStats `json:"results"`
}

// ResultsOutput is the top-level report for one benchmark run.
type ResultsOutput struct {
	Timestamp  string            `json:"timestamp"`
	Engine     string            `json:"engine"`
	Benchmarks []BenchmarkResult `json:"benchmarks"`
}
