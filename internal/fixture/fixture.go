// Package fixture synthesizes the benchmark scenario catalogue.
//
// Every generator is pure and deterministic: repeated calls return
// byte-identical policy text and attribute records, so runs are comparable.
// Large element sets are produced by index range, which guarantees exact
// cardinality with no duplicates by construction.
package fixture

import (
	"fmt"

	"github.com/authz-engine/engine-bench/pkg/types"
)

// Dialect selects the policy language a scenario's source text is written in.
// The logical rules and attribute records are identical across dialects.
type Dialect string

const (
	// DialectCEL emits Common Expression Language boolean conditions.
	DialectCEL Dialect = "cel"
	// DialectRego emits Rego modules queried at data.bench.allow.
	DialectRego Dialect = "rego"
)

// Cardinality tiers for the set-containment families.
const (
	countSmall  = 5
	countMedium = 20
	largeSet    = 100
)

// entry keys one catalogue scenario by (family, tier, outcome).
type entry struct {
	name   string
	policy func(Dialect) []string
	attrs  func() types.Attributes
}

var catalogue = []entry{
	{"complexity/simple-satisfied", simplePolicy, satisfiedAttributes},
	{"complexity/simple-contradicted", simplePolicy, contradictedAttributes},
	{"complexity/medium-satisfied", mediumPolicy, satisfiedAttributes},
	{"complexity/medium-partial", mediumPolicy, mediumPartialAttributes},
	{"complexity/complex-satisfied", complexPolicy, complexSatisfiedAttributes},
	{"complexity/complex-partial", complexPolicy, complexPartialAttributes},
	{"quantifier/small-satisfied", quantifierPolicy, quantifierSmallSatisfiedAttributes},
	{"quantifier/small-contradicted", quantifierPolicy, quantifierSmallContradictedAttributes},
	{"quantifier/large-satisfied", quantifierPolicy, quantifierLargeSatisfiedAttributes},
	{"quantifier/large-contradicted", quantifierPolicy, quantifierLargeContradictedAttributes},
	{"count/small-satisfied", countPolicy(countSmall), countSatisfiedAttributes(countSmall)},
	{"count/medium-satisfied", countPolicy(countMedium), countSatisfiedAttributes(countMedium)},
	{"count/large-satisfied", countPolicy(largeSet), countSatisfiedAttributes(largeSet)},
	{"count/large-contradicted", countPolicy(largeSet), countContradictedAttributes},
}

// All returns the full scenario catalogue for a dialect, in run order.
func All(d Dialect) []types.Scenario {
	out := make([]types.Scenario, 0, len(catalogue))
	for _, e := range catalogue {
		out = append(out, types.Scenario{
			Name:         e.name,
			PolicySource: e.policy(d),
			Entities:     e.attrs(),
			Request:      fixedRequest(),
		})
	}
	return out
}

// ByName returns a single catalogue scenario.
func ByName(d Dialect, name string) (types.Scenario, error) {
	for _, e := range catalogue {
		if e.name == name {
			return types.Scenario{
				Name:         e.name,
				PolicySource: e.policy(d),
				Entities:     e.attrs(),
				Request:      fixedRequest(),
			}, nil
		}
	}
	return types.Scenario{}, fmt.Errorf("unknown scenario %q", name)
}

// fixedRequest is the request triple shared by every scenario.
func fixedRequest() types.Request {
	return types.Request{
		Subject:  "test-user",
		Action:   "access",
		Resource: "test-resource",
		Context:  map[string]interface{}{},
	}
}

// unknownDialect formats the panic message for a bad dialect. A bad dialect
// is a fixture-authoring defect, never a runtime condition.
func unknownDialect(d Dialect) string {
	return fmt.Sprintf("fixture: unknown policy dialect %q", d)
}
