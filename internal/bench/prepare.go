// Package bench prepares catalogue scenarios and samples decision latency.
package bench

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/authz-engine/engine-bench/internal/engine"
	"github.com/authz-engine/engine-bench/pkg/types"
)

// Prepared binds one catalogue scenario to the engine's compiled forms for
// the duration of a run. It is built once per scenario, never mutated, and
// discarded when the run completes.
type Prepared struct {
	Scenario types.Scenario

	eng      engine.Engine
	policies engine.PolicySet
	entities engine.EntitySet
	request  engine.Request
}

// Prepare loads one scenario through the engine's own parsing and validation
// surface. Any failure is a defect in the static catalogue or schema, so
// callers treat errors as fatal; there are no retry semantics.
func Prepare(eng engine.Engine, sc types.Scenario, schema engine.Schema) (*Prepared, error) {
	if len(sc.PolicySource) == 0 {
		return nil, fmt.Errorf("scenario %s: no policy source", sc.Name)
	}

	policies := make([]engine.Policy, 0, len(sc.PolicySource))
	for i, src := range sc.PolicySource {
		id := policyID(sc.Name, i)
		p, err := eng.ParsePolicy(id, src)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		policies = append(policies, p)
	}

	set, err := eng.CompilePolicySet(policies)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	raw, err := json.Marshal(sc.Entities)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: failed to encode entities: %w", sc.Name, err)
	}
	entities, err := eng.ValidateEntities(string(raw), schema)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	req, err := eng.BuildRequest(sc.Request.Subject, sc.Request.Action, sc.Request.Resource, sc.Request.Context, schema)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	return &Prepared{
		Scenario: sc,
		eng:      eng,
		policies: set,
		entities: entities,
		request:  req,
	}, nil
}

// Decide runs one decision call against the prepared forms.
func (p *Prepared) Decide() (types.Decision, error) {
	return p.eng.Decide(p.request, p.policies, p.entities)
}

// policyID derives a stable per-fragment identifier from the fragment's
// position, so multi-rule scenarios compile one independently addressable
// policy per fragment.
func policyID(scenario string, i int) string {
	slug := strings.NewReplacer("/", "_", "-", "_").Replace(scenario)
	return fmt.Sprintf("%s_%d", slug, i)
}
