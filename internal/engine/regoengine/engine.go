// Package regoengine adapts OPA's Rego evaluator as a decision engine under
// benchmark.
//
// Each policy fragment is a Rego module in package bench; the compiled set is
// one prepared query against data.bench.allow, so incremental allow rules
// across fragments combine the way a multi-policy set should. Rego has no
// entity schema, so ParseSchema accepts an empty source and validation only
// decodes the attribute record.
package regoengine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/authz-engine/engine-bench/internal/engine"
	"github.com/authz-engine/engine-bench/internal/fixture"
	"github.com/authz-engine/engine-bench/pkg/types"
)

const allowQuery = "data.bench.allow"

// Engine evaluates Rego policy modules.
type Engine struct {
	ctx context.Context
}

// policy is one parsed Rego module kept as source text for compilation.
type policy struct {
	filename string
	source   string
}

// policySet is a prepared evaluation query over every module.
type policySet struct {
	query rego.PreparedEvalQuery
}

// entitySet holds the decoded subject attributes.
type entitySet struct {
	attrs map[string]interface{}
}

type request struct {
	subject  string
	action   string
	resource string
	context  map[string]interface{}
}

// New creates a Rego engine.
func New() *Engine {
	return &Engine{ctx: context.Background()}
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return "opa" }

// Dialect implements engine.Engine.
func (e *Engine) Dialect() fixture.Dialect { return fixture.DialectRego }

// ParseSchema returns a nil schema; Rego validates nothing ahead of
// evaluation.
func (e *Engine) ParseSchema(source string) (engine.Schema, error) {
	if source != "" {
		return nil, fmt.Errorf("rego engine accepts no schema")
	}
	return nil, nil
}

// ParsePolicy parses one Rego module.
func (e *Engine) ParsePolicy(id, source string) (engine.Policy, error) {
	filename := id + ".rego"
	if _, err := ast.ParseModule(filename, source); err != nil {
		return nil, fmt.Errorf("failed to parse policy %s: %w", id, err)
	}
	return policy{filename: filename, source: source}, nil
}

// CompilePolicySet prepares one query spanning every module.
func (e *Engine) CompilePolicySet(policies []engine.Policy) (engine.PolicySet, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("policy set is empty")
	}
	opts := []func(*rego.Rego){rego.Query(allowQuery)}
	for _, p := range policies {
		m, ok := p.(policy)
		if !ok {
			return nil, fmt.Errorf("policy %T was not produced by this engine", p)
		}
		opts = append(opts, rego.Module(m.filename, m.source))
	}
	query, err := rego.New(opts...).PrepareForEval(e.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy set: %w", err)
	}
	return policySet{query: query}, nil
}

// ValidateEntities decodes the attribute record.
func (e *Engine) ValidateEntities(entitiesJSON string, schema engine.Schema) (engine.EntitySet, error) {
	if schema != nil {
		return nil, fmt.Errorf("schema %T was not produced by this engine", schema)
	}
	var attrs map[string]interface{}
	if err := json.Unmarshal([]byte(entitiesJSON), &attrs); err != nil {
		return nil, fmt.Errorf("failed to parse entity record: %w", err)
	}
	return entitySet{attrs: attrs}, nil
}

// BuildRequest constructs the request object.
func (e *Engine) BuildRequest(subject, action, resource string, context map[string]interface{}, schema engine.Schema) (engine.Request, error) {
	if schema != nil {
		return nil, fmt.Errorf("schema %T was not produced by this engine", schema)
	}
	if subject == "" || action == "" || resource == "" {
		return nil, fmt.Errorf("request identities must be non-empty")
	}
	if context == nil {
		context = map[string]interface{}{}
	}
	return request{subject: subject, action: action, resource: resource, context: context}, nil
}

// Decide evaluates the prepared query. An undefined result is a deny.
func (e *Engine) Decide(req engine.Request, policies engine.PolicySet, entities engine.EntitySet) (types.Decision, error) {
	r, ok := req.(request)
	if !ok {
		return "", fmt.Errorf("request %T was not produced by this engine", req)
	}
	set, ok := policies.(policySet)
	if !ok {
		return "", fmt.Errorf("policy set %T was not produced by this engine", policies)
	}
	es, ok := entities.(entitySet)
	if !ok {
		return "", fmt.Errorf("entity set %T was not produced by this engine", entities)
	}

	input := map[string]interface{}{
		"subject":  es.attrs,
		"action":   r.action,
		"resource": r.resource,
		"context":  r.context,
	}

	rs, err := set.query.Eval(e.ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("policy evaluation failed: %w", err)
	}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		if allowed, ok := rs[0].Expressions[0].Value.(bool); ok && allowed {
			return types.DecisionAllow, nil
		}
	}
	return types.DecisionDeny, nil
}

// GCCount implements engine.Engine. OPA exposes no collection-cycle counter
// of its own, so the report carries an absent value rather than zero.
func (e *Engine) GCCount() (uint32, bool) {
	return 0, false
}
