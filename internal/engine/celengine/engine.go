// Package celengine adapts CEL as a decision engine under benchmark.
//
// Policies are boolean CEL expressions over the subject attribute map. The
// engine validates entity records against a YAML attribute schema before a
// run, then evaluates the compiled programs with permit-overrides: the set
// allows when any program evaluates true.
package celengine

import (
	"encoding/json"
	"fmt"
	"math"
	"runtime"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"github.com/authz-engine/engine-bench/internal/engine"
	"github.com/authz-engine/engine-bench/internal/fixture"
	"github.com/authz-engine/engine-bench/pkg/types"
)

// Attribute types the schema may declare.
const (
	attrString     = "string"
	attrInt        = "int"
	attrBool       = "bool"
	attrStringList = "string_list"
)

// Engine compiles and evaluates CEL policy expressions.
type Engine struct {
	env *cel.Env
}

// schema is the parsed shared attribute schema.
type schema struct {
	Entity     string            `yaml:"entity"`
	Attributes map[string]string `yaml:"attributes"`
}

// policy is one compiled CEL program under a stable identifier.
type policy struct {
	id   string
	prog cel.Program
}

// policySet is the compiled form evaluated by Decide.
type policySet struct {
	policies []policy
}

// entitySet holds schema-normalized subject attributes.
type entitySet struct {
	attrs map[string]interface{}
}

// request is the constructed request object.
type request struct {
	subject  string
	action   string
	resource string
	context  map[string]interface{}
}

// New creates a CEL engine with the evaluation variables policies may
// reference.
func New() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("subject", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("action", cel.StringType),
		cel.Variable("resource", cel.StringType),
		cel.Variable("context", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Engine{env: env}, nil
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return "cel" }

// Dialect implements engine.Engine.
func (e *Engine) Dialect() fixture.Dialect { return fixture.DialectCEL }

// ParseSchema parses the YAML attribute schema.
func (e *Engine) ParseSchema(source string) (engine.Schema, error) {
	s := &schema{}
	if err := yaml.Unmarshal([]byte(source), s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if s.Entity == "" {
		return nil, fmt.Errorf("schema declares no entity")
	}
	if len(s.Attributes) == 0 {
		return nil, fmt.Errorf("schema declares no attributes")
	}
	for name, typ := range s.Attributes {
		switch typ {
		case attrString, attrInt, attrBool, attrStringList:
		default:
			return nil, fmt.Errorf("schema attribute %q has unknown type %q", name, typ)
		}
	}
	return s, nil
}

// ParsePolicy compiles one CEL expression and checks it returns a boolean.
func (e *Engine) ParsePolicy(id, source string) (engine.Policy, error) {
	parsed, issues := e.env.Parse(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to parse policy %s: %w", id, issues.Err())
	}
	checked, issues := e.env.Check(parsed)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to check policy %s: %w", id, issues.Err())
	}
	if checked.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("policy %s must return boolean, got %v", id, checked.OutputType())
	}
	prog, err := e.env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("failed to compile policy %s: %w", id, err)
	}
	return policy{id: id, prog: prog}, nil
}

// CompilePolicySet combines parsed policies, rejecting duplicate identifiers.
func (e *Engine) CompilePolicySet(policies []engine.Policy) (engine.PolicySet, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("policy set is empty")
	}
	set := policySet{policies: make([]policy, 0, len(policies))}
	seen := make(map[string]bool, len(policies))
	for _, p := range policies {
		cp, ok := p.(policy)
		if !ok {
			return nil, fmt.Errorf("policy %T was not produced by this engine", p)
		}
		if seen[cp.id] {
			return nil, fmt.Errorf("duplicate policy id %q", cp.id)
		}
		seen[cp.id] = true
		set.policies = append(set.policies, cp)
	}
	return set, nil
}

// ValidateEntities checks the JSON attribute record against the schema and
// normalizes values: numbers become int64, lists become []string. Missing,
// unknown, and mistyped attributes are all rejected.
func (e *Engine) ValidateEntities(entitiesJSON string, sch engine.Schema) (engine.EntitySet, error) {
	s, ok := sch.(*schema)
	if !ok {
		return nil, fmt.Errorf("schema %T was not produced by this engine", sch)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(entitiesJSON), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse entity record: %w", err)
	}

	attrs := make(map[string]interface{}, len(s.Attributes))
	for name, typ := range s.Attributes {
		v, present := raw[name]
		if !present {
			return nil, fmt.Errorf("entity attribute %q is missing", name)
		}
		normalized, err := normalizeAttr(v, typ)
		if err != nil {
			return nil, fmt.Errorf("entity attribute %q: %w", name, err)
		}
		attrs[name] = normalized
	}
	for name := range raw {
		if _, declared := s.Attributes[name]; !declared {
			return nil, fmt.Errorf("entity attribute %q is not declared by the schema", name)
		}
	}

	return entitySet{attrs: attrs}, nil
}

// BuildRequest constructs the request object, requiring resolvable identities.
func (e *Engine) BuildRequest(subject, action, resource string, context map[string]interface{}, sch engine.Schema) (engine.Request, error) {
	if _, ok := sch.(*schema); !ok {
		return nil, fmt.Errorf("schema %T was not produced by this engine", sch)
	}
	if subject == "" || action == "" || resource == "" {
		return nil, fmt.Errorf("request identities must be non-empty")
	}
	if context == nil {
		context = map[string]interface{}{}
	}
	return request{subject: subject, action: action, resource: resource, context: context}, nil
}

// Decide evaluates every program in the set; the set allows when any program
// evaluates true.
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

	vars := map[string]interface{}{
		"subject":  es.attrs,
		"action":   r.action,
		"resource": r.resource,
		"context":  r.context,
	}

	for _, p := range set.policies {
		out, _, err := p.prog.Eval(vars)
		if err != nil {
			return "", fmt.Errorf("policy %s evaluation failed: %w", p.id, err)
		}
		allowed, ok := out.Value().(bool)
		if !ok {
			return "", fmt.Errorf("policy %s did not return boolean", p.id)
		}
		if allowed {
			return types.DecisionAllow, nil
		}
	}
	return types.DecisionDeny, nil
}

// GCCount reports the Go runtime's collection cycles; the engine runs
// in-process, so its allocation behavior shows up here.
func (e *Engine) GCCount() (uint32, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.NumGC, true
}

// normalizeAttr converts one decoded JSON value to the schema type.
func normalizeAttr(v interface{}, typ string) (interface{}, error) {
	switch typ {
	case attrString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil
	case attrInt:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected integer, got %T", v)
		}
		if math.Trunc(f) != f {
			return nil, fmt.Errorf("expected integer, got %v", f)
		}
		return int64(f), nil
	case attrBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil
	case attrStringList:
		list, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected string list, got %T", v)
		}
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string at index %d, got %T", i, item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown schema type %q", typ)
}
