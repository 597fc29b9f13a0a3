// Package engine defines the decision-engine surface the harness consumes.
//
// The harness treats the engine as a black box: it loads fixtures through the
// engine's own parsing and validation entry points and then measures the
// latency of Decide. Compiled forms are opaque handles owned by the engine
// that produced them; passing a handle to a different engine is a programming
// error.
package engine

import (
	"github.com/authz-engine/engine-bench/internal/fixture"
	"github.com/authz-engine/engine-bench/pkg/types"
)

// Opaque engine-owned handles.
type (
	// Schema is a parsed attribute schema, nil for schema-less engines.
	Schema interface{}
	// Policy is one parsed policy fragment.
	Policy interface{}
	// PolicySet is a compiled set of policies evaluated together.
	PolicySet interface{}
	// EntitySet is a validated entity attribute set.
	EntitySet interface{}
	// Request is a constructed request object.
	Request interface{}
)

// Engine is one authorization decision engine under benchmark.
type Engine interface {
	// Name identifies the engine in reports.
	Name() string

	// Dialect is the policy language this engine parses.
	Dialect() fixture.Dialect

	// ParseSchema parses the shared schema source. Engines without a schema
	// concept accept an empty source and return a nil Schema.
	ParseSchema(source string) (Schema, error)

	// ParsePolicy parses one policy fragment under a stable identifier.
	ParsePolicy(id, source string) (Policy, error)

	// CompilePolicySet combines parsed policies into one evaluable set.
	CompilePolicySet(policies []Policy) (PolicySet, error)

	// ValidateEntities validates a JSON attribute record against the schema.
	ValidateEntities(entitiesJSON string, schema Schema) (EntitySet, error)

	// BuildRequest constructs the request object for a decision call.
	BuildRequest(subject, action, resource string, context map[string]interface{}, schema Schema) (Request, error)

	// Decide evaluates the policy set. This is the call the harness times.
	Decide(request Request, policies PolicySet, entities EntitySet) (types.Decision, error)

	// GCCount reports the engine's garbage-collection cycle counter.
	// ok is false for engines that expose no such counter; absent and zero
	// are distinct in the report.
	GCCount() (count uint32, ok bool)
}
