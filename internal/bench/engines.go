package bench

import (
	"fmt"

	"github.com/authz-engine/engine-bench/internal/engine"
	"github.com/authz-engine/engine-bench/internal/engine/celengine"
	"github.com/authz-engine/engine-bench/internal/engine/regoengine"
)

// NewEngine constructs a decision engine by name.
func NewEngine(name string) (engine.Engine, error) {
	switch name {
	case "cel":
		return celengine.New()
	case "opa", "rego":
		return regoengine.New(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (supported: cel, opa)", name)
	}
}
