package bench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authz-engine/engine-bench/internal/engine"
	"github.com/authz-engine/engine-bench/internal/fixture"
	"github.com/authz-engine/engine-bench/pkg/types"
)

// fakeEngine counts decision calls and can be made to fail at a chosen call,
// so the sampler's call accounting is observable without timing anything real.
type fakeEngine struct {
	decideCalls int
	failAt      int // 1-based decision call that errors; 0 disables
	decision    types.Decision

	gcCount uint32
	gcStep  uint32
	hasGC   bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failAt: 0, decision: types.DecisionAllow}
}

func (f *fakeEngine) Name() string             { return "fake" }
func (f *fakeEngine) Dialect() fixture.Dialect { return fixture.DialectCEL }

func (f *fakeEngine) ParseSchema(source string) (engine.Schema, error) {
	return "schema", nil
}

func (f *fakeEngine) ParsePolicy(id, source string) (engine.Policy, error) {
	if source == "" {
		return nil, errors.New("empty policy source")
	}
	return id, nil
}

func (f *fakeEngine) CompilePolicySet(policies []engine.Policy) (engine.PolicySet, error) {
	return policies, nil
}

func (f *fakeEngine) ValidateEntities(entitiesJSON string, schema engine.Schema) (engine.EntitySet, error) {
	return entitiesJSON, nil
}

func (f *fakeEngine) BuildRequest(subject, action, resource string, context map[string]interface{}, schema engine.Schema) (engine.Request, error) {
	return subject, nil
}

func (f *fakeEngine) Decide(request engine.Request, policies engine.PolicySet, entities engine.EntitySet) (types.Decision, error) {
	f.decideCalls++
	if f.failAt > 0 && f.decideCalls >= f.failAt {
		return "", errors.New("decision failed")
	}
	return f.decision, nil
}

func (f *fakeEngine) GCCount() (uint32, bool) {
	c := f.gcCount
	f.gcCount += f.gcStep
	return c, f.hasGC
}

func testScenario() types.Scenario {
	sc, err := fixture.ByName(fixture.DialectCEL, "complexity/simple-satisfied")
	if err != nil {
		panic(err)
	}
	return sc
}

func TestPrepare(t *testing.T) {
	eng := newFakeEngine()
	p, err := Prepare(eng, testScenario(), "schema")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Zero(t, eng.decideCalls, "preparation must not issue decision calls")

	d, err := p.Decide()
	require.NoError(t, err)
	assert.Equal(t, types.DecisionAllow, d)
	assert.Equal(t, 1, eng.decideCalls)
}

func TestPrepare_EmptyPolicySource(t *testing.T) {
	sc := testScenario()
	sc.PolicySource = nil
	_, err := Prepare(newFakeEngine(), sc, "schema")
	require.Error(t, err)
}

func TestSample_CallAccounting(t *testing.T) {
	tests := []struct {
		name    string
		warmup  int
		samples int
	}{
		{"warmup and samples", 10, 25},
		{"no warmup", 0, 5},
		{"zero samples", 10, 0},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newFakeEngine()
			p, err := Prepare(eng, testScenario(), "schema")
			require.NoError(t, err)

			m, err := p.Sample(tt.warmup, tt.samples)
			require.NoError(t, err)
			assert.Equal(t, tt.warmup+tt.samples, eng.decideCalls)
			assert.Len(t, m.Samples, tt.samples)
			for i, s := range m.Samples {
				assert.GreaterOrEqual(t, s, int64(0), "sample %d", i)
			}
		})
	}
}

func TestSample_NegativeCounts(t *testing.T) {
	p, err := Prepare(newFakeEngine(), testScenario(), "schema")
	require.NoError(t, err)

	_, err = p.Sample(-1, 10)
	assert.Error(t, err)
	_, err = p.Sample(10, -1)
	assert.Error(t, err)
}

func TestSample_WarmupFailureIsFatal(t *testing.T) {
	eng := newFakeEngine()
	eng.failAt = 3
	p, err := Prepare(eng, testScenario(), "schema")
	require.NoError(t, err)

	_, err = p.Sample(5, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warmup")
	assert.Equal(t, 3, eng.decideCalls, "sampling must stop at the failing call")
}

func TestSample_MeasuredFailureIsFatal(t *testing.T) {
	eng := newFakeEngine()
	eng.failAt = 7
	p, err := Prepare(eng, testScenario(), "schema")
	require.NoError(t, err)

	_, err = p.Sample(5, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "measured")
}

func TestSample_GCCycles(t *testing.T) {
	t.Run("engine with counter", func(t *testing.T) {
		eng := newFakeEngine()
		eng.hasGC = true
		eng.gcStep = 3
		p, err := Prepare(eng, testScenario(), "schema")
		require.NoError(t, err)

		m, err := p.Sample(0, 4)
		require.NoError(t, err)
		require.NotNil(t, m.GCCycles)
		assert.Equal(t, int64(3), *m.GCCycles)
	})

	t.Run("engine without counter", func(t *testing.T) {
		eng := newFakeEngine()
		eng.hasGC = false
		p, err := Prepare(eng, testScenario(), "schema")
		require.NoError(t, err)

		m, err := p.Sample(0, 4)
		require.NoError(t, err)
		assert.Nil(t, m.GCCycles, "absent counter must stay absent, not zero")
	})
}

func TestRunner_Run(t *testing.T) {
	eng := newFakeEngine()
	eng.hasGC = true
	r, err := NewRunner(eng, Options{Warmup: 2, Samples: 8}, nil)
	require.NoError(t, err)

	st, err := r.Run(testScenario())
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.Samples)
	require.NotNil(t, st.GCCount)
}

func TestRunner_RunAll(t *testing.T) {
	eng := newFakeEngine()
	r, err := NewRunner(eng, Options{Warmup: 1, Samples: 3}, nil)
	require.NoError(t, err)

	scenarios := r.Scenarios()
	out, err := r.RunAll()
	require.NoError(t, err)

	assert.Equal(t, "fake", out.Engine)
	assert.NotEmpty(t, out.Timestamp)
	require.Len(t, out.Benchmarks, len(scenarios))
	for i, b := range out.Benchmarks {
		assert.Equal(t, scenarios[i].Name, b.Name, "report order must match catalogue order")
		assert.Equal(t, int64(3), b.Results.Samples)
		assert.Nil(t, b.Results.GCCount)
	}
	assert.Equal(t, (1+3)*len(scenarios), eng.decideCalls)
}

func TestRunner_RunAll_AbortsOnFailure(t *testing.T) {
	eng := newFakeEngine()
	eng.failAt = 6 // inside the second scenario
	r, err := NewRunner(eng, Options{Warmup: 1, Samples: 3}, nil)
	require.NoError(t, err)

	_, err = r.RunAll()
	require.Error(t, err)
}

func TestNewRunner_RejectsNegativeCounts(t *testing.T) {
	_, err := NewRunner(newFakeEngine(), Options{Warmup: -1, Samples: 10}, nil)
	assert.Error(t, err)
	_, err = NewRunner(newFakeEngine(), Options{Warmup: 1, Samples: -10}, nil)
	assert.Error(t, err)
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name    string
		engine  string
		want    string
		wantErr bool
	}{
		{"cel", "cel", "cel", false},
		{"opa", "opa", "opa", false},
		{"rego alias", "rego", "opa", false},
		{"unknown", "cedar", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := NewEngine(tt.engine)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, eng.Name())
		})
	}
}
