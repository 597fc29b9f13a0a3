package fixture

import (
	"reflect"
	"strings"
	"testing"
)

func TestAll_NamesUniqueAndOrdered(t *testing.T) {
	for _, d := range []Dialect{DialectCEL, DialectRego} {
		scenarios := All(d)
		if len(scenarios) != 14 {
			t.Fatalf("All(%s) returned %d scenarios, want 14", d, len(scenarios))
		}

		seen := make(map[string]bool, len(scenarios))
		for _, sc := range scenarios {
			if seen[sc.Name] {
				t.Errorf("duplicate scenario name %q", sc.Name)
			}
			seen[sc.Name] = true
		}
	}
}

func TestAll_Deterministic(t *testing.T) {
	for _, d := range []Dialect{DialectCEL, DialectRego} {
		first := All(d)
		second := All(d)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("All(%s) is not deterministic across calls", d)
		}
	}
}

func TestAll_FreshAttributeMaps(t *testing.T) {
	first := All(DialectCEL)
	first[0].Entities["role"] = "tampered"

	second := All(DialectCEL)
	if second[0].Entities["role"] != "admin" {
		t.Error("mutating a returned scenario leaked into later generations")
	}
}

func TestAll_FixedRequest(t *testing.T) {
	for _, sc := range All(DialectCEL) {
		if sc.Request.Subject != "test-user" || sc.Request.Action != "access" || sc.Request.Resource != "test-resource" {
			t.Errorf("scenario %s has request %+v, want the fixed triple", sc.Name, sc.Request)
		}
		if len(sc.Request.Context) != 0 {
			t.Errorf("scenario %s has non-empty request context", sc.Name)
		}
	}
}

func TestByName(t *testing.T) {
	sc, err := ByName(DialectCEL, "complexity/simple-satisfied")
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	if sc.Name != "complexity/simple-satisfied" {
		t.Errorf("ByName() returned %q", sc.Name)
	}

	if _, err := ByName(DialectCEL, "complexity/nonexistent"); err == nil {
		t.Error("ByName() with unknown name should fail")
	}
}

func TestComplexPolicy_MultipleFragments(t *testing.T) {
	for _, d := range []Dialect{DialectCEL, DialectRego} {
		sc, err := ByName(d, "complexity/complex-satisfied")
		if err != nil {
			t.Fatalf("ByName() error = %v", err)
		}
		if len(sc.PolicySource) < 2 {
			t.Errorf("complex scenario in %s has %d fragments, want several", d, len(sc.PolicySource))
		}
	}
}

func TestCountScenarios_ExactCardinality(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"count/small-satisfied", 5},
		{"count/medium-satisfied", 20},
		{"count/large-satisfied", 100},
		{"count/large-contradicted", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := ByName(DialectCEL, tt.name)
			if err != nil {
				t.Fatalf("ByName() error = %v", err)
			}
			ids, ok := sc.Entities["ids"].([]string)
			if !ok {
				t.Fatalf("ids attribute is %T, want []string", sc.Entities["ids"])
			}
			if len(ids) != tt.want {
				t.Errorf("ids has %d elements, want %d", len(ids), tt.want)
			}
			assertDistinct(t, ids)
		})
	}
}

func TestCountLargeContradicted_ExcludesRequired(t *testing.T) {
	sc, err := ByName(DialectCEL, "count/large-contradicted")
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	ids := sc.Entities["ids"].([]string)
	for _, id := range ids {
		if strings.HasPrefix(id, "id-") {
			t.Errorf("contradicted identifier set contains required identifier %q", id)
		}
	}
}

func TestQuantifierLargeSets_ExactCardinality(t *testing.T) {
	tests := []struct {
		name           string
		wantContainAll bool
	}{
		{"quantifier/large-satisfied", true},
		{"quantifier/large-contradicted", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := ByName(DialectCEL, tt.name)
			if err != nil {
				t.Fatalf("ByName() error = %v", err)
			}
			flags, ok := sc.Entities["flags"].([]string)
			if !ok {
				t.Fatalf("flags attribute is %T, want []string", sc.Entities["flags"])
			}
			if len(flags) != 100 {
				t.Errorf("flags has %d elements, want 100", len(flags))
			}
			assertDistinct(t, flags)

			got := containsAll(flags, requiredFlags())
			if got != tt.wantContainAll {
				t.Errorf("containsAll(flags, required) = %v, want %v", got, tt.wantContainAll)
			}
		})
	}
}

func TestSchema_CoversEveryAttribute(t *testing.T) {
	src := Schema(DialectCEL)
	for _, sc := range All(DialectCEL) {
		for name := range sc.Entities {
			if !strings.Contains(src, name+":") {
				t.Errorf("schema does not declare attribute %q used by %s", name, sc.Name)
			}
		}
	}

	if Schema(DialectRego) != "" {
		t.Error("rego dialect should have no schema source")
	}
}

func assertDistinct(t *testing.T, items []string) {
	t.Helper()
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		if seen[s] {
			t.Errorf("duplicate element %q", s)
		}
		seen[s] = true
	}
}

func containsAll(haystack, needles []string) bool {
	set := make(map[string]bool, len(haystack))
	for _, s := range haystack {
		set[s] = true
	}
	for _, n := range needles {
		if !set[n] {
			return false
		}
	}
	return true
}
