package fixture

import (
	"fmt"

	"github.com/authz-engine/engine-bench/pkg/types"
)

// Attribute records. Every scenario carries the complete attribute set the
// shared schema declares; outcome variants differ only in values. Each
// function returns a fresh map so callers can never alias catalogue state.

// satisfiedAttributes makes the simple and medium rules hold.
func satisfiedAttributes() types.Attributes {
	return types.Attributes{
		"role":            "admin",
		"level":           int64(10),
		"status":          "active",
		"age":             int64(30),
		"score":           int64(95),
		"department":      "engineering",
		"clearance":       int64(5),
		"tenure":          int64(6),
		"karma":           int64(500),
		"warnings":        int64(0),
		"reputation":      int64(500),
		"verified":        true,
		"region":          "us",
		"restricted_flag": "",
		"account_age":     int64(400),
		"trust_score":     int64(95),
		"subscription":    "premium",
		"trial":           false,
		"flags":           requiredFlags(),
		"ids":             identifierRange("id-", countSmall),
	}
}

// contradictedAttributes fails the simple rule on its first comparison.
func contradictedAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["role"] = "guest"
	a["level"] = int64(2)
	a["status"] = "banned"
	a["score"] = int64(50)
	a["department"] = "marketing"
	a["clearance"] = int64(1)
	a["tenure"] = int64(1)
	a["karma"] = int64(100)
	a["warnings"] = int64(5)
	a["reputation"] = int64(100)
	a["verified"] = false
	a["region"] = "other"
	a["restricted_flag"] = "flagged"
	a["account_age"] = int64(30)
	a["trust_score"] = int64(50)
	a["subscription"] = "free"
	a["trial"] = true
	return a
}

// mediumPartialAttributes satisfy the rule's leading disjunct (role) but fail
// later conjuncts, exercising the engine's short-circuit path.
func mediumPartialAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["level"] = int64(3)
	a["status"] = "inactive"
	a["age"] = int64(70)
	a["score"] = int64(50)
	a["department"] = "marketing"
	a["clearance"] = int64(1)
	a["tenure"] = int64(1)
	a["karma"] = int64(100)
	a["warnings"] = int64(5)
	a["reputation"] = int64(100)
	a["verified"] = false
	a["region"] = "other"
	a["account_age"] = int64(30)
	a["trust_score"] = int64(50)
	a["subscription"] = "free"
	return a
}

// complexSatisfiedAttributes satisfy every fragment of the complex set.
func complexSatisfiedAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["level"] = int64(15)
	a["department"] = "security"
	return a
}

// complexPartialAttributes make each complex fragment fail partway through.
func complexPartialAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["level"] = int64(15)
	a["status"] = "inactive"
	a["score"] = int64(50)
	a["department"] = "marketing"
	a["clearance"] = int64(1)
	a["tenure"] = int64(1)
	a["karma"] = int64(100)
	a["warnings"] = int64(5)
	a["reputation"] = int64(100)
	a["verified"] = false
	a["region"] = "other"
	a["account_age"] = int64(30)
	a["trust_score"] = int64(50)
	a["subscription"] = "free"
	return a
}

// Quantifier family: flag-set containment.

func quantifierSmallSatisfiedAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["flags"] = requiredFlags()
	return a
}

func quantifierSmallContradictedAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["flags"] = []string{"mfa", "sso", "billing"} // audit missing
	return a
}

func quantifierLargeSatisfiedAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["flags"] = largeFlagSet(true)
	return a
}

func quantifierLargeContradictedAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["flags"] = largeFlagSet(false)
	return a
}

// Count family: identifier-set containment.

func countSatisfiedAttributes(n int) func() types.Attributes {
	return func() types.Attributes {
		a := satisfiedAttributes()
		a["ids"] = identifierRange("id-", n)
		return a
	}
}

// countContradictedAttributes holds a full-size identifier set that excludes
// every required identifier.
func countContradictedAttributes() types.Attributes {
	a := satisfiedAttributes()
	a["ids"] = identifierRange("ext-", largeSet)
	return a
}

// requiredFlags is the flag set every quantifier rule demands.
func requiredFlags() []string {
	return []string{"mfa", "sso", "audit"}
}

// largeFlagSet returns exactly largeSet distinct flags. When complete is
// true the required flags are embedded at the tail; otherwise one required
// flag is left out so containment provably fails.
func largeFlagSet(complete bool) []string {
	required := requiredFlags()
	filler := largeSet - len(required)
	if !complete {
		required = required[:len(required)-1]
		filler = largeSet - len(required)
	}
	out := identifierRange("flag-", filler)
	return append(out, required...)
}

// identifierRange generates n distinct identifiers prefix0..prefix(n-1).
func identifierRange(prefix string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}
