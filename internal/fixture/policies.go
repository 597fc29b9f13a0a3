package fixture

import (
	"fmt"
	"strings"
)

// Policy source text per dialect. Rego modules all live in package bench and
// are queried at data.bench.allow; CEL fragments are boolean expressions over
// the subject attribute map.

const simpleCEL = `subject.role == "admin" && subject.level >= 5 && subject.status == "active"`

const simpleRego = `package bench

allow if {
	input.subject.role == "admin"
	input.subject.level >= 5
	input.subject.status == "active"
}
`

func simplePolicy(d Dialect) []string {
	switch d {
	case DialectCEL:
		return []string{simpleCEL}
	case DialectRego:
		return []string{simpleRego}
	}
	panic(unknownDialect(d))
}

const mediumCEL = `(subject.role == "admin" || subject.level > 8) && ` +
	`subject.status == "active" && subject.age < 65 && subject.score > 80 && ` +
	`(subject.department == "engineering" || subject.clearance >= 3) && ` +
	`subject.verified && subject.warnings == 0`

const mediumRego = `package bench

allow if {
	privileged
	input.subject.status == "active"
	input.subject.age < 65
	input.subject.score > 80
	cleared
	input.subject.verified
	input.subject.warnings == 0
}

privileged if input.subject.role == "admin"

privileged if input.subject.level > 8

cleared if input.subject.department == "engineering"

cleared if input.subject.clearance >= 3
`

func mediumPolicy(d Dialect) []string {
	switch d {
	case DialectCEL:
		return []string{mediumCEL}
	case DialectRego:
		return []string{mediumRego}
	}
	panic(unknownDialect(d))
}

// complexConditions are the rule fragments of the complex family. Each
// fragment becomes an independently compiled policy; the set allows when any
// fragment holds. Conditions are written as CEL and transcribed to Rego.
var complexCEL = []string{
	`subject.role == "admin" && subject.level >= 12 && subject.status == "active"`,
	`subject.department == "security" && subject.clearance >= 4 && subject.tenure > 5`,
	`subject.karma > 300 && subject.warnings == 0 && subject.reputation >= 400`,
	`subject.region == "us" && subject.verified && subject.trust_score > 90 && subject.restricted_flag == ""`,
	`subject.subscription == "premium" && !subject.trial && subject.account_age > 365`,
}

var complexRego = []string{
	`package bench

allow if {
	input.subject.role == "admin"
	input.subject.level >= 12
	input.subject.status == "active"
}
`,
	`package bench

allow if {
	input.subject.department == "security"
	input.subject.clearance >= 4
	input.subject.tenure > 5
}
`,
	`package bench

allow if {
	input.subject.karma > 300
	input.subject.warnings == 0
	input.subject.reputation >= 400
}
`,
	`package bench

allow if {
	input.subject.region == "us"
	input.subject.verified
	input.subject.trust_score > 90
	input.subject.restricted_flag == ""
}
`,
	`package bench

allow if {
	input.subject.subscription == "premium"
	not input.subject.trial
	input.subject.account_age > 365
}
`,
}

func complexPolicy(d Dialect) []string {
	switch d {
	case DialectCEL:
		return append([]string(nil), complexCEL...)
	case DialectRego:
		return append([]string(nil), complexRego...)
	}
	panic(unknownDialect(d))
}

// quantifierPolicy demands that the subject's flag set contains all required
// flags.
func quantifierPolicy(d Dialect) []string {
	return containsAllPolicy(d, requiredFlags(), "flags")
}

// countPolicy demands containment of n generated identifiers in the
// subject's identifier set. The required list is built by index range so the
// catalogue source stays compact at every cardinality tier.
func countPolicy(n int) func(Dialect) []string {
	return func(d Dialect) []string {
		return containsAllPolicy(d, identifierRange("id-", n), "ids")
	}
}

// containsAllPolicy renders "required ⊆ subject.<attr>" in the dialect.
func containsAllPolicy(d Dialect, required []string, attr string) []string {
	switch d {
	case DialectCEL:
		return []string{fmt.Sprintf("[%s].all(x, x in subject.%s)", quotedList(required), attr)}
	case DialectRego:
		return []string{fmt.Sprintf(`package bench

allow if {
	required := {%s}
	every x in required {
		x in input.subject.%s
	}
}
`, quotedList(required), attr)}
	}
	panic(unknownDialect(d))
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
