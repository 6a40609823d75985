package scope

import "fmt"

// Policy selects how cursor-scope resolution treats multi-level indent
// jumps. The relaxed policy reports the scope exactly as the contain
// search finds it. The strict policy widens the range and pins the
// highlight column when a line indents by more than the configured
// number of steps past its containing line, so a single deep jump does
// not produce a misleadingly deep highlight.
type Policy uint8

const (
	// PolicyRelaxed reports scopes without widening.
	PolicyRelaxed Policy = iota

	// PolicyStrict clamps scope widening with a max-increase budget.
	PolicyStrict
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyRelaxed:
		return "relaxed"
	case PolicyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "relaxed", "":
		return PolicyRelaxed, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyRelaxed, fmt.Errorf("unknown scope policy %q", s)
	}
}
