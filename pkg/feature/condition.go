package feature

// Operator is the closed set of comparison operators a condition may use.
// New operators require a matching case in Condition.Match and a shape rule
// in ValidateConfig; there is no string-keyed fallback.
type Operator string

const (
	// OperatorEquals matches when the attribute value equals the operand.
	OperatorEquals Operator = "equals"
	// OperatorIn matches when the attribute value is a member of the
	// operand list.
	OperatorIn Operator = "in"
)

// Valid reports whether the operator belongs to the supported set.
func (op Operator) Valid() bool {
	switch op {
	case OperatorEquals, OperatorIn:
		return true
	default:
		return false
	}
}

// Condition is a single targeting rule: it compares one attribute of the
// runtime bag against a stored operand.
type Condition struct {
	Attribute string   `json:"attribute"`
	Operator  Operator `json:"operator"`
	Value     Value    `json:"value"`
}

// Match reports whether the condition holds for the given attribute bag.
// An attribute missing from the bag never matches. Operators outside the
// supported set are rejected at write time; if one slips through anyway,
// Match fails closed instead of erroring on the read path.
func (c Condition) Match(attrs Attributes) bool {
	got, ok := attrs[c.Attribute]
	if !ok {
		return false
	}

	switch c.Operator {
	case OperatorEquals:
		return got.Equal(c.Value)
	case OperatorIn:
		return c.Value.Contains(got)
	default:
		return false
	}
}

func (c Condition) clone() Condition {
	c.Value = c.Value.clone()
	return c
}

func cloneConditions(conds []Condition) []Condition {
	if conds == nil {
		return nil
	}
	out := make([]Condition, len(conds))
	for i, c := range conds {
		out[i] = c.clone()
	}
	return out
}
