package feature

import (
	"errors"
	"fmt"
)

const maxKeyLength = 255

// ValidateConfig checks a flag configuration before it is persisted.
// Evaluation relies on this gate: a stored flag always has a known operator
// and an operand whose shape fits it, which keeps Evaluate total.
func ValidateConfig(key string, conditions []Condition) error {
	if key == "" {
		return errors.Join(ErrInvalidFlag, errors.New("flag key cannot be empty"))
	}
	if len(key) > maxKeyLength {
		return errors.Join(ErrInvalidFlag,
			fmt.Errorf("flag key exceeds %d characters", maxKeyLength))
	}

	for i, cond := range conditions {
		if err := validateCondition(cond); err != nil {
			return errors.Join(ErrInvalidFlag, fmt.Errorf("condition %d: %w", i, err))
		}
	}

	return nil
}

func validateCondition(cond Condition) error {
	if cond.Attribute == "" {
		return errors.New("attribute cannot be empty")
	}
	if !cond.Operator.Valid() {
		return fmt.Errorf("unsupported operator %q", cond.Operator)
	}

	switch cond.Operator {
	case OperatorEquals:
		if !cond.Value.IsScalar() {
			return errors.New(`operator "equals" requires a scalar value`)
		}
	case OperatorIn:
		if cond.Value.Kind() != KindList {
			return errors.New(`operator "in" requires a list value`)
		}
		if cond.Value.Len() == 0 {
			return errors.New(`operator "in" requires a non-empty list`)
		}
	}

	return nil
}
