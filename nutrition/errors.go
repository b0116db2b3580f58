package nutrition

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEnum is returned when sex, activity level, goal or units is
	// outside its closed set. It is never recovered with a default.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrOutOfRange is returned for numeric input outside its range under the
	// Reject policy, and for NaN input under either policy.
	ErrOutOfRange = errors.New("input out of range")

	// ErrMacroInfeasible marks a calorie target too small to cover the protein
	// and fat allocations. The result is still usable with carbs floored at 0.
	ErrMacroInfeasible = errors.New("macro split infeasible")
)

// InfeasibleError describes a carbohydrate shortfall. It wraps
// ErrMacroInfeasible.
type InfeasibleError struct {
	TargetCalories int
	RemainingKcal  int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%v: %d kcal target leaves %d kcal for carbs after protein and fat",
		ErrMacroInfeasible, e.TargetCalories, e.RemainingKcal)
}

func (e *InfeasibleError) Unwrap() error { return ErrMacroInfeasible }
