package footing

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInfeasible marks a design that has no physical solution for the given input.
	ErrInfeasible = errors.New("infeasible design")
	// ErrNotConverged marks a search that hit its iteration ceiling.
	ErrNotConverged = errors.New("search did not converge")
)

// DesignError locates a failure inside the engine.
type DesignError struct {
	Stage    string
	Quantity string
	Value    float64
	Err      error
}

func (e *DesignError) Error() string {
	return fmt.Sprintf("%s: %s = %g: %v", e.Stage, e.Quantity, e.Value, e.Err)
}

func (e *DesignError) Unwrap() error { return e.Err }

func infeasible(stage, quantity string, v float64) error {
	return &DesignError{Stage: stage, Quantity: quantity, Value: v, Err: ErrInfeasible}
}

type quantity struct {
	name  string
	value float64
}

// finite rejects NaN and ±Inf, which only arise when a dimension has collapsed.
func finite(stage string, qs ...quantity) error {
	for _, q := range qs {
		if math.IsNaN(q.value) || math.IsInf(q.value, 0) {
			return infeasible(stage, q.name, q.value)
		}
	}
	return nil
}
