package footing

import (
	"context"
	"fmt"
	"math"
)

// Step sizes and tolerances of the fixed-step searches.
const (
	widthStep      = 5e-5
	widthTolerance = 0.01
	wideBeamStep   = 5e-6
	punchingStep   = 5e-4
	ratioStep      = 5e-7

	maxSteps  = 20_000_000
	pollEvery = 4096
)

// Outcome tells how a search stopped.
type Outcome string

const (
	// Converged: the controlled variable sits on the limit-state boundary.
	Converged Outcome = "converged"
	// Bracketed: one step overshoots the tolerance band both ways; the safe side was kept.
	Bracketed Outcome = "bracketed"
	// Floored: the limit state holds down to the variable's lower bound.
	Floored Outcome = "floored"
)

// LoopReport is how many steps a search took and how it stopped.
type LoopReport struct {
	Steps   int     `json:"steps"`
	Outcome Outcome `json:"outcome"`
}

func poll(ctx context.Context, steps int) error {
	if steps >= maxSteps {
		return ErrNotConverged
	}
	if steps%pollEvery == 0 {
		return ctx.Err()
	}
	return nil
}

// searchWidth steps the width until contact pressure is within tolerance of the
// allowable pressure.
func (m member) searchWidth(ctx context.Context, width, thickness float64) (float64, Bearing, LoopReport, error) {
	b, err := m.bearing(width, thickness)
	if err != nil {
		return 0, Bearing{}, LoopReport{}, err
	}
	dir := 0.0
	for steps := 0; ; steps++ {
		diff := b.ContactPressure - b.Allowable
		if math.Abs(diff) <= widthTolerance {
			return width, b, LoopReport{Steps: steps, Outcome: Converged}, nil
		}
		next := -1.0
		if diff > 0 {
			next = 1
		}
		if dir != 0 && next != dir {
			// The previous width was on the other side of the band. Keep the wider one.
			if diff > 0 {
				width += widthStep
				if b, err = m.bearing(width, thickness); err != nil {
					return 0, Bearing{}, LoopReport{}, err
				}
			}
			return width, b, LoopReport{Steps: steps, Outcome: Bracketed}, nil
		}
		if err := poll(ctx, steps); err != nil {
			return 0, Bearing{}, LoopReport{}, fmt.Errorf("width search: %w", err)
		}
		dir = next
		width += dir * widthStep
		if width <= 0 {
			return 0, Bearing{}, LoopReport{}, infeasible("width search", "width", width)
		}
		if b, err = m.bearing(width, thickness); err != nil {
			return 0, Bearing{}, LoopReport{}, err
		}
	}
}

// walk steps x until it is the smallest grid value above floor for which ok holds.
// ok must be monotone: once it holds for x it holds for every larger x.
func walk(ctx context.Context, name string, x, step, floor float64, ok func(float64) (bool, error)) (float64, LoopReport, error) {
	holds, err := ok(x)
	if err != nil {
		return 0, LoopReport{}, err
	}
	for steps := 0; ; steps++ {
		if err := poll(ctx, steps); err != nil {
			return 0, LoopReport{}, fmt.Errorf("%s search: %w", name, err)
		}
		if holds {
			next := x - step
			if next <= floor {
				return math.Max(x, floor), LoopReport{Steps: steps, Outcome: Floored}, nil
			}
			nextHolds, err := ok(next)
			if err != nil {
				return 0, LoopReport{}, err
			}
			if !nextHolds {
				return x, LoopReport{Steps: steps, Outcome: Converged}, nil
			}
			x = next
			continue
		}
		x += step
		if holds, err = ok(x); err != nil {
			return 0, LoopReport{}, err
		}
		if holds {
			return x, LoopReport{Steps: steps + 1, Outcome: Converged}, nil
		}
	}
}

func (m member) searchWideBeam(ctx context.Context, thickness, width, ratio float64) (float64, Shear, LoopReport, error) {
	ok := func(t float64) (bool, error) {
		s, err := m.wideBeam(t, width, ratio)
		return s.ok(), err
	}
	t, rep, err := walk(ctx, "wide beam", thickness, wideBeamStep, m.minThickness(), ok)
	if err != nil {
		return 0, Shear{}, LoopReport{}, err
	}
	s, err := m.wideBeam(t, width, ratio)
	return t, s, rep, err
}

func (m member) searchPunching(ctx context.Context, thickness, width, ratio float64) (float64, Shear, LoopReport, error) {
	ok := func(t float64) (bool, error) {
		s, err := m.punching(t, width, ratio)
		return s.ok(), err
	}
	t, rep, err := walk(ctx, "punching", thickness, punchingStep, m.minThickness(), ok)
	if err != nil {
		return 0, Shear{}, LoopReport{}, err
	}
	s, err := m.punching(t, width, ratio)
	return t, s, rep, err
}

// searchRatio steps the reinforcement ratio until the moment capacity meets the demand.
// Below the minimum ratio the capacity no longer changes, so the minimum is the floor.
func (m member) searchRatio(ctx context.Context, thickness, width, ratio float64) (float64, Flexure, LoopReport, error) {
	ok := func(r float64) (bool, error) {
		f, err := m.flexure(thickness, width, r)
		return f.ok(), err
	}
	r, rep, err := walk(ctx, "ratio", ratio, ratioStep, m.minRatio, ok)
	if err != nil {
		return 0, Flexure{}, LoopReport{}, err
	}
	f, err := m.flexure(thickness, width, r)
	return r, f, rep, err
}
