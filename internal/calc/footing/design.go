package footing

import (
	"context"
	"fmt"
	"math"
)

// Seeds of the first pass and the number of passes of the coupled searches.
const (
	seedThickness  = 0.7
	seedRatio      = 0.0025
	passes         = 6
	thicknessFloor = 0.3
)

// state is the working width, thickness and reinforcement ratio carried between passes.
type state struct {
	width     float64
	thickness float64
	ratio     float64
}

// Pass records the working values at the end of one pass.
type Pass struct {
	Width     float64 `json:"width_m"`
	Thickness float64 `json:"thickness_m"`
	Ratio     float64 `json:"ratio"`
}

// Loops reports each search of the final pass.
type Loops struct {
	Width    LoopReport `json:"width"`
	WideBeam LoopReport `json:"wide_beam"`
	Punching LoopReport `json:"punching"`
	Ratio    LoopReport `json:"ratio"`
}

// Quantities is the full engineering state of the final pass.
type Quantities struct {
	Width            float64 `json:"width_m"`
	Thickness        float64 `json:"thickness_m"`
	Ratio            float64 `json:"ratio"`
	EffectiveDepth   float64 `json:"effective_depth_m"`
	FactoredLoad     float64 `json:"factored_load_kn"`
	FactoredPressure float64 `json:"factored_pressure_kpa"`

	Bearing  Bearing `json:"bearing"`
	WideBeam Shear   `json:"wide_beam"`
	Punching Shear   `json:"punching"`
	Flexure  Flexure `json:"flexure"`
	Loops    Loops   `json:"loops"`
}

// Design sizes the footing. It returns (nil, nil) when the input fails validation.
// Engine failures are *DesignError values wrapping ErrInfeasible, ErrNotConverged,
// or the context error when ctx ends first.
func Design(ctx context.Context, in Input) (*Output, error) {
	if !Validate(in) {
		return nil, nil
	}
	m := newMember(in)
	st := state{width: m.column, thickness: seedThickness, ratio: seedRatio}

	history := make([]Pass, 0, passes)
	var q Quantities
	for i := 0; i < passes; i++ {
		var err error
		if st, q, err = m.pass(ctx, st); err != nil {
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
		history = append(history, Pass{Width: st.width, Thickness: st.thickness, Ratio: st.ratio})
	}
	return m.finalize(q, history)
}

// pass runs width, shear thickness and reinforcement ratio searches once, each seeded
// from the previous pass.
func (m member) pass(ctx context.Context, seed state) (state, Quantities, error) {
	var q Quantities
	var err error

	width := seed.width
	if width, q.Bearing, q.Loops.Width, err = m.searchWidth(ctx, width, seed.thickness); err != nil {
		return state{}, Quantities{}, err
	}

	var wide, punch float64
	if wide, q.WideBeam, q.Loops.WideBeam, err = m.searchWideBeam(ctx, seed.thickness, width, seed.ratio); err != nil {
		return state{}, Quantities{}, err
	}
	if punch, q.Punching, q.Loops.Punching, err = m.searchPunching(ctx, seed.thickness, width, seed.ratio); err != nil {
		return state{}, Quantities{}, err
	}
	thickness := math.Max(math.Max(wide, punch), thicknessFloor)

	var ratio float64
	if ratio, q.Flexure, q.Loops.Ratio, err = m.searchRatio(ctx, thickness, width, seed.ratio); err != nil {
		return state{}, Quantities{}, err
	}

	q.Width = width
	q.Thickness = thickness
	q.Ratio = ratio
	q.EffectiveDepth = m.effectiveDepth(thickness)
	q.FactoredLoad = m.factored
	q.FactoredPressure = m.factoredPressure(width)
	return state{width: width, thickness: thickness, ratio: ratio}, q, nil
}
