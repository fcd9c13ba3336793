package footing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Detailing limits.
const (
	sideCover       = 0.075 // m
	widthIncrement  = 0.1   // m
	depthIncrement  = 0.05  // m
	maxSpacing      = 400.0 // mm
	minSpacing      = 20.0  // mm
	spacingRounding = 10.0  // mm
)

// Output is a finished, buildable footing.
type Output struct {
	Soil        string  `json:"soil"`
	Width       float64 `json:"width_m"`
	Thickness   float64 `json:"thickness_m"`
	BarDiameter float64 `json:"bar_diameter_mm"`
	BarCount    int     `json:"bar_count"`
	Spacing     float64 `json:"spacing_mm"`

	RequiredArea float64 `json:"as_required_mm2"`
	MinimumArea  float64 `json:"as_min_mm2"`
	ProvidedArea float64 `json:"as_provided_mm2"`

	Quantities Quantities `json:"quantities"`
	Passes     []Pass     `json:"passes"`
}

func (m member) finalize(q Quantities, history []Pass) (*Output, error) {
	d := m.effectiveDepth(q.Thickness)
	required := q.Ratio * q.Width * d * 1e6
	minimum := m.minRatio * q.Width * d * 1e6
	barArea := math.Pi * math.Pow(m.barMM/2, 2)
	if err := finite("detailing", quantity{"required area", required}, quantity{"bar area", barArea}); err != nil {
		return nil, err
	}

	n := int(math.Ceil(required / barArea))
	if n < 1 {
		return nil, infeasible("detailing", "bar count", float64(n))
	}
	provided, _ := decimal.NewFromFloat(float64(n) * barArea).Round(1).Float64()

	width := ceilTo(q.Width, widthIncrement)
	thickness := math.Max(ceilTo(q.Thickness, depthIncrement), thicknessFloor)

	// A single bar has no spacing; only the caps below apply.
	spacing := math.Inf(1)
	if n > 1 {
		candidate := (width/float64(n-1) - m.bar - 2*sideCover) * 1000
		spacing = floorTo(candidate, spacingRounding)
	}
	spacing = math.Min(spacing, math.Min(maxSpacing, 3*thickness*1000))
	spacing = math.Max(spacing, math.Max(minSpacing, m.barMM))

	return &Output{
		Soil:         m.soil.Kind(),
		Width:        width,
		Thickness:    thickness,
		BarDiameter:  m.barMM,
		BarCount:     n,
		Spacing:      spacing,
		RequiredArea: required,
		MinimumArea:  minimum,
		ProvidedArea: provided,
		Quantities:   q,
		Passes:       history,
	}, nil
}

// ceilTo rounds v up to a multiple of step in decimal arithmetic, so 2.3 stays 2.3.
func ceilTo(v, step float64) float64 {
	s := decimal.NewFromFloat(step)
	out, _ := decimal.NewFromFloat(v).Div(s).Ceil().Mul(s).Float64()
	return out
}

func floorTo(v, step float64) float64 {
	s := decimal.NewFromFloat(step)
	out, _ := decimal.NewFromFloat(v).Div(s).Floor().Mul(s).Float64()
	return out
}
