package footing

import (
	"math"

	"Plinth/internal/calc/loads"
)

// EffectiveDepth is the mean depth of the two orthogonal bottom layers, in metres.
// bar and cover are in metres.
func EffectiveDepth(thickness, bar, cover float64) float64 {
	return ((thickness - cover - bar - bar/2) + (thickness - cover - bar)) / 2
}

// SizeEffectFactor is the shear size factor k, capped at 2.
func SizeEffectFactor(thickness, bar, cover float64) float64 {
	d := EffectiveDepth(thickness, bar, cover)
	return math.Min(2, 1+math.Sqrt(200/(1000*d)))
}

// MinRatio is the minimum flexural reinforcement ratio for the given strengths in MPa.
func MinRatio(fck, fyk float64) float64 {
	return math.Max(0.26*(1.43/fyk)*0.21*math.Pow(fck, 2.0/3), 0.0013)
}

// member holds everything about one request that stays fixed while the searches run.
type member struct {
	in       Input
	soil     SoilModel
	site     Site
	bar      float64 // m
	barMM    float64
	column   float64 // smaller column side, m
	minRatio float64
	factored float64 // kN
}

func newMember(in Input) member {
	return member{
		in:       in,
		soil:     in.Soil,
		site:     in.Soil.site(in),
		bar:      in.BarDiameter / 1000,
		barMM:    in.BarDiameter,
		column:   math.Min(in.ColumnX, in.ColumnY),
		minRatio: MinRatio(in.Fck, in.Fyk),
		factored: loads.EC7.Factored(in.DeadLoad, in.LiveLoad),
	}
}

func (m member) effectiveDepth(thickness float64) float64 {
	return EffectiveDepth(thickness, m.bar, m.in.Cover)
}

// minThickness is the thickness at which the effective depth vanishes.
func (m member) minThickness() float64 {
	return m.in.Cover + 1.25*m.bar
}

// factoredPressure is the ultimate ground pressure under a footing of the given width.
func (m member) factoredPressure(width float64) float64 {
	return m.factored / (width * width)
}
