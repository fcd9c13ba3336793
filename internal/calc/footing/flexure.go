package footing

import "math"

// Flexure is bending at the column face, moments in kNm.
type Flexure struct {
	Ratio          float64 `json:"ratio"`
	MinRatio       float64 `json:"min_ratio"`
	EffectiveDepth float64 `json:"effective_depth_m"`
	LeverArm       float64 `json:"lever_arm_m"`
	Demand         float64 `json:"demand_knm"`
	Capacity       float64 `json:"capacity_knm"`
}

func (f Flexure) ok() bool { return f.Demand <= f.Capacity }

func (m member) flexure(thickness, width, ratio float64) (Flexure, error) {
	d := m.effectiveDepth(thickness)
	if d <= 0 {
		return Flexure{}, infeasible("flexure", "effective depth", d)
	}
	fck := m.in.Fck
	arm := width/2 - m.column/2
	med := m.factoredPressure(width) * (width / 2) * arm * arm

	radicand := 0.25 - med/(width*d*d*fck*1000*1.134)
	if radicand < 0 {
		return Flexure{}, infeasible("flexure", "lever arm radicand", radicand)
	}
	z := d * (0.5 + math.Sqrt(radicand))
	mrd := 0.87 * (m.in.Fyk * 1000) * z * math.Max(ratio, m.minRatio) * width * d

	f := Flexure{
		Ratio:          ratio,
		MinRatio:       m.minRatio,
		EffectiveDepth: d,
		LeverArm:       z,
		Demand:         med,
		Capacity:       mrd,
	}
	return f, finite("flexure", quantity{"demand", med}, quantity{"capacity", mrd})
}
