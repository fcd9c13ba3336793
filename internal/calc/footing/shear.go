package footing

import "math"

// Shear is demand against capacity at one critical section, stresses in kPa.
type Shear struct {
	Thickness      float64 `json:"thickness_m"`
	EffectiveDepth float64 `json:"effective_depth_m"`
	SizeFactor     float64 `json:"size_factor"`
	Demand         float64 `json:"demand_kpa"`
	Capacity       float64 `json:"capacity_kpa"`
	MinCapacity    float64 `json:"min_capacity_kpa"`
	LoadedArea     float64 `json:"loaded_area_m2"`
	SectionArea    float64 `json:"section_area_m2"`
}

func (s Shear) ok() bool { return s.Demand <= s.Capacity }

// shearCapacity returns vRd and vRd,min for size factor k and ratio rho.
func shearCapacity(k, rho, fck float64) (vrd, vrdMin float64) {
	vrdMin = 0.035 * math.Pow(k, 1.5) * math.Sqrt(fck) * 1000
	vrd = math.Max(0.12*k*math.Cbrt(100*rho*fck)*1000, vrdMin)
	return vrd, vrdMin
}

func (m member) shearSection(thickness, ratio float64) Shear {
	k := SizeEffectFactor(thickness, m.bar, m.in.Cover)
	vrd, vrdMin := shearCapacity(k, ratio, m.in.Fck)
	return Shear{
		Thickness:      thickness,
		EffectiveDepth: m.effectiveDepth(thickness),
		SizeFactor:     k,
		Capacity:       vrd,
		MinCapacity:    vrdMin,
	}
}

// wideBeam checks one-way shear at d from the column face across the full width.
func (m member) wideBeam(thickness, width, ratio float64) (Shear, error) {
	s := m.shearSection(thickness, ratio)
	d := s.EffectiveDepth
	s.LoadedArea = math.Max(0, (width/2-m.column/2-d)*width)
	s.SectionArea = width * d
	s.Demand = m.factoredPressure(width) * s.LoadedArea / s.SectionArea
	return s, s.check("wide beam shear")
}

// punching checks two-way shear on the rounded perimeter at 2d from the column.
func (m member) punching(thickness, width, ratio float64) (Shear, error) {
	s := m.shearSection(thickness, ratio)
	d := s.EffectiveDepth
	cx, cy := m.in.ColumnX, m.in.ColumnY
	inside := (4*d+cy)*cx + 4*d*cy + 4*math.Pi*d*d
	s.LoadedArea = math.Max(0, width*width-inside)
	s.SectionArea = (2*cx + 2*cy + 4*math.Pi*d) * d
	s.Demand = m.factoredPressure(width) * s.LoadedArea / s.SectionArea
	return s, s.check("punching shear")
}

func (s Shear) check(stage string) error {
	if s.EffectiveDepth <= 0 {
		return infeasible(stage, "effective depth", s.EffectiveDepth)
	}
	return finite(stage,
		quantity{"size factor", s.SizeFactor},
		quantity{"demand", s.Demand},
		quantity{"capacity", s.Capacity},
	)
}
