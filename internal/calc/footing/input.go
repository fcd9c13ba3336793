package footing

import "math"

// Input is one footing design request in engine units: kN, kNm, m, MPa, kN/m³.
// BarDiameter is the one exception and stays in millimetres.
type Input struct {
	DeadLoad float64 `json:"dead_load_kn"`
	LiveLoad float64 `json:"live_load_kn"`

	MomentXPermanent float64 `json:"moment_x_permanent_knm"`
	MomentXVariable  float64 `json:"moment_x_variable_knm"`
	MomentYPermanent float64 `json:"moment_y_permanent_knm"`
	MomentYVariable  float64 `json:"moment_y_variable_knm"`

	ColumnX float64 `json:"column_x_m"`
	ColumnY float64 `json:"column_y_m"`

	Fck         float64 `json:"fck_mpa"`
	Fyk         float64 `json:"fyk_mpa"`
	BarDiameter float64 `json:"bar_diameter_mm"`
	Cover       float64 `json:"cover_m"`

	FoundingDepth  float64 `json:"founding_depth_m"`
	SoilUnitWeight float64 `json:"soil_unit_weight_kn_m3"`

	Soil SoilModel `json:"-"`
}

// SoilModel is the founding stratum. Clay, Sand and CustomBearing are its only implementations.
type SoilModel interface {
	// Kind is the soil label carried in results and reports.
	Kind() string

	valid(in Input) bool
	site(in Input) Site
	capacity(site Site, width float64) Capacity
}

// Site is the founding depth and soil unit weight a design actually uses.
type Site struct {
	Depth      float64 `json:"depth_m"`
	UnitWeight float64 `json:"unit_weight_kn_m3"`
}

// Capacity is the bearing resistance of the soil under a footing of a given width.
type Capacity struct {
	Allowable      float64 `json:"allowable_kpa"`
	Ultimate       float64 `json:"ultimate_kpa"`
	FactorOfSafety float64 `json:"factor_of_safety"`
	Nc             float64 `json:"nc,omitempty"`
	Nq             float64 `json:"nq,omitempty"`
	Ngamma         float64 `json:"ngamma,omitempty"`
}

const factorOfSafety = 3.0

// Clay is undrained cohesive soil.
type Clay struct {
	UndrainedShearStrength float64 `json:"cu_kpa"`
}

func (Clay) Kind() string { return "clay" }

func (c Clay) valid(in Input) bool {
	return within(c.UndrainedShearStrength, 1, 1000) && validSite(in)
}

func (Clay) site(in Input) Site {
	return Site{Depth: in.FoundingDepth, UnitWeight: in.SoilUnitWeight}
}

func (c Clay) capacity(s Site, _ float64) Capacity {
	qu := 1.3*c.UndrainedShearStrength*5.14 + s.UnitWeight*s.Depth
	return Capacity{Allowable: qu / factorOfSafety, Ultimate: qu, FactorOfSafety: factorOfSafety}
}

// Sand is drained granular soil.
type Sand struct {
	FrictionAngle float64 `json:"phi_deg"`
}

func (Sand) Kind() string { return "sand" }

func (s Sand) valid(in Input) bool {
	return within(s.FrictionAngle, 1, 70) && validSite(in)
}

func (Sand) site(in Input) Site {
	return Site{Depth: in.FoundingDepth, UnitWeight: in.SoilUnitWeight}
}

func (s Sand) capacity(st Site, width float64) Capacity {
	nc, nq, ngamma := Terzaghi(s.FrictionAngle)
	qu := st.UnitWeight*st.Depth*nq + 0.4*width*st.UnitWeight*ngamma
	return Capacity{
		Allowable:      qu / factorOfSafety,
		Ultimate:       qu,
		FactorOfSafety: factorOfSafety,
		Nc:             nc,
		Nq:             nq,
		Ngamma:         ngamma,
	}
}

// CustomBearing is a site with a known allowable bearing pressure.
// The pressure is used as given, with no factor of safety.
type CustomBearing struct {
	AllowablePressure float64 `json:"bearing_kpa"`
}

// Fixed site values for CustomBearing; supplied depth and unit weight are ignored.
const (
	customFoundingDepth  = 3.0
	customSoilUnitWeight = 18.0
)

func (CustomBearing) Kind() string { return "custom" }

func (c CustomBearing) valid(Input) bool {
	return within(c.AllowablePressure, 50, 1000)
}

func (CustomBearing) site(Input) Site {
	return Site{Depth: customFoundingDepth, UnitWeight: customSoilUnitWeight}
}

func (c CustomBearing) capacity(Site, float64) Capacity {
	return Capacity{Allowable: c.AllowablePressure, Ultimate: c.AllowablePressure, FactorOfSafety: 1}
}

// Terzaghi returns the bearing capacity factors Nc, Nq and Nγ for a friction angle in degrees.
func Terzaghi(phi float64) (nc, nq, ngamma float64) {
	rad := phi * math.Pi / 180
	half := (45 + phi/2) * math.Pi / 180
	nq = math.Exp((270-phi)/180*math.Pi*math.Tan(rad)) / (2 * math.Pow(math.Cos(half), 2))
	nc = (nq - 1) / math.Tan(rad)
	ngamma = 2 * (nq + 1) * math.Tan(rad) / (1 + 0.4*math.Sin(4*phi*math.Pi/180))
	return nc, nq, ngamma
}
