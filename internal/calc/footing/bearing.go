package footing

import "math"

const concreteUnitWeight = 25.0

// Bearing is the geotechnical state of one trial width.
type Bearing struct {
	Capacity
	ContactPressure float64 `json:"contact_pressure_kpa"`
	ServiceLoad     float64 `json:"service_load_kn"`
	ConcreteWeight  float64 `json:"concrete_weight_kn"`
	BackfillWeight  float64 `json:"backfill_weight_kn"`
	EccentricityX   float64 `json:"eccentricity_x_m"`
	EccentricityY   float64 `json:"eccentricity_y_m"`
	Site            Site    `json:"site"`
}

// bearing evaluates contact pressure against allowable pressure.
// The eccentric pressure formula is applied without a kern check.
func (m member) bearing(width, thickness float64) (Bearing, error) {
	in := m.in
	concrete := concreteUnitWeight * width * width * thickness
	backfill := (width*width - m.column*m.column) * (m.site.Depth - thickness) * m.site.UnitWeight
	load := in.DeadLoad + concrete + backfill + in.LiveLoad
	ex := math.Abs((in.MomentYPermanent + in.MomentYVariable) / load)
	ey := math.Abs((in.MomentXPermanent + in.MomentXVariable) / load)
	pressure := (load / (width * width)) * (1 + 6*ex/width + 6*ey/width)

	b := Bearing{
		Capacity:        m.soil.capacity(m.site, width),
		ContactPressure: pressure,
		ServiceLoad:     load,
		ConcreteWeight:  concrete,
		BackfillWeight:  backfill,
		EccentricityX:   ex,
		EccentricityY:   ey,
		Site:            m.site,
	}
	if err := finite("bearing",
		quantity{"contact pressure", b.ContactPressure},
		quantity{"allowable pressure", b.Allowable},
	); err != nil {
		return Bearing{}, err
	}
	return b, nil
}
