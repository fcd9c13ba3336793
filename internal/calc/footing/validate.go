package footing

func within(v, lo, hi float64) bool {
	return lo <= v && v <= hi
}

// Validate reports whether every field lies in its admissible range for the selected soil.
// NaN never validates.
func Validate(in Input) bool {
	base := within(in.DeadLoad, 200, 4100) &&
		within(in.LiveLoad, 130, 2100) &&
		within(in.ColumnX, 0.1, 1.5) &&
		within(in.ColumnY, 0.1, 1.5) &&
		within(in.MomentXPermanent, -2000, 2000) &&
		within(in.MomentXVariable, -2000, 2000) &&
		within(in.MomentYPermanent, -2000, 2000) &&
		within(in.MomentYVariable, -2000, 2000) &&
		within(in.Fck, 25, 100) &&
		within(in.Fyk, 100, 1000) &&
		within(in.BarDiameter, 12, 32)
	if !base || in.Soil == nil {
		return false
	}
	return in.Soil.valid(in)
}

func validSite(in Input) bool {
	return within(in.FoundingDepth, 0, 10) && within(in.SoilUnitWeight, 1, 30)
}
