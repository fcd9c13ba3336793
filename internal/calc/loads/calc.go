package loads

import "fmt"

type Method string

const (
	MethodSP24 Method = "SP24"
	MethodSP22 Method = "SP22"
	MethodEC7  Method = "EC7"
)

// Combination holds the partial factors applied to one permanent and one variable action.
type Combination struct {
	Name      string  `json:"name"`
	Permanent float64 `json:"permanent"`
	Variable  float64 `json:"variable"`
}

// EC7 is the STR/GEO set used for footing structural checks: 1.35G + 1.5Q.
var EC7 = Combination{Name: "EC7 STR/GEO", Permanent: 1.35, Variable: 1.5}

func (c Combination) Factored(permanent, variable float64) float64 {
	return c.Permanent*permanent + c.Variable*variable
}

type Input struct {
	Method   Method  `json:"method"`
	LoadGKN  float64 `json:"load_g_kn"`
	LoadQKN  float64 `json:"load_q_kn"`
	MomentGx float64 `json:"moment_g_x_knm"`
	MomentQx float64 `json:"moment_q_x_knm"`
	MomentGy float64 `json:"moment_g_y_knm"`
	MomentQy float64 `json:"moment_q_y_knm"`
}

type Result struct {
	DesignLoadKN    float64 `json:"design_load_kn"`
	DesignMomentXKN float64 `json:"design_moment_x_knm"`
	DesignMomentYKN float64 `json:"design_moment_y_knm"`
	ServiceLoadKN   float64 `json:"service_load_kn"`
	ComboName       string  `json:"combo_name"`
	Notes           string  `json:"notes"`
}

func Calculate(in Input) (Result, error) {
	if in.LoadGKN <= 0 {
		return Result{}, fmt.Errorf("invalid permanent load")
	}
	if in.LoadQKN < 0 {
		return Result{}, fmt.Errorf("invalid variable load")
	}
	c := For(in.Method)
	return Result{
		DesignLoadKN:    c.Factored(in.LoadGKN, in.LoadQKN),
		DesignMomentXKN: c.Factored(in.MomentGx, in.MomentQx),
		DesignMomentYKN: c.Factored(in.MomentGy, in.MomentQy),
		ServiceLoadKN:   in.LoadGKN + in.LoadQKN,
		ComboName:       c.Name,
		Notes:           "Column actions combined with one permanent and one variable load.",
	}, nil
}

// For returns the factor set of a method; unknown methods fall back to SP24.
func For(method Method) Combination {
	switch method {
	case MethodSP22:
		return Combination{Name: "SP22 basic", Permanent: 1.05, Variable: 1.2}
	case MethodEC7:
		return EC7
	default:
		return Combination{Name: "SP24 basic", Permanent: 1.1, Variable: 1.2}
	}
}
