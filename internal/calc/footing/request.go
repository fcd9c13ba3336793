package footing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Request is the loosely typed design payload: numbers or numeric strings keyed by the
// field names of the design form. Column sizes, founding depth and cover are in millimetres.
type Request map[string]any

// RequestError is a payload problem the caller can fix.
type RequestError struct {
	Field string
	Msg   string
}

func (e *RequestError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, e.Field)
}

// Defaults for optional fields.
const (
	DefaultFrictionAngle     = 30.0
	DefaultAllowablePressure = 150.0
)

var upper = cases.Upper(language.Und)

// ParseSoil maps a soil token to its model kind: CU is undrained clay, CD and S are sand,
// CUST is a custom allowable pressure. Matching ignores case and surrounding space.
func ParseSoil(token string) (string, error) {
	t := upper.String(strings.TrimSpace(token))
	switch t {
	case "":
		return "", &RequestError{Msg: "Missing soilType parameter"}
	case "CU":
		return Clay{}.Kind(), nil
	case "CD", "S":
		return Sand{}.Kind(), nil
	case "CUST":
		return CustomBearing{}.Kind(), nil
	}
	return "", &RequestError{Field: t, Msg: "Invalid soilType"}
}

// Input converts the payload to engine units. It does not range-check; Design does.
func (r Request) Input() (Input, error) {
	token, ok := r["soilType"].(string)
	if raw := r["soilType"]; !ok && raw != nil {
		return Input{}, &RequestError{Field: fmt.Sprint(raw), Msg: "Invalid soilType"}
	}
	kind, err := ParseSoil(token)
	if err != nil {
		return Input{}, err
	}

	var in Input
	p := parser{req: r}
	in.DeadLoad = p.required("DL")
	in.LiveLoad = p.required("LL")
	in.MomentXPermanent = p.optional("mxp", 0)
	in.MomentXVariable = p.optional("mxv", 0)
	in.MomentYPermanent = p.optional("myp", 0)
	in.MomentYVariable = p.optional("myv", 0)
	in.ColumnX = p.required("colx") / 1000
	in.ColumnY = p.required("coly") / 1000
	in.Fck = p.required("fck")
	in.Fyk = p.required("fyk")
	in.BarDiameter = p.required("bar")
	in.Cover = p.required("covr") / 1000

	switch kind {
	case "clay":
		in.FoundingDepth = p.required("Df") / 1000
		in.SoilUnitWeight = p.required("gamma")
		in.Soil = Clay{UndrainedShearStrength: p.required("CU")}
	case "sand":
		in.FoundingDepth = p.required("Df") / 1000
		in.SoilUnitWeight = p.required("gamma")
		in.Soil = Sand{FrictionAngle: p.optional("PHI", DefaultFrictionAngle)}
	default:
		in.FoundingDepth = p.optional("Df", 0) / 1000
		in.SoilUnitWeight = p.optional("gamma", 0)
		in.Soil = CustomBearing{AllowablePressure: p.optional("bc", DefaultAllowablePressure)}
	}
	if p.err != nil {
		return Input{}, p.err
	}
	return in, nil
}

// parser keeps the first error so a field list reads top to bottom.
type parser struct {
	req Request
	err error
}

func (p *parser) required(key string) float64 {
	v, ok := p.req[key]
	if !ok || v == nil {
		p.fail(&RequestError{Field: key, Msg: "Missing parameter"})
		return 0
	}
	return p.number(key, v)
}

func (p *parser) optional(key string, def float64) float64 {
	v, ok := p.req[key]
	if !ok || v == nil {
		return def
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return def
	}
	return p.number(key, v)
}

func (p *parser) number(key string, v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err == nil {
			return f
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	p.fail(&RequestError{Field: key, Msg: "Invalid number"})
	return 0
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
