package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"Plinth/internal/calc/footing"
)

// Bars are the stock diameters tried, mm.
var Bars = []float64{12, 16, 20, 25, 32}

var ErrNoOption = errors.New("no bar diameter gives a valid design")

type Option struct {
	BarDiameter  float64 `json:"bar_diameter_mm"`
	BarCount     int     `json:"bar_count"`
	Spacing      float64 `json:"spacing_mm"`
	ProvidedArea float64 `json:"as_provided_mm2"`
	Thickness    float64 `json:"thickness_m"`
	Width        float64 `json:"width_m"`
	Lightest     bool    `json:"lightest"`
}

type Result struct {
	Options []Option `json:"options"`
	Notes   string   `json:"notes"`
}

// BarSize designs the footing once per stock diameter, all under one deadline, and orders the
// options by provided steel area. Diameters that fail to design are left out.
func BarSize(ctx context.Context, timeout time.Duration, in footing.Input) (Result, error) {
	if timeout <= 0 {
		timeout = footing.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var opts []Option
	for _, bar := range Bars {
		in.BarDiameter = bar
		out, err := footing.Design(ctx, in)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, fmt.Errorf("bar %g mm: %w", bar, err)
			}
			continue
		}
		if out == nil {
			continue
		}
		opts = append(opts, Option{
			BarDiameter:  bar,
			BarCount:     out.BarCount,
			Spacing:      out.Spacing,
			ProvidedArea: out.ProvidedArea,
			Thickness:    out.Thickness,
			Width:        out.Width,
		})
	}
	if len(opts) == 0 {
		return Result{}, ErrNoOption
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].ProvidedArea < opts[j].ProvidedArea })
	opts[0].Lightest = true
	return Result{Options: opts, Notes: "Options ordered by provided steel area per direction."}, nil
}
