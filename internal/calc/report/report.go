package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"Plinth/internal/calc/footing"
)

type Meta struct {
	Project string    `json:"project" yaml:"project"`
	Author  string    `json:"author" yaml:"author"`
	Title   string    `json:"title" yaml:"title"`
	Notes   string    `json:"notes" yaml:"notes"`
	Date    time.Time `json:"-" yaml:"-"`
}

type Row struct {
	Label    string
	Unit     string
	Value    float64
	Decimals int
}

type Section struct {
	Title string
	Rows  []Row
}

func row(label, unit string, v float64, decimals int) Row {
	return Row{Label: label, Unit: unit, Value: v, Decimals: decimals}
}

// Sections lays out a design as report tables, lengths in mm.
func Sections(in footing.Input, out *footing.Output) []Section {
	q := out.Quantities
	b := q.Bearing

	inputs := []Row{
		row("Permanent Load (Gk)", "kN", in.DeadLoad, 1),
		row("Variable Load (Qk)", "kN", in.LiveLoad, 1),
		row("Moment X Permanent (Mx,Gk)", "kNm", in.MomentXPermanent, 1),
		row("Moment X Variable (Mx,Qk)", "kNm", in.MomentXVariable, 1),
		row("Moment Y Permanent (My,Gk)", "kNm", in.MomentYPermanent, 1),
		row("Moment Y Variable (My,Qk)", "kNm", in.MomentYVariable, 1),
		row("Column Width X (b)", "mm", in.ColumnX*1000, 0),
		row("Column Width Y (h)", "mm", in.ColumnY*1000, 0),
		row("Foundation Depth (Df)", "mm", b.Site.Depth*1000, 0),
		row("Soil Unit Weight", "kN/m³", b.Site.UnitWeight, 1),
	}
	switch s := in.Soil.(type) {
	case footing.Clay:
		inputs = append(inputs, row("Undrained Cohesion (Cu)", "kPa", s.UndrainedShearStrength, 1))
	case footing.Sand:
		inputs = append(inputs, row("Friction Angle (phi)", "deg", s.FrictionAngle, 1))
	case footing.CustomBearing:
		inputs = append(inputs, row("Allowable Bearing Pressure", "kPa", s.AllowablePressure, 1))
	}
	inputs = append(inputs,
		row("Concrete Strength (fck)", "MPa", in.Fck, 0),
		row("Steel Strength (fyk)", "MPa", in.Fyk, 0),
		row("Rebar Diameter (Ø)", "mm", in.BarDiameter, 0),
		row("Concrete Cover (c)", "mm", in.Cover*1000, 0),
	)

	geo := []Row{
		row("Self weight of footing (SWconc)", "kN", b.ConcreteWeight, 2),
		row("Self weight of fill (SWfill)", "kN", b.BackfillWeight, 2),
		row("Service Load (P)", "kN", b.ServiceLoad, 2),
		row("Footing Width (B)", "mm", q.Width*1000, 1),
		row("Footing Area (A)", "m²", q.Width*q.Width, 3),
		row("Eccentricity X (ex)", "mm", b.EccentricityX*1000, 4),
		row("Eccentricity Y (ey)", "mm", b.EccentricityY*1000, 4),
		row("Contact Pressure", "kPa", b.ContactPressure, 2),
		row("Ultimate Bearing Capacity (qu)", "kPa", b.Ultimate, 2),
		row("Factor of Safety (FS)", "", b.FactorOfSafety, 1),
		row("Allowable Bearing Capacity (qall)", "kPa", b.Allowable, 2),
	}
	if b.Nq != 0 {
		geo = append(geo,
			row("Bearing Factor Nc", "", b.Nc, 3),
			row("Bearing Factor Nq", "", b.Nq, 3),
			row("Bearing Factor Ngamma", "", b.Ngamma, 3),
		)
	}

	return []Section{
		{Title: "Input Parameters", Rows: inputs},
		{Title: "Geotechnical Design", Rows: geo},
		{Title: "Structural Design", Rows: []Row{
			row("Design Load (P = 1.35Gk + 1.5Qk)", "kN", q.FactoredLoad, 2),
			row("Design Pressure", "kPa", q.FactoredPressure, 2),
		}},
		{Title: "Punching Shear", Rows: shearRows(q.Punching)},
		{Title: "Wide Beam Shear", Rows: shearRows(q.WideBeam)},
		{Title: "Bending", Rows: []Row{
			row("Effective Depth (d)", "mm", q.Flexure.EffectiveDepth*1000, 1),
			row("Lever Arm (z)", "mm", q.Flexure.LeverArm*1000, 1),
			row("Design Moment (MEd)", "kNm", q.Flexure.Demand, 2),
			row("Moment Resistance (MRd)", "kNm", q.Flexure.Capacity, 2),
			row("Reinforcement Ratio", "", q.Ratio, 5),
			row("Minimum Reinforcement Area (As,min)", "mm²", out.MinimumArea, 1),
			row("Required Reinforcement Area (As)", "mm²", out.RequiredArea, 1),
		}},
		{Title: "Final Values", Rows: []Row{
			row("Footing Width (B)", "mm", out.Width*1000, 0),
			row("Footing Length (L)", "mm", out.Width*1000, 0),
			row("Footing Thickness (D)", "mm", out.Thickness*1000, 0),
			row("Number of bars, each direction, bottom", "", float64(out.BarCount), 0),
			row("Spacing between bars, bottom", "mm", out.Spacing, 0),
			row("Provided Reinforcement Area", "mm²", out.ProvidedArea, 1),
		}},
	}
}

func shearRows(s footing.Shear) []Row {
	return []Row{
		row("Effective Depth (d)", "mm", s.EffectiveDepth*1000, 1),
		row("Size Factor (k)", "", s.SizeFactor, 3),
		row("Critical-Section Surface Area (Acs)", "m²", s.LoadedArea, 3),
		row("Critical-Section Cross-Sectional Area (Acc)", "m²", s.SectionArea, 3),
		row("Minimum Shear Resistance (vRd,min)", "kPa", s.MinCapacity, 2),
		row("Design Shear Stress (vEd)", "kPa", s.Demand, 2),
		row("Shear Resistance (vRd)", "kPa", s.Capacity, 2),
		row("Required Depth (D)", "mm", s.Thickness*1000, 1),
	}
}

// Write renders the design report as PDF.
func Write(w io.Writer, meta Meta, in footing.Input, out *footing.Output) error {
	if meta.Title == "" {
		meta.Title = "Isolated Footing Design Report"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", meta.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", meta.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", meta.Date.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Soil: %s", out.Soil))
	pdf.Ln(10)
	if meta.Notes != "" {
		pdf.MultiCell(0, 6, tr(meta.Notes), "", "L", false)
		pdf.Ln(4)
	}

	for _, s := range Sections(in, out) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, s.Title)
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
		for _, r := range s.Rows {
			pdf.CellFormat(115, 6, tr(r.Label), "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, fmt.Sprintf("%.*f", r.Decimals, r.Value), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 6, tr(r.Unit), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}
	return pdf.Output(w)
}
