package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"Plinth/internal/calc/footing"
	"Plinth/internal/calc/report"
)

// designFile is the YAML input. Inputs uses the same keys and units as the HTTP API.
type designFile struct {
	report.Meta `yaml:",inline"`

	Inputs footing.Request `yaml:"inputs"`
}

type designOptions struct {
	file    string
	pdf     string
	timeout time.Duration
}

func newDesignCmd(fs afero.Fs) *cobra.Command {
	var opts designOptions
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design a footing from a YAML input file",
		Long: `Size the footing described in a YAML file and print the design tables.

The file holds optional report details and an inputs map with the API keys:
  project: Warehouse C
  inputs:
    soilType: CU      # CU clay, CD or S sand, CUST allowable pressure
    DL: 1000          # kN
    LL: 500           # kN
    colx: 400         # mm
    coly: 400         # mm
    fck: 30
    fyk: 500
    bar: 16
    covr: 50          # mm
    Df: 1500          # mm
    gamma: 18
    CU: 50

Examples:
  footing design -f pad-a1.yaml
  footing design -f pad-a1.yaml --pdf pad-a1.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesign(cmd.Context(), fs, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Input YAML file [required]")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "Also write the calculation report as PDF")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", footing.DefaultTimeout, "Give up on a design after this long")
	cmd.MarkFlagRequired("file")
	return cmd
}

func loadDesignFile(fs afero.Fs, path string) (designFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return designFile{}, fmt.Errorf("read input: %w", err)
	}
	var f designFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return designFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Inputs) == 0 {
		return designFile{}, fmt.Errorf("%s: inputs missing", path)
	}
	return f, nil
}

func runDesign(ctx context.Context, fs afero.Fs, w io.Writer, opts designOptions) error {
	f, err := loadDesignFile(fs, opts.file)
	if err != nil {
		return err
	}
	in, err := f.Inputs.Input()
	if err != nil {
		return err
	}
	out, err := footing.Run(ctx, opts.timeout, f.Inputs)
	if err != nil {
		return fmt.Errorf("design: %w", err)
	}

	printDesign(w, f.Meta, in, out)

	if opts.pdf == "" {
		return nil
	}
	pf, err := fs.Create(opts.pdf)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Write(pf, f.Meta, in, out); err != nil {
		pf.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := pf.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(w, "Report written to %s\n", opts.pdf)
	return nil
}

func printDesign(w io.Writer, meta report.Meta, in footing.Input, out *footing.Output) {
	heavy := strings.Repeat("═", 63)
	light := strings.Repeat("─", 63)

	fmt.Fprintln(w)
	fmt.Fprintln(w, heavy)
	fmt.Fprintln(w, "     ISOLATED SPREAD FOOTING DESIGN")
	if meta.Project != "" {
		fmt.Fprintf(w, "     %s\n", meta.Project)
	}
	fmt.Fprintln(w, heavy)

	for _, s := range report.Sections(in, out) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", strings.ToUpper(s.Title))
		fmt.Fprintln(w, light)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, r := range s.Rows {
			fmt.Fprintf(tw, "  %s:\t%s\n", r.Label, strings.TrimSpace(fmt.Sprintf("%.*f %s", r.Decimals, r.Value, r.Unit)))
		}
		tw.Flush()
	}

	loops := out.Quantities.Loops
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SEARCH LOOPS:")
	fmt.Fprintln(w, light)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Width:\t%d steps\t%s\n", loops.Width.Steps, loops.Width.Outcome)
	fmt.Fprintf(tw, "  Wide beam thickness:\t%d steps\t%s\n", loops.WideBeam.Steps, loops.WideBeam.Outcome)
	fmt.Fprintf(tw, "  Punching thickness:\t%d steps\t%s\n", loops.Punching.Steps, loops.Punching.Outcome)
	fmt.Fprintf(tw, "  Reinforcement ratio:\t%d steps\t%s\n", loops.Ratio.Steps, loops.Ratio.Outcome)
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, heavy)
	fmt.Fprintf(w, "  %.0f x %.0f x %.0f mm footing on %s, %d Ø%.0f @ %.0f mm each way\n",
		out.Width*1000, out.Width*1000, out.Thickness*1000, out.Soil, out.BarCount, out.BarDiameter, out.Spacing)
	fmt.Fprintln(w, heavy)
	fmt.Fprintln(w)
}
