package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Plinth/internal/config"
)

const clayYAML = `project: Warehouse C
author: QA
inputs:
  soilType: CU
  DL: 1000
  LL: "500"
  colx: 400
  coly: 400
  fck: 30
  fyk: 500
  bar: 16
  covr: 50
  Df: 1500
  gamma: 18
  CU: 50
`

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(fs)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDesignCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "pad-a1.yaml", []byte(clayYAML), 0o644))

	out, err := execute(t, fs, "design", "-f", "pad-a1.yaml", "--pdf", "pad-a1.pdf")
	require.NoError(t, err)

	assert.Contains(t, out, "Warehouse C")
	assert.Contains(t, out, "FINAL VALUES:")
	assert.Contains(t, out, "4100 x 4100 x 600 mm footing on clay, 22 Ø16 @ 20 mm each way")
	assert.Contains(t, out, "Report written to pad-a1.pdf")

	pdf, err := afero.ReadFile(fs, "pad-a1.pdf")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestDesignCommandErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "granite.yaml", []byte("inputs:\n  soilType: granite\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "empty.yaml", []byte("project: nothing\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "broken.yaml", []byte("inputs: [\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "light.yaml", []byte(
		"inputs:\n  soilType: CUST\n  DL: 50\n  LL: 10\n  colx: 400\n  coly: 400\n  fck: 30\n  fyk: 500\n  bar: 16\n  covr: 50\n"), 0o644))

	cases := map[string]struct {
		args []string
		want string
	}{
		"no file flag": {[]string{"design"}, `required flag(s) "file" not set`},
		"missing file": {[]string{"design", "-f", "nope.yaml"}, "read input"},
		"unknown soil": {[]string{"design", "-f", "granite.yaml"}, "Invalid soilType: GRANITE"},
		"no inputs":    {[]string{"design", "-f", "empty.yaml"}, "inputs missing"},
		"bad yaml":     {[]string{"design", "-f", "broken.yaml"}, "parse broken.yaml"},
		"out of range": {[]string{"design", "-f", "light.yaml"}, "invalid input values"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, fs, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "footing v"+config.Version)
}
