package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"Plinth/internal/calc/footing"
	"Plinth/internal/calc/premium/batch"
)

// Columns is the sheet layout after the header row. Millimetre fields as in the design form.
var Columns = []string{
	"soilType", "DL", "LL", "mxp", "mxv", "myp", "myv",
	"colx", "coly", "fck", "fyk", "bar", "covr", "Df", "gamma", "CU", "PHI", "bc",
}

var ErrEmptySheet = errors.New("empty sheet")

// Row is one design of the sheet, numbered as in the spreadsheet.
type Row struct {
	Row int `json:"row"`
	batch.Item
}

type Result struct {
	Count  int   `json:"count"`
	Failed int   `json:"failed"`
	Rows   []Row `json:"rows"`
}

// Parse reads the first sheet into design requests. Blank rows are skipped; blank cells are
// left out so request defaults apply.
func Parse(r io.Reader) ([]footing.Request, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	var (
		reqs    []footing.Request
		numbers []int
	)
	for i := 1; i < len(rows); i++ {
		req := parseRow(rows[i])
		if len(req) == 0 {
			continue
		}
		reqs = append(reqs, req)
		numbers = append(numbers, i+1)
	}
	if len(reqs) == 0 {
		return nil, nil, ErrEmptySheet
	}
	return reqs, numbers, nil
}

func parseRow(row []string) footing.Request {
	req := footing.Request{}
	for i, cell := range row {
		if i >= len(Columns) {
			break
		}
		if v := strings.TrimSpace(cell); v != "" {
			req[Columns[i]] = v
		}
	}
	return req
}

// Import parses the workbook and designs every row with runner.
func Import(ctx context.Context, runner batch.Runner, r io.Reader) (Result, error) {
	reqs, numbers, err := Parse(r)
	if err != nil {
		return Result{}, err
	}
	res, err := runner.Run(ctx, batch.Input{Items: reqs})
	if err != nil {
		return Result{}, err
	}
	out := Result{Count: res.Count, Failed: res.Failed, Rows: make([]Row, len(res.Results))}
	for i, it := range res.Results {
		out.Rows[i] = Row{Row: numbers[i], Item: it}
	}
	return out, nil
}
