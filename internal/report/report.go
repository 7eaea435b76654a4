// Package report exports a results matrix as CSV, as an XLSX workbook and as
// a terminal summary.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/TomTonic/hashbench"
	"github.com/TomTonic/hashbench/internal/power"
	"github.com/xuri/excelize/v2"
)

// ErrNoResults is returned when there is nothing to export.
var ErrNoResults = errors.New("no results to save")

// Header is the column layout of the CSV export.
var Header = []string{
	"Filename", "Function", "Time (s)", "Collisions",
	"% Collisions", "Unique Hashes", "Chi-square", "p-value",
}

// HotFactor is the bucket skew whose detectability the workbook reports: one
// occupied bucket receiving twice its fair share.
const HotFactor = 2

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
	skippedSheet = "Skipped"
)

// Row formats one result the way the CSV export prints it.
func Row(r hashbench.TestResult) []string {
	return []string{
		r.Dataset,
		r.Function,
		strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 6, 64),
		strconv.Itoa(r.Collisions),
		strconv.FormatFloat(r.CollisionRate*100, 'f', 2, 64),
		strconv.Itoa(r.UniqueHashes),
		strconv.FormatFloat(r.ChiSquare, 'f', 2, 64),
		strconv.FormatFloat(r.PValue, 'f', 4, 64),
	}
}

// WriteCSV writes every completed pair to w, ordered by dataset then
// function.
func WriteCSV(w io.Writer, m *hashbench.ResultsMatrix) error {
	if m.Len() == 0 {
		return ErrNoResults
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	m.Each(func(r hashbench.TestResult) {
		cw.Write(Row(r))
	})
	cw.Flush()
	return cw.Error()
}

// SaveCSV creates path and writes the CSV export into it.
func SaveCSV(path string, m *hashbench.ResultsMatrix) error {
	if m.Len() == 0 {
		return ErrNoResults
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveXLSX writes a workbook with the raw results, the per-function summary
// and the skipped pairs. Each result row also carries the power of the
// level-alpha uniformity test to catch a HotFactor bucket at that dataset's
// size and occupied-bucket count.
func SaveXLSX(path string, m *hashbench.ResultsMatrix, summary []hashbench.FunctionSummary, alpha float64) error {
	if m.Len() == 0 {
		return ErrNoResults
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}
	header := append(append([]string{}, Header...), "Failures", fmt.Sprintf("Power (%dx bucket)", HotFactor))
	if err := setRow(f, resultsSheet, 1, toCells(header)); err != nil {
		return err
	}
	row := 2
	var err error
	m.Each(func(r hashbench.TestResult) {
		if err != nil {
			return
		}
		err = setRow(f, resultsSheet, row, []interface{}{
			r.Dataset, r.Function, r.Elapsed.Seconds(), r.Collisions,
			r.CollisionRate * 100, r.UniqueHashes, r.ChiSquare, r.PValue, r.Failures,
			power.Detectability(r.Size, r.UniqueHashes, HotFactor, alpha),
		})
		row++
	})
	if err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := setRow(f, summarySheet, 1, toCells(SummaryHeader)); err != nil {
		return err
	}
	for i, s := range summary {
		err := setRow(f, summarySheet, i+2, []interface{}{
			s.Function, s.Datasets, s.TotalElapsed.Seconds(),
			s.MeanCollisionRate * 100, s.MedianCollisionRate * 100, s.MaxCollisionRate * 100,
			s.MeanChiSquare, s.MedianPValue, s.Uniform, s.Failures,
		})
		if err != nil {
			return err
		}
	}

	if skipped := m.Skipped(); len(skipped) > 0 {
		if _, err := f.NewSheet(skippedSheet); err != nil {
			return err
		}
		if err := setRow(f, skippedSheet, 1, []interface{}{"Filename", "Function", "Reason"}); err != nil {
			return err
		}
		for i, pe := range skipped {
			if err := setRow(f, skippedSheet, i+2, []interface{}{pe.Dataset, pe.Function, pe.Err.Error()}); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// SummaryHeader is the column layout of the per-function summary.
var SummaryHeader = []string{
	"Function", "Files", "Total time (s)", "Mean % Collisions", "Median % Collisions",
	"Max % Collisions", "Mean Chi-square", "Median p-value", "Uniform files", "Failures",
}

// WriteSummary prints the per-function summary as an aligned table.
func WriteSummary(w io.Writer, summary []hashbench.FunctionSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range SummaryHeader {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for _, s := range summary {
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.2f\t%.2f\t%.2f\t%.2f\t%.4f\t%d\t%d\n",
			s.Function, s.Datasets, s.TotalElapsed.Seconds(),
			s.MeanCollisionRate*100, s.MedianCollisionRate*100, s.MaxCollisionRate*100,
			s.MeanChiSquare, s.MedianPValue, s.Uniform, s.Failures)
	}
	return tw.Flush()
}
