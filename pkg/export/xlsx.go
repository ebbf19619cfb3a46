package export

import (
	"emailcleaner/pkg/domain"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetCleaned = "Cleaned"
	sheetRemoved = "Removed"
	sheetSummary = "Summary"
)

// XLSX writes a workbook with the cleaned addresses, the rejections and the run summary.
func XLSX(w io.Writer, res *domain.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetCleaned); err != nil {
		return fmt.Errorf("could not rename sheet: %w", err)
	}
	for _, name := range []string{sheetRemoved, sheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("could not create sheet %q: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("could not create header style: %w", err)
	}

	cleaned := make([][]any, len(res.Cleaned))
	for i, email := range res.Cleaned {
		local, dom, _ := domain.SplitAddress(email)
		cleaned[i] = []any{email, local, dom}
	}

	removed := make([][]any, len(res.Removed))
	for i, r := range res.Removed {
		removed[i] = []any{r.Original, string(r.Reason)}
	}

	s := res.Summary
	summary := [][]any{
		{"total input", s.TotalInput},
		{"kept", s.Kept},
		{"removed", s.Removed},
		{"duplicates", s.Duplicates},
		{"corrected", s.Corrected},
	}

	sheets := []struct {
		name    string
		headers []any
		rows    [][]any
		width   float64
	}{
		{sheetCleaned, []any{"email", "local", "domain"}, cleaned, 36},
		{sheetRemoved, []any{"original", "reason"}, removed, 36},
		{sheetSummary, []any{"metric", "count"}, summary, 16},
	}

	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, header, sh.headers, sh.rows, sh.width); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, name string, style int, headers []any, rows [][]any, width float64) error {
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("could not write header of %q: %w", name, err)
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(name, "A1", last+"1", style); err != nil {
		return fmt.Errorf("could not style header of %q: %w", name, err)
	}
	if err := f.SetColWidth(name, "A", last, width); err != nil {
		return fmt.Errorf("could not size columns of %q: %w", name, err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("could not write row %d of %q: %w", i+2, name, err)
		}
	}

	return nil
}
