package ingest

import (
	"emailcleaner/pkg/serrors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSX returns every cell holding an address, sheet by sheet in workbook order and
// row by row within a sheet.
func XLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not open spreadsheet")
	}
	defer f.Close()

	var tokens []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.Rows(sheet)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", sheet, err)
		}

		for rows.Next() {
			cols, err := rows.Columns()
			if err != nil {
				_ = rows.Close()

				return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read row of sheet %q", sheet)
			}
			tokens = appendCandidates(tokens, cols...)
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("could not close sheet %q: %w", sheet, err)
		}
	}

	return tokens, nil
}
