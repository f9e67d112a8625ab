// Legacy .xls parser: some older marketplace exports still arrive in the
// binary format. We fix the table width ourselves and read every cell up to
// it, since Row.LastCol() under-reports on sparse sheets.
package fileio

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"
)

const probeMax = 256

// computeMaxCols walks the sheet looking for the widest populated row.
func computeMaxCols(sheet *xls.WorkSheet) int {
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if v := normalizeCell(row.Col(j)); v != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(r io.Reader) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"utf-8", "windows-1252"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}
