package lagreport

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders snap as a single-sheet workbook, one row per
// partition, sorted for deterministic output. It mirrors the teacher's
// pkg/excel converter's use of excelize.File, applied to the write
// direction the converter doesn't cover.
func ExportXLSX(snap Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Lag"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"topic_partition", "lag"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("lagreport: header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("lagreport: set header: %w", err)
		}
	}

	keys := make([]string, 0, len(snap.Lags))
	for k := range snap.Lags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		row := i + 2
		tpCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("lagreport: row cell: %w", err)
		}
		lagCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return nil, fmt.Errorf("lagreport: row cell: %w", err)
		}
		if err := f.SetCellValue(sheet, tpCell, k); err != nil {
			return nil, fmt.Errorf("lagreport: set cell: %w", err)
		}
		if err := f.SetCellValue(sheet, lagCell, snap.Lags[k]); err != nil {
			return nil, fmt.Errorf("lagreport: set cell: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("lagreport: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
