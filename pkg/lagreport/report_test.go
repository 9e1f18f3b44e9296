package lagreport

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSXWritesSortedRows(t *testing.T) {
	snap := Snapshot{
		GroupID: "g1",
		Lags: map[string]int64{
			"orders:1": 42,
			"orders:0": 7,
		},
	}

	body, err := ExportXLSX(snap)
	if err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Lag")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2 data)", len(rows))
	}
	if rows[0][0] != "topic_partition" || rows[0][1] != "lag" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "orders:0" || rows[1][1] != "7" {
		t.Fatalf("unexpected row 1: %v", rows[1])
	}
	if rows[2][0] != "orders:1" || rows[2][1] != "42" {
		t.Fatalf("unexpected row 2: %v", rows[2])
	}
}
