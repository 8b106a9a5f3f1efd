package htmlreport

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `<html><body>
<table>
<tr><td>1</td><td><b>P1</b></td><td><font size="2">EV</font></td></tr>
<tr><td>2</td><td>  12:44&nbsp;</td><td>GOAL</td></tr>
</table>
<table><tr><th>header only</th></tr><tr><td>standalone</td></tr></table>
</body></html>`

func TestRows(t *testing.T) {
	got, err := Rows(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	want := [][]string{
		{"1", "P1", "EV"},
		{"2", "12:44", "GOAL"},
		{"standalone"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRowsSkipsCellFreeRows(t *testing.T) {
	rows, err := Rows(strings.NewReader(`<table><tr><th>x</th></tr></table>`))
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("th-only row kept: %v", rows)
	}
}

func TestNestedCellMarkupFlattened(t *testing.T) {
	rows, err := Rows(strings.NewReader(`<table><tr><td><font><b>MTL</b> #14 <i>SUZUKI</i></font></td></tr></table>`))
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 1 || rows[0][0] != "MTL #14 SUZUKI" {
		t.Errorf("flattened cell: %v", rows)
	}
}
