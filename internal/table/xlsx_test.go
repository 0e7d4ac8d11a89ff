package table

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// writeWorkbook builds a two-sheet workbook the way spreadsheet tools do:
// shared strings, numeric cells, a sparse row and an absolute rel target.
func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Notes" sheetId="1" r:id="rId1"/>
    <sheet name="Week3" sheetId="2" r:id="rId2"/>
  </sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <si><t>date</t></si><si><t>time</t></si><si><t>distance</t></si><si><r><t>no </t></r><r><t>echo</t></r></si>
</sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
  <row r="1"><c r="A1" t="inlineStr"><is><t>placeholder</t></is></c></row>
</sheetData></worksheet>`,
		"xl/worksheets/sheet2.xml": `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
  <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>2</v></c></row>
  <row r="2"><c r="A2"><v>45352</v></c><c r="B2"><v>0.25</v></c><c r="C2"><v>61.5</v></c></row>
  <row r="3"><c r="A3"><v>45352</v></c><c r="C3" t="s"><v>3</v></c></row>
</sheetData></worksheet>`,
	}
	return writeZip(t, filepath.Join(dir, "d-sensor3.xlsx"), parts)
}

func writeZip(t *testing.T, p string, parts map[string]string) string {
	t.Helper()
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return p
}

// zipEntry returns the body of one part of the package at p.
func zipEntry(t *testing.T, p, name string) (string, bool) {
	t.Helper()
	zr, err := zip.OpenReader(p)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(b), true
	}
	return "", false
}

func TestReadXLSXSheetSelection(t *testing.T) {
	p := writeWorkbook(t, t.TempDir())

	byName, err := Read(p, ReadOptions{SheetName: "week3"})
	if err != nil {
		t.Fatalf("Read by name: %v", err)
	}
	want := [][]string{
		{"45352", "0.25", "61.5"},
		{"45352", "", "no echo"},
	}
	if diff := cmp.Diff([]string{"date", "time", "distance"}, byName.Header); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, byName.Rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	if byName.Name != "d-sensor3.xlsx" {
		t.Fatalf("name = %q", byName.Name)
	}

	byIndex, err := Read(p, ReadOptions{SheetIndex: 2})
	if err != nil {
		t.Fatalf("Read by index: %v", err)
	}
	if diff := cmp.Diff(byName.Rows, byIndex.Rows); diff != "" {
		t.Fatalf("index/name mismatch (-name +index):\n%s", diff)
	}

	first, err := Read(p, ReadOptions{})
	if err != nil {
		t.Fatalf("Read default: %v", err)
	}
	if len(first.Header) != 1 || first.Header[0] != "placeholder" || first.Len() != 0 {
		t.Fatalf("default sheet should be the first: %+v", first)
	}
}

// A workbook whose only sheet is not sheetId 1, as left behind when the
// original first sheet is deleted in Excel.
func TestReadXLSXFirstSheetByPosition(t *testing.T) {
	p := writeZip(t, filepath.Join(t.TempDir(), "d.xlsx"), map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets><sheet name="Pen4" sheetId="2" r:id="rId2"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Target="worksheets/sheet2.xml"/>
</Relationships>`,
		"xl/worksheets/sheet2.xml": `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
  <row r="1"><c r="A1" t="inlineStr"><is><t>distance</t></is></c></row>
  <row r="2"><c r="A2"><v>61.5</v></c></row>
</sheetData></worksheet>`,
	})

	for _, opt := range []ReadOptions{{}, {SheetIndex: 1}} {
		tb, err := Read(p, opt)
		if err != nil {
			t.Fatalf("Read(%+v): %v", opt, err)
		}
		if diff := cmp.Diff([][]string{{"61.5"}}, tb.Rows); diff != "" {
			t.Fatalf("rows (-want +got):\n%s", diff)
		}
	}

	_, err := Read(p, ReadOptions{SheetIndex: 2})
	if err == nil || !strings.Contains(err.Error(), "Pen4") {
		t.Fatalf("expected out of range error listing sheets, got %v", err)
	}
}

func TestReadXLSXUnknownSheet(t *testing.T) {
	p := writeWorkbook(t, t.TempDir())
	_, err := Read(p, ReadOptions{SheetName: "Week9"})
	if err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
	if !strings.Contains(err.Error(), "Notes, Week3") {
		t.Fatalf("error should list available sheets: %v", err)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.xlsx")
	in := &Table{
		Name:   "out.xlsx",
		Header: []string{"date", "time", "distance", "note"},
		Rows: [][]string{
			{"2024-03-01", "10:00:00", "50", "a & b <c>"},
			{"2024-03-01", "10:05:00", "50.25", ""},
			{"2024-03-01", "10:10:00", "007", " padded "},
		},
	}
	if err := Write(p, in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := Read(p, ReadOptions{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestWriteRejectsEmptyHeader(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "x.xlsx"), &Table{})
	if !errors.Is(err, errEmptyTable) {
		t.Fatalf("expected errEmptyTable, got %v", err)
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"styles.xml", "xl/styles.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestColumnRefs(t *testing.T) {
	for _, tt := range []struct {
		ref string
		idx int
	}{{"A1", 0}, {"Z9", 25}, {"AA10", 26}, {"AZ3", 51}, {"BA1", 52}} {
		if got := colIndexFromRef(tt.ref); got != tt.idx {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", tt.ref, got, tt.idx)
		}
		col := strings.TrimRight(tt.ref, "0123456789")
		if got := colRef(tt.idx); got != col {
			t.Errorf("colRef(%d) = %q, want %q", tt.idx, got, col)
		}
	}
}

// styledWorkbook stores dates and clock times as serial numbers with date
// and time number formats, the way Excel saves them.
func styledWorkbook(t *testing.T, dir string) string {
	t.Helper()
	return writeZip(t, filepath.Join(dir, "styled.xlsx"), map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Target="worksheets/sheet1.xml"/>
</Relationships>`,
		"xl/styles.xml": `<?xml version="1.0"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <numFmts count="1"><numFmt numFmtId="170" formatCode="d/m/yyyy;@"/></numFmts>
  <cellStyleXfs count="1"><xf numFmtId="0"/></cellStyleXfs>
  <cellXfs count="4">
    <xf numFmtId="0" xfId="0"/>
    <xf numFmtId="170" xfId="0" applyNumberFormat="1"/>
    <xf numFmtId="20" xfId="0" applyNumberFormat="1"/>
    <xf numFmtId="2" xfId="0" applyNumberFormat="1"/>
  </cellXfs>
</styleSheet>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
  <row r="1"><c r="A1" t="inlineStr" s="1"><is><t>date</t></is></c><c r="B1" t="inlineStr"><is><t>time</t></is></c><c r="C1" t="inlineStr"><is><t>distance</t></is></c></row>
  <row r="2"><c r="A2" s="1"><v>45352</v></c><c r="B2" s="2"><v>0.25</v></c><c r="C2" s="3"><v>61.5</v></c></row>
  <row r="3"><c r="A3" s="1"><v>45353</v></c><c r="B3" s="2"><v>0.5</v></c><c r="C3" s="3"><v>61</v></c></row>
</sheetData></worksheet>`,
	})
}

func TestXLSXKeepsDateAndTimeFormats(t *testing.T) {
	dir := t.TempDir()
	in, err := Read(styledWorkbook(t, dir), ReadOptions{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	wantFormats := []CellFormat{FormatDate, FormatTime, FormatGeneral}
	if diff := cmp.Diff(wantFormats, in.Formats); diff != "" {
		t.Fatalf("formats (-want +got):\n%s", diff)
	}

	out := filepath.Join(dir, "styled_my_filter_th3_msegl4.xlsx")
	if err := Write(out, in.Select([]int{1})); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, ok := zipEntry(t, out, "xl/styles.xml"); !ok {
		t.Fatalf("written workbook has no styles part")
	}
	sheet, _ := zipEntry(t, out, "xl/worksheets/sheet1.xml")
	for _, want := range []string{`<c r="A2" s="1"><v>45353</v></c>`, `<c r="B2" s="2"><v>0.5</v></c>`, `<c r="C2"><v>61</v></c>`} {
		if !strings.Contains(sheet, want) {
			t.Fatalf("sheet missing %s:\n%s", want, sheet)
		}
	}

	back, err := Read(out, ReadOptions{})
	if err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if diff := cmp.Diff(wantFormats, back.Formats); diff != "" {
		t.Fatalf("formats after round trip (-want +got):\n%s", diff)
	}
	day, ok := ParseDate(back.Rows[0][0])
	if !ok || !day.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date cell = %q (%v, %v)", back.Rows[0][0], day, ok)
	}
}

func TestXLSXPlainTablesHaveNoStyles(t *testing.T) {
	p := filepath.Join(t.TempDir(), "plain.xlsx")
	if err := Write(p, &Table{Header: []string{"distance"}, Rows: [][]string{{"1"}}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, ok := zipEntry(t, p, "xl/styles.xml"); ok {
		t.Fatalf("unexpected styles part")
	}
}

func TestFormatCodeKind(t *testing.T) {
	tests := []struct {
		code string
		want CellFormat
	}{
		{"yyyy-mm-dd", FormatDate},
		{"d/m/yyyy;@", FormatDate},
		{"[$-409]mmmm d, yyyy", FormatDate},
		{"h:mm AM/PM", FormatTime},
		{"[h]:mm:ss", FormatTime},
		{"mm:ss.0", FormatTime},
		{"yyyy-mm-dd hh:mm:ss", FormatDateTime},
		{"0.00", FormatGeneral},
		{`#,##0 "days"`, FormatGeneral},
		{"[Red]0.0", FormatGeneral},
		{"General", FormatGeneral},
	}
	for _, tt := range tests {
		if got := formatCodeKind(tt.code); got != tt.want {
			t.Errorf("formatCodeKind(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if got := numFmtKind(22, nil); got != FormatDateTime {
		t.Errorf("numFmtKind(22) = %d", got)
	}
	if got := numFmtKind(14, nil); got != FormatDate {
		t.Errorf("numFmtKind(14) = %d", got)
	}
}
