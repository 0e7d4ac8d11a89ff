package table

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type xlsxFormat struct{}

func (xlsxFormat) Match(p string) bool { return hasExt(p, ".xlsx") }

// Read extracts the rows of the selected sheet. If SheetName is empty and
// SheetIndex <= 0, the first sheet is used.
func (xlsxFormat) Read(p string, opt ReadOptions) (*Table, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	sheets := parseWorkbook(readZipFile(zr, "xl/workbook.xml"))
	rels := parseRelationships(readZipFile(zr, "xl/_rels/workbook.xml.rels"))
	target, err := resolveSheet(sheets, rels, opt)
	if err != nil {
		return nil, fmt.Errorf("%w in workbook '%s'", err, filepath.Base(p))
	}
	sheetXML := readZipFile(zr, target)
	if sheetXML == nil {
		return nil, fmt.Errorf("xlsx: sheet part %s missing from '%s'", target, filepath.Base(p))
	}
	shared := parseSharedStrings(readZipFile(zr, "xl/sharedStrings.xml"))
	styles := parseStyles(readZipFile(zr, "xl/styles.xml"))

	rr := newSheetRowReader(sheetXML, shared, styles)
	var recs [][]string
	for {
		row, ok := rr.Next()
		if !ok {
			break
		}
		recs = append(recs, row)
	}
	t := fromRecords(filepath.Base(p), recs)
	if hasFormats(rr.formats) {
		t.Formats = pad(rr.formats, len(t.Header))
	}
	return t, nil
}

// resolveSheet picks the sheet part by name, or by 1-based position in the
// workbook's sheet list.
func resolveSheet(sheets []wbSheet, rels map[string]string, opt ReadOptions) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, opt.SheetName) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel), nil
				}
			}
		}
		return "", fmt.Errorf("sheet '%s' not found (available sheets: %s)", opt.SheetName, sheetNames(sheets))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if len(sheets) == 0 {
		// no sheet list to go by; use the conventional part name
		return path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx)), nil
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (available sheets: %s)", idx, sheetNames(sheets))
	}
	s := sheets[idx-1]
	if rel, ok := rels[s.RID]; ok {
		return normalizeRelPath(rel), nil
	}
	// workbooks written by some tools skip the relationship part
	id := s.SheetID
	if id <= 0 {
		id = idx
	}
	return path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", id)), nil
}

func sheetNames(sheets []wbSheet) string {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

// parseWorkbook extracts sheet entries with names and relationship ids.
func parseWorkbook(data []byte) []wbSheet {
	var sheets []wbSheet
	eachStart(data, func(se xml.StartElement) {
		if se.Name.Local != "sheet" {
			return
		}
		var s wbSheet
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.Name = a.Value
			case "sheetId":
				s.SheetID = atoiSafe(a.Value)
			case "id":
				s.RID = a.Value
			}
		}
		sheets = append(sheets, s)
	})
	return sheets
}

// parseRelationships maps r:id to Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	eachStart(data, func(se xml.StartElement) {
		if se.Name.Local != "Relationship" {
			return
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	})
	return out
}

func eachStart(data []byte, fn func(xml.StartElement)) {
	if len(data) == 0 {
		return
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if se, ok := tok.(xml.StartElement); ok {
			fn(se)
		}
	}
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

func parseSharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	var inT bool
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write(se)
			}
		}
	}
}

type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	styles []CellFormat
	row    []string
	rows   int
	// formats collects, per column, the first date/time style seen on a
	// numeric cell below the header row.
	formats []CellFormat
}

func newSheetRowReader(data []byte, shared []string, styles []CellFormat) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared, styles: styles}
}

// Next returns the next <row>. Cells without an r attribute fill the next
// free column.
func (r *sheetRowReader) Next() ([]string, bool) {
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				inRow = true
				r.row = nil
				continue
			}
			if !inRow || se.Name.Local != "c" {
				continue
			}
			var ref, typ string
			style := -1
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "r":
					ref = a.Value
				case "t":
					typ = a.Value
				case "s":
					style = atoiSafe(a.Value)
				}
			}
			col := len(r.row)
			if ref != "" {
				col = colIndexFromRef(ref)
			}
			val := r.readCellValue(typ)
			if len(r.row) <= col {
				r.row = pad(r.row, col+1)
			}
			r.row[col] = val
			if r.rows > 0 && val != "" && (typ == "" || typ == "n") {
				r.noteStyle(col, style)
			}
		case xml.EndElement:
			if se.Name.Local == "row" && inRow {
				if r.row == nil {
					r.row = []string{}
				}
				r.rows++
				return r.row, true
			}
		}
	}
}

func (r *sheetRowReader) noteStyle(col, style int) {
	if style < 0 || style >= len(r.styles) || r.styles[style] == FormatGeneral {
		return
	}
	r.formats = pad(r.formats, col+1)
	if r.formats[col] == FormatGeneral {
		r.formats[col] = r.styles[style]
	}
}

func (r *sheetRowReader) readCellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, er := r.dec.Token()
					if er != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write(ch)
					}
				}
				val += sb.String()
			}
		case xml.EndElement:
			if se.Name.Local != "c" {
				continue
			}
			if typ == "s" {
				idx := atoiSafe(val)
				if idx >= 0 && idx < len(r.shared) {
					return r.shared[idx]
				}
				return ""
			}
			return val
		}
	}
}

// colIndexFromRef maps a cell reference like "C12" to a 0-based column.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

// colRef is the inverse of colIndexFromRef for the column part.
func colRef(idx int) string {
	var b []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func atoiSafe(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// normalizeRelPath converts relationship targets to ZIP entry names.
// Targets may carry a leading slash; ZIP entries never do.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

var errEmptyTable = errors.New("table has no header")
