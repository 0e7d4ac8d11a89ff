package table

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/barnlog/internal/utils"
)

const (
	contentTypesHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>` +
		`<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`
	contentTypesStyles = `<Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>`
	rootRelsXML        = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>` +
		`</Relationships>`
	workbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets></workbook>`
	workbookRelsHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>`
	workbookRelsStyles = `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`
)

type xlsxPart struct {
	name string
	body []byte
}

// workbookParts lists the package parts for t. A styles part is added only
// when some column carries a date/time format.
func workbookParts(t *Table) []xlsxPart {
	styled := hasFormats(t.Formats)
	types, rels := contentTypesHead, workbookRelsHead
	if styled {
		types += contentTypesStyles
		rels += workbookRelsStyles
	}
	parts := []xlsxPart{
		{"[Content_Types].xml", []byte(types + `</Types>`)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"xl/workbook.xml", []byte(workbookXML)},
		{"xl/_rels/workbook.xml.rels", []byte(rels + `</Relationships>`)},
		{"xl/worksheets/sheet1.xml", sheetXML(t)},
	}
	if styled {
		parts = append(parts, xlsxPart{"xl/styles.xml", []byte(stylesXML)})
	}
	return parts
}

// Write stores t as a single-sheet workbook. Cells holding plain numbers are
// written as numeric cells, styled as dates or times where t.Formats says
// so; everything else as inline strings.
func (xlsxFormat) Write(p string, t *Table) error {
	if len(t.Header) == 0 {
		return fmt.Errorf("write xlsx: %w", errEmptyTable)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range workbookParts(t) {
		w, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("write xlsx part %s: %w", part.name, err)
		}
		if _, err := w.Write(part.body); err != nil {
			return fmt.Errorf("write xlsx part %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close xlsx: %w", err)
	}
	return utils.SafeWriteFile(p, buf.Bytes())
}

func sheetXML(t *Table) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)
	writeRow(&b, 1, t.Header, nil)
	for i, row := range t.Rows {
		writeRow(&b, i+2, row, t.Formats)
	}
	b.WriteString(`</sheetData></worksheet>`)
	return []byte(b.String())
}

func writeRow(b *strings.Builder, n int, cells []string, formats []CellFormat) {
	fmt.Fprintf(b, `<row r="%d">`, n)
	for j, v := range cells {
		if v == "" {
			continue
		}
		ref := colRef(j) + strconv.Itoa(n)
		if isPlainNumber(v) {
			if j < len(formats) && formats[j] != FormatGeneral {
				fmt.Fprintf(b, `<c r="%s" s="%d"><v>%s</v></c>`, ref, formats[j], v)
			} else {
				fmt.Fprintf(b, `<c r="%s"><v>%s</v></c>`, ref, v)
			}
			continue
		}
		fmt.Fprintf(b, `<c r="%s" t="inlineStr"><is><t xml:space="preserve">`, ref)
		_ = xml.EscapeText(b, []byte(v))
		b.WriteString(`</t></is></c>`)
	}
	b.WriteString(`</row>`)
}

// isPlainNumber accepts only values Excel reads back unchanged as numbers.
func isPlainNumber(s string) bool {
	if s != strings.TrimSpace(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	if f != f || f > 1e308 || f < -1e308 {
		return false
	}
	// keep identifiers such as "007" as text
	t := strings.TrimPrefix(s, "-")
	return !(len(t) > 1 && t[0] == '0' && t[1] != '.')
}
