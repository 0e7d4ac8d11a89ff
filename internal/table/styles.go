package table

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// parseStyles maps each cellXfs entry of xl/styles.xml to the date/time
// format its number format implies. Cell "s" attributes index this slice.
func parseStyles(data []byte) []CellFormat {
	if len(data) == 0 {
		return nil
	}
	custom := map[int]string{}
	var xfs []CellFormat
	inXfs := false
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "numFmt":
				var id int
				var code string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "numFmtId":
						id = atoiSafe(a.Value)
					case "formatCode":
						code = a.Value
					}
				}
				custom[id] = code
			case "cellXfs":
				inXfs = true
			case "xf":
				if !inXfs {
					continue
				}
				id := 0
				for _, a := range se.Attr {
					if a.Name.Local == "numFmtId" {
						id = atoiSafe(a.Value)
					}
				}
				xfs = append(xfs, numFmtKind(id, custom))
			}
		case xml.EndElement:
			if se.Name.Local == "cellXfs" {
				inXfs = false
			}
		}
	}
	return xfs
}

// numFmtKind classifies a number format id. Built-in ids follow ECMA-376
// 18.8.30; custom ids are judged by their format code.
func numFmtKind(id int, custom map[int]string) CellFormat {
	if code, ok := custom[id]; ok {
		return formatCodeKind(code)
	}
	switch {
	case id >= 14 && id <= 17:
		return FormatDate
	case id == 22:
		return FormatDateTime
	case id >= 18 && id <= 21, id >= 45 && id <= 47:
		return FormatTime
	}
	return FormatGeneral
}

// formatCodeKind looks for date and clock tokens in the first section of a
// format code, ignoring quoted text, escapes and bracketed modifiers other
// than elapsed-time ones like [h].
func formatCodeKind(code string) CellFormat {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	var b strings.Builder
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch c {
		case '"':
			j := strings.IndexByte(code[i+1:], '"')
			if j < 0 {
				i = len(code)
			} else {
				i += j + 1
			}
		case '\\', '_', '*':
			i++
		case '[':
			j := strings.IndexByte(code[i+1:], ']')
			if j < 0 {
				i = len(code)
				continue
			}
			inner := strings.ToLower(code[i+1 : i+1+j])
			if strings.Trim(inner, "hms") == "" {
				b.WriteString(inner)
			}
			i += j + 1
		default:
			b.WriteByte(c)
		}
	}
	f := strings.ToLower(b.String())
	hasDate := strings.ContainsAny(f, "yd")
	hasClock := strings.ContainsAny(f, "hs")
	switch {
	case hasDate && hasClock:
		return FormatDateTime
	case hasDate:
		return FormatDate
	case hasClock:
		return FormatTime
	}
	return FormatGeneral
}

// stylesXML declares one cellXfs entry per CellFormat, in CellFormat order,
// so a column's format doubles as its style index.
const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
	`<numFmts count="3">` +
	`<numFmt numFmtId="164" formatCode="yyyy-mm-dd"/>` +
	`<numFmt numFmtId="165" formatCode="hh:mm:ss"/>` +
	`<numFmt numFmtId="166" formatCode="yyyy-mm-dd hh:mm:ss"/>` +
	`</numFmts>` +
	`<fonts count="1"><font><sz val="11"/><name val="Calibri"/></font></fonts>` +
	`<fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills>` +
	`<borders count="1"><border><left/><right/><top/><bottom/><diagonal/></border></borders>` +
	`<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>` +
	`<cellXfs count="4">` +
	`<xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/>` +
	`<xf numFmtId="164" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>` +
	`<xf numFmtId="165" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>` +
	`<xf numFmtId="166" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>` +
	`</cellXfs>` +
	`<cellStyles count="1"><cellStyle name="Normal" xfId="0" builtinId="0"/></cellStyles>` +
	`</styleSheet>`

func hasFormats(fs []CellFormat) bool {
	for _, f := range fs {
		if f != FormatGeneral {
			return true
		}
	}
	return false
}
