package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tablescope/tablescope-cli/internal/analysis"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads the selected sheet of a .xlsx workbook. The first row is the
// header; remaining rows become data. Sheet selection honors SheetName
// case-insensitively, then SheetIndex (1-based), then the first sheet.
func (xlsxParser) Parse(path string, opt Options) (*analysis.ParsedTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	workbookXML := readZipFile(zr, "xl/workbook.xml")
	relsXML := readZipFile(zr, "xl/_rels/workbook.xml.rels")
	sharedXML := readZipFile(zr, "xl/sharedStrings.xml")
	sheets := parseWorkbook(workbookXML)
	rels := parseRelationships(relsXML)

	target, err := resolveSheet(path, sheets, rels, opt)
	if err != nil {
		return nil, err
	}

	shared := parseSharedStrings(sharedXML)
	rr := newSheetRowReader(readZipFile(zr, target), shared)
	header, ok := rr.Next()
	if !ok || len(header) == 0 {
		return buildTable(path, nil, nil, opt), nil
	}
	var records [][]string
	for {
		row, ok := rr.Next()
		if !ok {
			break
		}
		records = append(records, row)
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
	}
	return buildTable(path, header, records, opt), nil
}

// resolveSheet maps the requested sheet to its worksheet path inside the
// archive. A named sheet that does not exist is an error listing what does;
// index selection falls back to the conventional sheetN.xml path when the
// workbook metadata is missing.
func resolveSheet(path string, sheets []wbSheet, rels map[string]string, opt Options) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, opt.SheetName) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel), nil
				}
			}
		}
		available := make([]string, len(sheets))
		for i, s := range sheets {
			available[i] = s.Name
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, filepath.Base(path), strings.Join(available, ", "))
	}

	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	for _, s := range sheets {
		if s.SheetID == idx {
			if rel, ok := rels[s.RID]; ok {
				return normalizeRelPath(rel), nil
			}
		}
	}
	return filepath.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx)), nil
}

type wbSheet struct {
	Name    string
	SheetID int
	RID     string
}

// parseWorkbook extracts sheet entries with names and relationship ids.
func parseWorkbook(data []byte) []wbSheet {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sheets []wbSheet
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return sheets
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "sheet" {
				var s wbSheet
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "name":
						s.Name = a.Value
					case "sheetId":
						s.SheetID = atoiSafe(a.Value)
					case "id":
						s.RID = a.Value // in r: namespace
					}
				}
				sheets = append(sheets, s)
			}
		}
	}
	return sheets
}

// parseRelationships returns map[r:id]Target.
func parseRelationships(data []byte) map[string]string {
	out := map[string]string{}
	if len(data) == 0 {
		return out
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "Relationship" {
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
			}
		}
	}
	return out
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			return b
		}
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
			if err == io.EOF {
				break
			}
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "si" {
				buf.Reset()
			}
			if se.Name.Local == "t" {
				inT = true
			}
		case xml.EndElement:
			if se.Name.Local == "t" {
				inT = false
			}
			if se.Name.Local == "si" {
				out = append(out, buf.String())
				buf.Reset()
			}
		case xml.CharData:
			if inT {
				buf.Write([]byte(se))
			}
		}
	}
	return out
}

// sheetRowReader streams <row> elements out of a worksheet document,
// resolving shared-string cells as it goes.
type sheetRowReader struct {
	dec    *xml.Decoder
	shared []string
	inRow  bool
	curRow []string
	maxCol int
}

func newSheetRowReader(data []byte, shared []string) *sheetRowReader {
	return &sheetRowReader{dec: xml.NewDecoder(bytes.NewReader(data)), shared: shared}
}

func (r *sheetRowReader) Next() ([]string, bool) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				r.inRow = true
				r.curRow = nil
				r.maxCol = 0
			}
			if r.inRow && se.Name.Local == "c" {
				var rAttr, tAttr string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						rAttr = a.Value
					case "t":
						tAttr = a.Value
					}
				}
				colIdx := colIndexFromRef(rAttr)
				if colIdx < 0 {
					// Cells without an r attribute take the next slot.
					colIdx = len(r.curRow)
				}
				if colIdx+1 > r.maxCol {
					r.maxCol = colIdx + 1
				}
				val := r.readCellValue(tAttr)
				if len(r.curRow) <= colIdx {
					tmp := make([]string, colIdx+1)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.curRow[colIdx] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				if len(r.curRow) < r.maxCol {
					tmp := make([]string, r.maxCol)
					copy(tmp, r.curRow)
					r.curRow = tmp
				}
				r.inRow = false
				return r.curRow, true
			}
		}
	}
}

// readCellValue reads until the cell closes, capturing <v> or inline <is><t>
// content. Cells typed "s" index into the shared-string table.
func (r *sheetRowReader) readCellValue(tAttr string) string {
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
						sb.Write([]byte(ch))
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if tAttr == "s" {
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
}

// colIndexFromRef converts refs like "C12" to 2 (0-based index).
func colIndexFromRef(ref string) int {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
			i++
			continue
		}
		break
	}
	s := strings.ToUpper(ref[:i])
	idx := 0
	for j := 0; j < len(s); j++ {
		idx = idx*26 + int(s[j]-'A'+1)
	}
	return idx - 1
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

// normalizeRelPath converts relationship Target paths to ZIP-compatible
// paths. Relationships may carry leading slashes ("/xl/worksheets/sheet1.xml")
// but ZIP entries never do.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return filepath.Join("xl", rel)
}
