package importer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("Please upload a valid Excel file (.xlsx or .xls)")
	ErrNoRows          = errors.New("The selected file has no contact rows")
	ErrNoChannelColumn = errors.New("The selected file has no channel column")
)

// ChannelColumn must be present in every import sheet.
const ChannelColumn = "channel"

// Sheet is the first worksheet of a workbook keyed by its header row.
type Sheet struct {
	Name   string
	Header []string
	Rows   []Row
}

// Row is one non-blank data row. Number is its index among data rows plus 2,
// which is the sheet row only when the header is row 1 and no blank rows
// come before it.
type Row struct {
	Number int
	Values map[string]string
}

// Get looks a column up by header name, ignoring case and surrounding spaces.
func (r Row) Get(column string) string {
	if v, ok := r.Values[column]; ok {
		return v
	}
	want := strings.ToLower(strings.TrimSpace(column))
	for k, v := range r.Values {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return v
		}
	}
	return ""
}

// HasColumn reports whether the header row names column.
func (s *Sheet) HasColumn(column string) bool {
	want := strings.ToLower(column)
	for _, h := range s.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return true
		}
	}
	return false
}

// Supported reports whether filename has a spreadsheet extension the importer reads.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// Parse reads the first worksheet of an .xlsx or .xls workbook.
func Parse(filename string, data []byte) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXLSX(data)
	case ".xls":
		return parseXLS(data)
	}
	return nil, ErrUnsupportedFile
}

func parseXLSX(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return build(sheets[0], rows), nil
}

func parseXLS(data []byte) (*Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, ErrNoRows
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return build(ws.Name, rows), nil
}

func build(name string, rows [][]string) *Sheet {
	s := &Sheet{Name: name}
	headerAt := -1
	for i, r := range rows {
		if !blank(r) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return s
	}
	for _, h := range rows[headerAt] {
		s.Header = append(s.Header, strings.TrimSpace(h))
	}

	for _, r := range rows[headerAt+1:] {
		if blank(r) {
			continue
		}
		values := make(map[string]string, len(s.Header))
		for j, h := range s.Header {
			if h == "" {
				continue
			}
			v := ""
			if j < len(r) {
				v = r[j]
			}
			values[h] = v
		}
		s.Rows = append(s.Rows, Row{Number: len(s.Rows) + 2, Values: values})
	}
	return s
}

func blank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
