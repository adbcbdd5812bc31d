package converter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/canteiro/internal/types"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// ReadFileData reads the header row and every data row of the first sheet.
func ReadFileData(filePath string) (*types.FileData, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv":
		return readCSVData(filePath)
	case ".xlsx", ".xlsm":
		return readXLSXData(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}

func readCSVData(filePath string) (*types.FileData, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", filePath, err)
	}
	content = bytes.TrimPrefix(content, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sniffDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv file %s: %w", filePath, err)
	}

	data := &types.FileData{SheetName: filepath.Base(filePath)}
	if len(records) == 0 {
		return data, nil
	}

	data.Headers = records[0]
	data.Rows = make([][]types.Cell, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]types.Cell, len(record))
		for i, v := range record {
			row[i] = types.TextCell(v)
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}

// sniffDelimiter picks ';' when the header line uses it more than ',', as
// spreadsheets exported with a Brazilian locale do.
func sniffDelimiter(content []byte) rune {
	line, err := bufio.NewReader(bytes.NewReader(content)).ReadString('\n')
	if err != nil && err != io.EOF {
		return ','
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func readXLSXData(filePath string) (*types.FileData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", filePath, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", filePath)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	data := &types.FileData{SheetName: sheetName}
	if len(rows) == 0 {
		return data, nil
	}

	sr := newSheetReader(f, sheetName)
	data.Headers = rows[0]
	data.Rows = make([][]types.Cell, 0, len(rows)-1)
	for r := 1; r < len(rows); r++ {
		row := make([]types.Cell, len(rows[r]))
		for c, raw := range rows[r] {
			cell, err := sr.cell(c, r, raw)
			if err != nil {
				return nil, err
			}
			row[c] = cell
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}

// sheetReader recovers the native type of raw cell values: numbers stay
// numbers and date-formatted serials become dates.
type sheetReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	isDate   map[int]bool
}

func newSheetReader(f *excelize.File, sheet string) *sheetReader {
	sr := &sheetReader{f: f, sheet: sheet, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		sr.date1904 = *props.Date1904
	}
	return sr
}

func (sr *sheetReader) cell(col, row int, raw string) (types.Cell, error) {
	if raw == "" {
		return types.Cell{}, nil
	}

	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return types.Cell{}, err
	}
	cellType, err := sr.f.GetCellType(sr.sheet, name)
	if err != nil {
		return types.Cell{}, fmt.Errorf("cell %s type: %w", name, err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return types.TextCell(raw), nil
	case excelize.CellTypeBool:
		v := 0.0
		if raw == "1" || strings.EqualFold(raw, "true") {
			v = 1
		}
		return types.Cell{Kind: types.CellBool, Number: v}, nil
	case excelize.CellTypeDate:
		if t, ok := parseISOCell(raw); ok {
			return types.DateCell(t), nil
		}
		return types.TextCell(raw), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.TextCell(raw), nil
	}
	if sr.dateStyled(name) {
		if t, err := excelize.ExcelDateToTime(v, sr.date1904); err == nil {
			return types.DateCell(t), nil
		}
	}
	return types.NumberCell(v), nil
}

func (sr *sheetReader) dateStyled(cell string) bool {
	styleID, err := sr.f.GetCellStyle(sr.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	if v, ok := sr.isDate[styleID]; ok {
		return v
	}
	style, err := sr.f.GetStyle(styleID)
	isDate := err == nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	sr.isDate[styleID] = isDate
	return isDate
}

// isDateFormat reports whether a number format renders a date. Built-in ids
// 14-22 and 45-47 are the locale independent date/time formats, 27-36 and
// 50-58 the CJK ones.
func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customIsDate(*custom)
	}
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}

func customIsDate(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	return strings.ContainsAny(stripped, "dy") || strings.Contains(stripped, "mmm")
}

func parseISOCell(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
