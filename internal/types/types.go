package types

import "time"

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellBool
	CellDate
)

// Cell is one spreadsheet value with its native kind preserved.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

type ConversionResult struct {
	InputFile        string
	OutputFile       string
	SheetName        string
	ColumnsFound     map[string]string
	RowsRead         int
	RecordsWritten   int
	SkippedRows      int
	BlankDates       int
	UnparseableDates int
}

// EmptyDates counts records whose Data field ended up empty.
func (r *ConversionResult) EmptyDates() int {
	return r.BlankDates + r.UnparseableDates
}

type FileData struct {
	SheetName string
	Headers   []string
	Rows      [][]Cell
}
