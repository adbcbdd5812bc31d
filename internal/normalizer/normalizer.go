package normalizer

import (
	"fmt"

	"github.com/nconklindev/canteiro/internal/payload"
	"github.com/nconklindev/canteiro/internal/schema"
	"github.com/nconklindev/canteiro/internal/types"
)

// Outcome describes what Normalize did with a row.
type Outcome struct {
	Skipped    bool
	DateStatus DateStatus
}

// Stats tallies a run's row outcomes.
type Stats struct {
	RowsRead         int
	Records          int
	SkippedRows      int
	BlankDates       int
	UnparseableDates int
}

func (s *Stats) Add(o Outcome) {
	s.RowsRead++
	if o.Skipped {
		s.SkippedRows++
		return
	}
	s.Records++
	switch o.DateStatus {
	case DateBlank:
		s.BlankDates++
	case DateUnparseable:
		s.UnparseableDates++
	}
}

// Normalizer turns raw rows into records for one schema and its resolved
// columns.
type Normalizer struct {
	fields []schema.Field
	cols   []int
}

// New binds a schema to the columns resolved for it.
func New(s *schema.Schema, index schema.ColumnIndex) (*Normalizer, error) {
	fields := s.Fields()
	cols := make([]int, len(fields))
	for i, f := range fields {
		pos, ok := index.Lookup(f.Name)
		if !ok {
			return nil, fmt.Errorf("no column resolved for field %q", f.Name)
		}
		cols[i] = pos
	}
	return &Normalizer{fields: fields, cols: cols}, nil
}

// Normalize turns one data row into a record holding every canonical field.
// Rows with no values at all are skipped.
func (n *Normalizer) Normalize(row []types.Cell) (payload.Record, Outcome) {
	if isBlank(row) {
		return payload.Record{}, Outcome{Skipped: true}
	}

	rec := payload.NewRecord(len(n.fields))
	out := Outcome{}
	for i, f := range n.fields {
		c := cellAt(row, n.cols[i])
		switch f.Type {
		case schema.Float:
			rec.Set(f.Name, ToFloat(c))
		case schema.Date:
			iso, status := ToISODate(c)
			rec.Set(f.Name, iso)
			out.DateStatus = status
		default:
			rec.Set(f.Name, ToText(c))
		}
	}
	return rec, out
}

func cellAt(row []types.Cell, i int) types.Cell {
	if i < 0 || i >= len(row) {
		return types.Cell{}
	}
	return row[i]
}

func isBlank(row []types.Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
