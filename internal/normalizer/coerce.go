package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/canteiro/internal/types"
)

// DateStatus tells why a date field came out the way it did.
type DateStatus int

const (
	DateOK DateStatus = iota
	DateBlank
	DateUnparseable
)

const isoDate = "2006-01-02"

// dateLayouts are tried in order: dd/mm/yyyy, yyyy-mm-dd, dd-mm-yyyy.
var dateLayouts = []string{"2/1/2006", "2006-1-2", "2-1-2006"}

// ToText renders a cell as trimmed text. Empty cells become "".
func ToText(c types.Cell) string {
	switch c.Kind {
	case types.CellText:
		return strings.TrimSpace(c.Text)
	case types.CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case types.CellBool:
		if c.Number != 0 {
			return "True"
		}
		return "False"
	case types.CellDate:
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// ToFloat coerces a cell to a number. Text is read with Brazilian formatting
// ("1.234,56"); anything that does not parse is 0.
func ToFloat(c types.Cell) float64 {
	switch c.Kind {
	case types.CellNumber, types.CellBool:
		return finite(c.Number)
	case types.CellText:
		return ParseBRFloat(c.Text)
	default:
		return 0
	}
}

// ParseBRFloat drops "." thousands separators and reads "," as the decimal
// point. Only decimal notation is accepted; hex floats such as "0x1p4" read
// as 0.
func ParseBRFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || isHex(s) {
		return 0
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// NaN and Inf cannot be encoded as JSON.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ToISODate renders a cell as YYYY-MM-DD, or "" when it is blank or cannot
// be read as a date.
func ToISODate(c types.Cell) (string, DateStatus) {
	switch c.Kind {
	case types.CellEmpty:
		return "", DateBlank
	case types.CellDate:
		return c.Time.Format(isoDate), DateOK
	case types.CellText:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return "", DateBlank
		}
		if t, ok := ParseDate(s); ok {
			return t.Format(isoDate), DateOK
		}
		return "", DateUnparseable
	default:
		return "", DateUnparseable
	}
}

// ParseDate tries the day-first, ISO and dashed day-first layouts in turn.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
