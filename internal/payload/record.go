package payload

import (
	"bytes"
	"encoding/json"
)

// Value is one field of a Record.
type Value struct {
	Field string
	Value any
}

// Record is one normalized row. Fields keep the canonical schema order when
// encoded.
type Record struct {
	values []Value
}

func NewRecord(capacity int) Record {
	return Record{values: make([]Value, 0, capacity)}
}

func (r *Record) Set(field string, v any) {
	for i := range r.values {
		if r.values[i].Field == field {
			r.values[i].Value = v
			return
		}
	}
	r.values = append(r.values, Value{Field: field, Value: v})
}

func (r Record) Get(field string) (any, bool) {
	for _, v := range r.values {
		if v.Field == field {
			return v.Value, true
		}
	}
	return nil, false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range r.values {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(v.Field)
		if err != nil {
			return nil, err
		}
		val, err := marshal(v.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes without HTML escaping so accented text and "&" survive
// as written.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
