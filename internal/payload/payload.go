package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone = "America/Sao_Paulo"

	// TimestampLayout is ISO 8601 with microseconds and a numeric offset.
	TimestampLayout = "2006-01-02T15:04:05.000000-07:00"
)

// Payload is the document read by the dashboard.
type Payload struct {
	UpdatedAt time.Time
	Records   []Record
}

type document struct {
	UpdatedAt string   `json:"atualizado_em"`
	Records   []Record `json:"registros"`
}

func (p Payload) MarshalJSON() ([]byte, error) {
	records := p.Records
	if records == nil {
		records = []Record{}
	}
	return marshal(document{
		UpdatedAt: p.UpdatedAt.Format(TimestampLayout),
		Records:   records,
	})
}

// Assembler stamps records with the generation time in a fixed civil zone.
type Assembler struct {
	Location *time.Location
	Now      func() time.Time
}

// NewAssembler returns an Assembler reading the wall clock in loc.
func NewAssembler(loc *time.Location) *Assembler {
	return &Assembler{Location: loc, Now: time.Now}
}

// Assemble wraps records in a Payload stamped with the current time. A nil
// Location falls back to UTC.
func (a *Assembler) Assemble(records []Record) Payload {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}
	return Payload{UpdatedAt: now().In(loc), Records: records}
}

// Encode renders p as indented JSON without HTML escaping.
func Encode(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores the payload at path. The file is written next to its final
// location and renamed into place, so readers never see a partial document.
func Write(path string, p Payload) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}
