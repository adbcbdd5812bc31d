package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nconklindev/canteiro/internal/normalizer"
	"github.com/nconklindev/canteiro/internal/payload"
	"github.com/nconklindev/canteiro/internal/schema"
	"github.com/nconklindev/canteiro/internal/types"
)

const DefaultInputName = "BASE_DASH_EXTENSAO_POWERBI.xlsx"

var ErrInputNotFound = errors.New("input spreadsheet not found")

// Options configures one conversion run.
type Options struct {
	InputPath  string
	OutputPath string
	Schema     *schema.Schema
	Location   *time.Location
	Now        func() time.Time
}

// DefaultCandidates lists where the spreadsheet is looked for, in order:
// the docs folder, the project root, then the scripts folder.
func DefaultCandidates(root, name string) []string {
	return []string{
		filepath.Join(root, "docs", name),
		filepath.Join(root, name),
		filepath.Join(root, "scripts", name),
	}
}

// LocateInput returns the first candidate path that exists.
func LocateInput(candidates ...string) (string, error) {
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w; looked in: %s", ErrInputNotFound, strings.Join(candidates, ", "))
}

// Resolve reads the file's header row and resolves it against the schema
// without converting anything.
func Resolve(inputFile string, s *schema.Schema) (*types.FileData, schema.ColumnIndex, error) {
	data, err := ReadFileData(inputFile)
	if err != nil {
		return nil, schema.ColumnIndex{}, err
	}
	idx, err := schema.Resolve(s, data.Headers)
	if err != nil {
		return data, schema.ColumnIndex{}, err
	}
	return data, idx, nil
}

// Convert reads the spreadsheet, normalizes every data row and writes the
// payload. Nothing is written when any step fails.
func Convert(opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	if opts.Schema == nil {
		opts.Schema = schema.Default(true)
	}
	if _, err := os.Stat(opts.InputPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, opts.InputPath)
	}

	data, idx, err := Resolve(opts.InputPath, opts.Schema)
	if err != nil {
		return nil, err
	}

	n, err := normalizer.New(opts.Schema, idx)
	if err != nil {
		return nil, err
	}

	totalRows := len(data.Rows)
	reportProgress := func(current int) {
		if progressChan != nil && totalRows > 0 {
			select {
			case progressChan <- float64(current) / float64(totalRows):
			default:
			}
		}
	}

	var stats normalizer.Stats
	records := make([]payload.Record, 0, totalRows)
	for i, row := range data.Rows {
		rec, outcome := n.Normalize(row)
		stats.Add(outcome)
		if !outcome.Skipped {
			records = append(records, rec)
		}
		reportProgress(i + 1)
	}

	assembler := payload.NewAssembler(opts.Location)
	if opts.Now != nil {
		assembler.Now = opts.Now
	}
	if err := payload.Write(opts.OutputPath, assembler.Assemble(records)); err != nil {
		return nil, err
	}

	result := &types.ConversionResult{
		InputFile:      opts.InputPath,
		OutputFile:     opts.OutputPath,
		SheetName:      data.SheetName,
		ColumnsFound:   idx.Headers(),
		RowsRead:       stats.RowsRead,
		RecordsWritten: stats.Records,
		SkippedRows:    stats.SkippedRows,
	}
	if opts.Schema.HasDate() {
		result.BlankDates = stats.BlankDates
		result.UnparseableDates = stats.UnparseableDates
	}
	return result, nil
}
