package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/canteiro/internal/config"
	"github.com/nconklindev/canteiro/internal/converter"
	"github.com/nconklindev/canteiro/internal/schema"
)

func writeSheet(t *testing.T, path string, rows [][]any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestBatchRun(t *testing.T) {
	t.Chdir(t.TempDir())
	root := t.TempDir()
	writeSheet(t, filepath.Join(root, "docs", converter.DefaultInputName), [][]any{
		{"DATA", "Obra", "Bloco", "TIPOEXTENSAO", "Extensao Planejada", "Extensao Executada", "Qtd PV", "Profundidade", "Econ Prev", "Econ Receb"},
		{"15/03/2024", "Obra A", "B1", "Rede", "1.234,56", 100, 3, "1,2", 10, 4},
		{},
		{"sem data", "Obra B", "B2", "Ramal", 50, "", "", "", "", ""},
	})

	out, err := runCmd(t, "--root", root)
	require.NoError(t, err)

	outputFile := filepath.Join(root, "docs", "dados.json")
	assert.Contains(t, out, "OK: "+outputFile+" gerado com 2 linhas.")
	assert.Contains(t, out, "Atenção: 1 linhas ficaram com Data vazia")

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var doc struct {
		UpdatedAt string           `json:"atualizado_em"`
		Records   []map[string]any `json:"registros"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	_, err = time.Parse(time.RFC3339Nano, doc.UpdatedAt)
	require.NoError(t, err)

	require.Len(t, doc.Records, 2)
	assert.Equal(t, "2024-03-15", doc.Records[0]["Data"])
	assert.Equal(t, 1234.56, doc.Records[0]["Planejado_m"])
	assert.Equal(t, "Rede", doc.Records[0]["Tipo"])
	assert.Len(t, doc.Records[1], 10)
}

func TestBatchRunWithoutDate(t *testing.T) {
	t.Chdir(t.TempDir())
	root := t.TempDir()
	input := filepath.Join(root, "planilha.xlsx")
	writeSheet(t, input, [][]any{
		{"Obra", "Bloco", "Tipo", "Planejado_m", "Executado_m", "PV", "Profundidade_m", "Economias Previstas", "Economias Recebidas"},
		{"Obra A", "B1", "Rede", 1, 2, 3, 4, 5, 6},
	})

	out, err := runCmd(t, "--root", root, "--input", input, "--no-date", "-o", "saida.json")
	require.NoError(t, err)
	assert.NotContains(t, out, "Data vazia")

	data, err := os.ReadFile(filepath.Join(root, "saida.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"Data"`)
}

func TestNoDateFlagOverridesEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	root := t.TempDir()
	input := filepath.Join(root, "planilha.xlsx")
	writeSheet(t, input, [][]any{
		{"Data", "Obra", "Bloco", "Tipo", "Planejado_m", "Executado_m", "PV", "Profundidade_m", "Economias Previstas", "Economias Recebidas"},
		{"15/03/2024", "Obra A", "B1", "Rede", 1, 2, 3, 4, 5, 6},
	})

	tests := []struct {
		name     string
		env      string
		args     []string
		wantDate bool
	}{
		{"flag restores the field", "false", []string{"--no-date=false"}, true},
		{"flag drops the field", "true", []string{"--no-date"}, false},
		{"environment applies without the flag", "false", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvWithDate, tt.env)
			args := append([]string{"--root", root, "--input", input, "-o", "saida.json"}, tt.args...)
			_, err := runCmd(t, args...)
			require.NoError(t, err)

			data, err := os.ReadFile(filepath.Join(root, "saida.json"))
			require.NoError(t, err)
			if tt.wantDate {
				assert.Contains(t, string(data), `"Data": "2024-03-15"`)
			} else {
				assert.NotContains(t, string(data), `"Data"`)
			}
		})
	}
}

func TestBatchRunErrors(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("missing input", func(t *testing.T) {
		_, err := runCmd(t, "--root", t.TempDir())
		assert.ErrorIs(t, err, converter.ErrInputNotFound)
	})

	t.Run("missing column", func(t *testing.T) {
		root := t.TempDir()
		writeSheet(t, filepath.Join(root, converter.DefaultInputName), [][]any{
			{"Data", "Bloco"},
			{"15/03/2024", "B1"},
		})
		_, err := runCmd(t, "--root", root)
		require.ErrorIs(t, err, schema.ErrMissingColumn)
		assert.Contains(t, err.Error(), "Obra")

		_, statErr := os.Stat(filepath.Join(root, "docs", "dados.json"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("invalid timezone", func(t *testing.T) {
		_, err := runCmd(t, "--tz", "Nowhere/City")
		assert.ErrorContains(t, err, "invalid timezone")
	})
}
