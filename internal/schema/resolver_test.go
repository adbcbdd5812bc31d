package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/canteiro/internal/schema"
)

var fullHeaders = []string{
	"Data", "Obra", "Bloco", "Tipo Extensão", "Extensão Planejada (m)", "Extensão Executada (m)",
	"PV", "Profundidade PV (m)", "Economias Previstas", "Economias Recebidas",
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Tipo Extensão", "tipoextensao"},
		{"TIPOEXTENSAO", "tipoextensao"},
		{"  Qtd  PV ", "qtdpv"},
		{"Extensão\tPlanejada (m)", "extensaoplanejada(m)"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.NormalizeHeader(tt.input))
		})
	}
}

func TestResolve(t *testing.T) {
	s := schema.Default(true)

	t.Run("resolves every field", func(t *testing.T) {
		idx, err := schema.Resolve(s, fullHeaders)
		require.NoError(t, err)
		assert.Len(t, idx.Headers(), 10)

		pos, ok := idx.Lookup("Tipo")
		require.True(t, ok)
		assert.Equal(t, 3, pos)
		assert.Equal(t, "Tipo Extensão", idx.Headers()["Tipo"])
	})

	t.Run("order case and whitespace do not matter", func(t *testing.T) {
		headers := []string{
			"ECONOMIAS RECEBIDAS", "econ prev", "profundidade", "QTD PV", "executado_m",
			"planejado_m", "TIPOEXTENSAO", "BLOCO", "obra", " DATA ",
		}
		idx, err := schema.Resolve(s, headers)
		require.NoError(t, err)

		expected := map[string]int{
			"Data": 9, "Obra": 8, "Bloco": 7, "Tipo": 6, "Planejado_m": 5,
			"Executado_m": 4, "PV": 3, "Profundidade_m": 2, "Economias_Previstas": 1,
			"Economias_Recebidas": 0,
		}
		for field, want := range expected {
			got, ok := idx.Lookup(field)
			require.True(t, ok, field)
			assert.Equal(t, want, got, field)
		}
	})

	t.Run("earlier synonym wins over earlier column", func(t *testing.T) {
		headers := append([]string{"Tipo"}, fullHeaders...)
		idx, err := schema.Resolve(s, headers)
		require.NoError(t, err)

		pos, _ := idx.Lookup("Tipo")
		assert.Equal(t, 4, pos, "tipo extensao outranks tipo")
	})

	t.Run("duplicate headers resolve to the left-most column", func(t *testing.T) {
		headers := append(append([]string{}, fullHeaders...), "OBRA")
		idx, err := schema.Resolve(s, headers)
		require.NoError(t, err)

		pos, _ := idx.Lookup("Obra")
		assert.Equal(t, 1, pos)
	})

	t.Run("missing column names the field and headers", func(t *testing.T) {
		headers := []string{"Data", "Bloco", "Tipo", "Planejado_m", "Executado_m", "PV", "Profundidade", "Econ Prev", "Econ Receb"}
		_, err := schema.Resolve(s, headers)
		require.Error(t, err)
		assert.True(t, errors.Is(err, schema.ErrMissingColumn))

		var missing *schema.MissingColumnError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "Obra", missing.Field)
		assert.Equal(t, headers, missing.Headers)
		assert.Contains(t, err.Error(), "Obra")
		assert.Contains(t, err.Error(), "Econ Receb")
	})

	t.Run("blank header row fails before matching", func(t *testing.T) {
		for _, headers := range [][]string{nil, {}, {"", "  ", ""}} {
			_, err := schema.Resolve(s, headers)
			assert.ErrorIs(t, err, schema.ErrMissingHeaders)
		}
	})

	t.Run("date-less schema ignores the Data column", func(t *testing.T) {
		idx, err := schema.Resolve(schema.Default(false), fullHeaders[1:])
		require.NoError(t, err)
		assert.Len(t, idx.Headers(), 9)
		_, ok := idx.Lookup("Data")
		assert.False(t, ok)
	})
}

func TestDefault(t *testing.T) {
	withDate := schema.Default(true)
	assert.True(t, withDate.HasDate())
	assert.Equal(t, "Data", withDate.Names()[0])
	assert.Len(t, withDate.Names(), 10)

	withoutDate := schema.Default(false)
	assert.False(t, withoutDate.HasDate())
	assert.Len(t, withoutDate.Names(), 9)

	fields := withDate.Fields()
	fields[0].Synonyms[0] = "changed"
	assert.Equal(t, "data", withDate.Fields()[0].Synonyms[0], "schema must not share its synonym slices")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("extra synonyms are tried after the defaults", func(t *testing.T) {
		path := filepath.Join(dir, "synonyms.yaml")
		require.NoError(t, os.WriteFile(path, []byte("synonyms:\n  Obra: [\"nome da obra\"]\n"), 0o644))

		s, err := schema.Load(path, true)
		require.NoError(t, err)

		f := s.Fields()[1]
		require.Equal(t, "Obra", f.Name)
		assert.Equal(t, []string{"obra", "nome da obra"}, f.Synonyms)

		headers := append([]string{}, fullHeaders...)
		headers[1] = "Nome da Obra"
		idx, err := schema.Resolve(s, headers)
		require.NoError(t, err)
		pos, _ := idx.Lookup("Obra")
		assert.Equal(t, 1, pos)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := schema.Parse([]byte("synonyms:\n  Custo: [custo]\n"), true)
		assert.ErrorContains(t, err, "Custo")
	})

	t.Run("Data overrides are ignored without the date field", func(t *testing.T) {
		s, err := schema.Parse([]byte("synonyms:\n  Data: [dia]\n"), false)
		require.NoError(t, err)
		assert.False(t, s.HasDate())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := schema.Load(filepath.Join(dir, "nope.yaml"), true)
		assert.Error(t, err)
	})
}
