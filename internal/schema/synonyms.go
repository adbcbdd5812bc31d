package schema

const FieldData = "Data"

var dateField = Field{Name: FieldData, Type: Date, Synonyms: []string{"data"}}

// defaultFields merges the header spellings seen across every revision of the
// progress spreadsheet.
var defaultFields = []Field{
	{Name: "Obra", Type: Text, Synonyms: []string{"obra"}},
	{Name: "Bloco", Type: Text, Synonyms: []string{"bloco"}},
	{Name: "Tipo", Type: Text, Synonyms: []string{"tipo_extensao", "tipo extensao", "tipo", "tipoextensao"}},
	{Name: "Planejado_m", Type: Float, Synonyms: []string{"extensao_planejada_m", "extensao planejada (m)", "extensao planejada", "planejado_m"}},
	{Name: "Executado_m", Type: Float, Synonyms: []string{"extensao_executada_m", "extensao executada (m)", "extensao executada", "executado_m"}},
	{Name: "PV", Type: Float, Synonyms: []string{"pv", "pvs", "qtd pv", "quantidade pv", "qtdpv"}},
	{Name: "Profundidade_m", Type: Float, Synonyms: []string{"profundidade_pv_m", "profundidade pv (m)", "profundidade", "profundidade_m"}},
	{Name: "Economias_Previstas", Type: Float, Synonyms: []string{"economias prevista", "economias previstas", "econ prev", "economias prevista(s)"}},
	{Name: "Economias_Recebidas", Type: Float, Synonyms: []string{"economias recebidas", "economias recebida", "econ receb", "economias recebida(s)"}},
}
