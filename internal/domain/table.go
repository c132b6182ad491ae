package domain

// Row mapeia o identificador original da coluna para o valor da célula.
type Row map[string]string

// Table é uma sequência ordenada de linhas com colunas heterogêneas.
// A ordem das colunas é a do cabeçalho de origem; a ordem das linhas é preservada.
type Table struct {
	Columns []string
	Rows    []Row

	numeric map[string]bool
}

// NewTable cria uma tabela vazia com as colunas informadas.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len devolve o número de linhas. Uma tabela nil tem zero linhas.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn informa se o identificador existe na tabela.
func (t *Table) HasColumn(id string) bool {
	for _, c := range t.Columns {
		if c == id {
			return true
		}
	}
	return false
}

// Column devolve o identificador na posição index (base zero).
func (t *Table) Column(index int) (string, bool) {
	if t == nil || index < 0 || index >= len(t.Columns) {
		return "", false
	}
	return t.Columns[index], true
}

// AddColumn acrescenta uma coluna ao fim do cabeçalho se ela ainda não existir.
func (t *Table) AddColumn(id string) {
	if !t.HasColumn(id) {
		t.Columns = append(t.Columns, id)
	}
}

// Append adiciona linhas à tabela.
func (t *Table) Append(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Filter devolve uma nova tabela com as linhas aceitas por keep, na mesma ordem.
// As linhas são compartilhadas com a tabela de origem.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := t.emptyLike()
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Clone copia cabeçalho e linhas; as linhas resultantes podem ser alteradas sem afetar a origem.
func (t *Table) Clone() *Table {
	out := t.emptyLike()
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// MarkNumeric sinaliza colunas cujo conteúdo deve ser gravado como número.
func (t *Table) MarkNumeric(columns ...string) {
	if t.numeric == nil {
		t.numeric = make(map[string]bool, len(columns))
	}
	for _, c := range columns {
		t.numeric[c] = true
	}
}

// IsNumeric informa se a coluna foi marcada com MarkNumeric.
func (t *Table) IsNumeric(column string) bool {
	return t.numeric[column]
}

func (t *Table) emptyLike() *Table {
	out := NewTable(t.Columns...)
	for c := range t.numeric {
		out.MarkNumeric(c)
	}
	return out
}
