package contracts

import (
	"strings"
	"unicode"

	"contratos-service/internal/domain"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Apelidos aceitos para cada campo semântico, em ordem de prioridade.
var (
	auditAliases = []string{"AUDITADO", "AUD"}

	periodAliases = []string{
		"DT.MANIFESTACAO", "DT MANIFESTACAO", "DATA MANIFESTACAO",
		"DT_MANIFESTACAO", "DATA DE MANIFESTACAO",
	}

	contractAliases = []string{
		"CONTRATO", "NR CONTRATO", "NR.CONTRATO", "NUM CONTRATO",
		"NUMERO CONTRATO", "N CONTRATO",
	}

	habitacionalAliases = []string{
		"DT.HABITACIONAL", "DT HABITACIONAL", "DATA HABITACIONAL", "HABITACIONAL",
	}

	destinationPaymentAliases = []string{
		"DESTINO PAGAMENTO", "DEST.PAGAMENTO", "DEST PAGAMENTO",
		"DESTINO_PAGAMENTO", "DEST PAGTO",
	}

	destinationComplementAliases = []string{
		"DESTINO COMPLEMENTO", "DEST.COMPLEMENTO", "DEST COMPLEMENTO",
		"DESTINO_COMPLEMENTO", "DEST COMPL",
	}

	contractsGroupAliases = []string{"CONTRATOS", "GRUPO CONTRATOS", "GRUPO DE CONTRATOS"}
)

// normalizeHeader remove espaços nas pontas, acentos e caixa, e colapsa espaços internos.
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(result)), " ")
}

// Resolve devolve o identificador original da primeira coluna que casa com um
// dos apelidos, na ordem de prioridade dos apelidos.
func Resolve(table *domain.Table, aliases []string) (string, bool) {
	if table == nil {
		return "", false
	}
	lookup := make(map[string]string, len(table.Columns))
	for _, col := range table.Columns {
		key := normalizeHeader(col)
		if _, exists := lookup[key]; !exists {
			lookup[key] = col
		}
	}
	for _, alias := range aliases {
		if col, ok := lookup[normalizeHeader(alias)]; ok {
			return col, true
		}
	}
	return "", false
}

// ResolveByPosition devolve a coluna na posição index (base zero) quando ela
// existe e tem ao menos um valor preenchido.
func ResolveByPosition(table *domain.Table, index int) (string, bool) {
	col, ok := table.Column(index)
	if !ok {
		return "", false
	}
	for _, row := range table.Rows {
		if strings.TrimSpace(row[col]) != "" {
			return col, true
		}
	}
	return "", false
}

// columnIndex converte uma letra de coluna ("W", "AB") para índice base zero.
func columnIndex(letters string) int {
	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return -1
	}
	return n - 1
}

// strategy é uma forma de localizar uma coluna; estratégias são tentadas em ordem.
type strategy func(*domain.Table) (string, bool)

func byAliases(aliases []string) strategy {
	return func(t *domain.Table) (string, bool) { return Resolve(t, aliases) }
}

func byPosition(letters string) strategy {
	return func(t *domain.Table) (string, bool) { return ResolveByPosition(t, columnIndex(letters)) }
}

// bySniffedDates aceita a primeira posição cuja coluna tenha ao menos uma data legível.
func bySniffedDates(letters ...string) strategy {
	return func(t *domain.Table) (string, bool) {
		for _, l := range letters {
			col, ok := t.Column(columnIndex(l))
			if !ok {
				continue
			}
			for _, row := range t.Rows {
				if _, ok := parseCellDate(row[col]); ok {
					return col, true
				}
			}
		}
		return "", false
	}
}

func resolveFirst(t *domain.Table, strategies ...strategy) (string, bool) {
	for _, s := range strategies {
		if col, ok := s(t); ok {
			return col, true
		}
	}
	return "", false
}
