// package domain/models.go
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schollz/closestmatch"
)

// Bank identifica a origem bancária de um arquivo de contratos.
type Bank string

// Bancos suportados.
const (
	BankBemge      Bank = "bemge"
	BankMinasCaixa Bank = "minas_caixa"
)

// ErrUnknownBank indica um identificador de banco que não pôde ser reconhecido.
var ErrUnknownBank = errors.New("banco desconhecido")

// Label devolve o rótulo legível usado em planilhas e resumos.
func (b Bank) Label() string {
	switch b {
	case BankBemge:
		return "BEMGE"
	case BankMinasCaixa:
		return "MINAS CAIXA"
	default:
		return strings.ToUpper(string(b))
	}
}

var bankSpellings = map[string]Bank{
	"bemge":      BankBemge,
	"bancobemge": BankBemge,
	"minascaixa": BankMinasCaixa,
	"caixaminas": BankMinasCaixa,
	"mgcaixa":    BankMinasCaixa,
}

// fuzzyBankKeys são as grafias usadas na busca aproximada.
var fuzzyBankKeys = []string{"bemge", "minascaixa", "caixaminas", "mgcaixa"}

var bankMatcher = closestmatch.New(fuzzyBankKeys, []int{3})

func compactBankKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if r == ' ' || r == '_' || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// closeEnough aceita no máximo um erro de digitação a cada cinco letras da grafia conhecida.
func closeEnough(key, match string) bool {
	return editDistance(key, match) <= len([]rune(match))/5
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// ParseBank reconhece o banco informado pelo usuário. Aceita o identificador
// canônico, o rótulo e grafias próximas ("Minas Caixa", "bemg").
func ParseBank(raw string) (Bank, error) {
	key := compactBankKey(raw)
	if key == "" {
		return "", fmt.Errorf("%w: valor vazio", ErrUnknownBank)
	}
	if b, ok := bankSpellings[key]; ok {
		return b, nil
	}
	if len(key) >= 3 {
		if match := bankMatcher.Closest(key); match != "" && closeEnough(key, match) {
			return bankSpellings[match], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBank, raw)
}

// AuditMode define quais linhas sobrevivem ao filtro de auditoria.
type AuditMode string

// Modos de filtro de auditoria.
const (
	AuditAll        AuditMode = "todos"
	AuditAudited    AuditMode = "auditado"
	AuditNotAudited AuditMode = "nauditado"
)

// ParseAuditMode converte o valor do formulário; valores desconhecidos viram "todos".
func ParseAuditMode(raw string) AuditMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "auditado", "auditados", "audi", "aud":
		return AuditAudited
	case "nauditado", "nao_auditado", "naoauditado", "naud":
		return AuditNotAudited
	default:
		return AuditAll
	}
}

// Label devolve o rótulo usado no nome das planilhas.
func (m AuditMode) Label() string {
	switch m {
	case AuditAudited:
		return "Auditados"
	case AuditNotAudited:
		return "Nao Auditados"
	default:
		return "Todos"
	}
}

// DocumentType é o marcador no nome do arquivo que seleciona a combinação de filtros.
type DocumentType string

// Marcadores de tipo de documento reconhecidos.
const (
	DocGeneric      DocumentType = ""
	DocHabitacional DocumentType = "3026-11"
	DocSecondary    DocumentType = "3026-12"
	DocDestination  DocumentType = "3026-15"
)

// Look-backs padrão, em meses.
const (
	DefaultPeriodMonths       = 1
	DefaultHabitacionalMonths = 2
	DefaultSecondaryMonths    = 2
)

// DateWindowParams configura um filtro por janela de datas.
// ReferenceDate vazio significa "hoje" (ou "sem filtro" nos estágios que exigem data).
type DateWindowParams struct {
	Enabled       bool
	ReferenceDate string
	MonthsBack    int
}

// FilterParams reúne a configuração de filtros de um arquivo enviado.
type FilterParams struct {
	Bank          Bank
	AuditMode     AuditMode
	Period        DateWindowParams
	Habitacional  DateWindowParams
	SecondaryDate DateWindowParams
}

// DefaultFilterParams devolve os parâmetros padrão para o banco informado.
func DefaultFilterParams(bank Bank) FilterParams {
	return FilterParams{
		Bank:          bank,
		AuditMode:     AuditAll,
		Period:        DateWindowParams{MonthsBack: DefaultPeriodMonths},
		Habitacional:  DateWindowParams{MonthsBack: DefaultHabitacionalMonths},
		SecondaryDate: DateWindowParams{MonthsBack: DefaultSecondaryMonths},
	}
}

// SourceFile é um arquivo enviado com seus parâmetros de filtro.
type SourceFile struct {
	Filename string
	Content  []byte
	Params   FilterParams
}

// NamedTable é uma tabela pronta para virar uma aba da planilha de saída.
type NamedTable struct {
	Name  string
	Table *Table
}

// Report é o resultado de uma requisição: abas nomeadas em ordem de apresentação.
type Report struct {
	ID     string
	Sheets []NamedTable
}

// Sheet devolve a aba com o nome informado.
func (r *Report) Sheet(name string) (*Table, bool) {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s.Table, true
		}
	}
	return nil, false
}
