package contracts

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"contratos-service/internal/domain"
)

// Nomes fixos das abas.
const (
	SheetSummary    = "Resumo"
	SheetDuplicates = "Contratos Repetidos"
	SheetByBank     = "Resumo por Banco"
	SheetOtherFiles = "Outros Arquivos"
)

const (
	consolidatedToken   = "CONSOLIDADO"
	mixedModeToken      = "Misto"
	maxSheetNameRunes   = 31
	invalidSheetNameSet = `[]:*?/\`
)

// Rótulos das visões de saída dupla. As variantes de período usam rótulos
// curtos para caber nos 31 caracteres do Excel junto com o banco.
const (
	labelAll              = "Todos"
	labelAudited          = "Auditados"
	labelNotAudited       = "Nao Auditados"
	labelAllPeriod        = "Todos Periodo"
	labelAuditedPeriod    = "Auditados Periodo"
	labelNotAuditedPeriod = "Nao Aud Periodo"
)

// fileResult é o resultado filtrado de um arquivo, já rotulado com o banco.
type fileResult struct {
	filename string
	params   domain.FilterParams
	doc      domain.DocumentType
	table    *domain.Table // documentos comuns
	split    *auditSplit   // documentos de saída dupla
}

func (r fileResult) rows() *domain.Table {
	if r.split != nil {
		return r.split.all
	}
	return r.table
}

// SheetName monta o nome "<visão> - <banco>" usado nas abas de dados.
func SheetName(view, bank string) string {
	return view + " - " + bank
}

// PrimarySheetName monta o nome "<banco> - <modo>" da aba principal de requisições simples.
func PrimarySheetName(bank, mode string) string {
	return bank + " - " + mode
}

func bankToken(results []fileResult) string {
	token := ""
	for _, r := range results {
		label := r.params.Bank.Label()
		if token == "" {
			token = label
		} else if token != label {
			return consolidatedToken
		}
	}
	if token == "" {
		return consolidatedToken
	}
	return token
}

func modeToken(results []fileResult) string {
	var mode domain.AuditMode
	for i, r := range results {
		m := r.params.AuditMode
		if m == "" {
			m = domain.AuditAll
		}
		if i == 0 {
			mode = m
		} else if mode != m {
			return mixedModeToken
		}
	}
	return mode.Label()
}

// assembleReport organiza os resultados em abas nomeadas, marca os contratos
// repetidos de cada aba de dados e acrescenta os três resumos. Devolve ErrEmptyResult quando nenhuma linha sobreviveu.
func assembleReport(results []fileResult) ([]domain.NamedTable, error) {
	var dual, simple []fileResult
	for _, r := range results {
		if r.split != nil {
			dual = append(dual, r)
		} else {
			simple = append(simple, r)
		}
	}

	var sheets []domain.NamedTable
	if len(dual) > 0 {
		sheets = dualSheets(dual)
		if len(simple) > 0 {
			sheets = append(sheets, domain.NamedTable{Name: SheetOtherFiles, Table: concatRows(simple)})
		}
	} else {
		sheets = []domain.NamedTable{{
			Name:  PrimarySheetName(bankToken(simple), modeToken(simple)),
			Table: concatRows(simple),
		}}
	}

	combined := concatRows(results)
	if combined.Len() == 0 {
		return nil, ErrEmptyResult
	}

	contributing := 0
	for _, r := range results {
		if r.rows().Len() > 0 {
			contributing++
		}
	}

	for i := range sheets {
		sheets[i].Table = FlagRepeated(sheets[i].Table)
	}

	sheets = append(sheets,
		domain.NamedTable{Name: SheetSummary, Table: SummarizeOverall(combined, contributing)},
		domain.NamedTable{Name: SheetDuplicates, Table: SummarizeDuplicates(combined)},
		domain.NamedTable{Name: SheetByBank, Table: SummarizeByBank(combined)},
	)
	return uniqueSheetNames(sheets), nil
}

func concatRows(results []fileResult) *domain.Table {
	tables := make([]*domain.Table, 0, len(results))
	for _, r := range results {
		tables = append(tables, r.rows())
	}
	return Concatenate(tables...)
}

func dualSheets(dual []fileResult) []domain.NamedTable {
	bank := bankToken(dual)
	pick := func(get func(*auditSplit) *domain.Table) *domain.Table {
		tables := make([]*domain.Table, 0, len(dual))
		for _, r := range dual {
			tables = append(tables, get(r.split))
		}
		return Concatenate(tables...)
	}

	sheets := []domain.NamedTable{
		{Name: SheetName(labelAll, bank), Table: pick(func(s *auditSplit) *domain.Table { return s.all })},
		{Name: SheetName(labelAudited, bank), Table: pick(func(s *auditSplit) *domain.Table { return s.audited })},
		{Name: SheetName(labelNotAudited, bank), Table: pick(func(s *auditSplit) *domain.Table { return s.notAudited })},
	}

	periodEnabled := false
	for _, r := range dual {
		periodEnabled = periodEnabled || r.params.Period.Enabled
	}
	if periodEnabled {
		sheets = append(sheets,
			domain.NamedTable{Name: SheetName(labelAllPeriod, bank), Table: pick(func(s *auditSplit) *domain.Table { return s.allPeriod })},
			domain.NamedTable{Name: SheetName(labelAuditedPeriod, bank), Table: pick(func(s *auditSplit) *domain.Table { return s.auditedPeriod })},
			domain.NamedTable{Name: SheetName(labelNotAuditedPeriod, bank), Table: pick(func(s *auditSplit) *domain.Table { return s.notAuditedPeriod })},
		)
	}
	return sheets
}

// sanitizeSheetName troca caracteres proibidos pelo Excel e limita o tamanho.
func sanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetNameSet, r) {
			return '-'
		}
		return r
	}, name)
	name = strings.Trim(strings.TrimSpace(name), "'")
	if name == "" {
		name = "Planilha"
	}
	return truncateRunes(name, maxSheetNameRunes)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

// uniqueSheetNames saneia os nomes e resolve colisões (o Excel ignora caixa)
// acrescentando " (2)", " (3)"...
func uniqueSheetNames(sheets []domain.NamedTable) []domain.NamedTable {
	used := make(map[string]bool, len(sheets))
	out := make([]domain.NamedTable, len(sheets))
	for i, s := range sheets {
		base := sanitizeSheetName(s.Name)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := " (" + strconv.Itoa(n) + ")"
			name = truncateRunes(base, maxSheetNameRunes-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		out[i] = domain.NamedTable{Name: name, Table: s.Table}
	}
	return out
}
