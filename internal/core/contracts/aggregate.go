package contracts

import (
	"strconv"
	"strings"

	"contratos-service/internal/domain"
)

// BankColumn é a coluna acrescentada por TagBank.
const BankColumn = "BANCO_ORIGEM"

// RepeatedColumn é a coluna acrescentada por FlagRepeated.
const RepeatedColumn = "CONTRATO_REPETIDO"

const (
	flagYes = "SIM"
	flagNo  = "NAO"
)

// Colunas das tabelas de resumo.
const (
	colTotalRows       = "TOTAL_LINHAS"
	colUniqueContracts = "TOTAL_CONTRATOS_REAIS"
	colRepeatedRows    = "TOTAL_CONTRATOS_REPETIDOS"
	colFiles           = "TOTAL_ARQUIVOS"
	colBank            = "BANCO"
)

const unknownBankLabel = "NAO INFORMADO"

// Concatenate une as linhas das tabelas na ordem recebida. O cabeçalho é a
// união das colunas na ordem em que aparecem. Não deduplica.
func Concatenate(tables ...*domain.Table) *domain.Table {
	out := domain.NewTable()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, col := range t.Columns {
			out.AddColumn(col)
		}
		out.Append(t.Rows...)
	}
	return out
}

// TagBank devolve uma cópia da tabela com o rótulo do banco em cada linha.
func TagBank(t *domain.Table, bank domain.Bank) *domain.Table {
	out := t.Clone()
	out.AddColumn(BankColumn)
	for _, r := range out.Rows {
		r[BankColumn] = bank.Label()
	}
	return out
}

// contractKey normaliza o identificador do contrato; números lidos como
// "12345.0" viram "12345".
func contractKey(v string) string {
	return strings.TrimSuffix(strings.TrimSpace(v), ".0")
}

// contractColumns devolve todas as colunas de contrato presentes, na ordem dos
// apelidos. Tabelas concatenadas podem trazer grafias diferentes por arquivo.
func contractColumns(t *domain.Table) []string {
	byNorm := make(map[string][]string, len(t.Columns))
	for _, col := range t.Columns {
		key := normalizeHeader(col)
		byNorm[key] = append(byNorm[key], col)
	}
	var cols []string
	for _, alias := range contractAliases {
		cols = append(cols, byNorm[normalizeHeader(alias)]...)
	}
	return cols
}

func contractOf(r domain.Row, cols []string) string {
	for _, col := range cols {
		if id := contractKey(r[col]); id != "" {
			return id
		}
	}
	return ""
}

func contractCounts(t *domain.Table, cols []string) map[string]int {
	counts := make(map[string]int, t.Len())
	for _, r := range t.Rows {
		if id := contractOf(r, cols); id != "" {
			counts[id]++
		}
	}
	return counts
}

// FlagRepeated devolve uma cópia da tabela marcando com SIM as linhas cujo
// contrato aparece mais de uma vez nela. Contrato em branco recebe NAO.
func FlagRepeated(t *domain.Table) *domain.Table {
	cols := contractColumns(t)
	counts := contractCounts(t, cols)
	out := t.Clone()
	out.AddColumn(RepeatedColumn)
	for _, r := range out.Rows {
		r[RepeatedColumn] = flagNo
		if counts[contractOf(r, cols)] > 1 {
			r[RepeatedColumn] = flagYes
		}
	}
	return out
}

// SummarizeOverall calcula total de linhas, contratos distintos, linhas cujo
// contrato se repete e quantidade de arquivos. Contratos em branco não contam.
func SummarizeOverall(t *domain.Table, fileCount int) *domain.Table {
	cols := contractColumns(t)
	counts := contractCounts(t, cols)

	repeated := 0
	for _, n := range counts {
		if n > 1 {
			repeated += n
		}
	}

	out := domain.NewTable(colTotalRows, colUniqueContracts, colRepeatedRows, colFiles)
	out.MarkNumeric(out.Columns...)
	out.Append(domain.Row{
		colTotalRows:       strconv.Itoa(t.Len()),
		colUniqueContracts: strconv.Itoa(len(counts)),
		colRepeatedRows:    strconv.Itoa(repeated),
		colFiles:           strconv.Itoa(fileCount),
	})
	return out
}

// SummarizeDuplicates devolve todas as ocorrências de contratos que aparecem
// mais de uma vez, na ordem original.
func SummarizeDuplicates(t *domain.Table) *domain.Table {
	cols := contractColumns(t)
	counts := contractCounts(t, cols)
	return t.Filter(func(r domain.Row) bool {
		return counts[contractOf(r, cols)] > 1
	})
}

// SummarizeByBank conta linhas e contratos distintos por banco de origem, na
// ordem em que os bancos aparecem.
func SummarizeByBank(t *domain.Table) *domain.Table {
	cols := contractColumns(t)

	var order []string
	rows := make(map[string]int)
	unique := make(map[string]map[string]bool)
	for _, r := range t.Rows {
		bank := strings.TrimSpace(r[BankColumn])
		if bank == "" {
			bank = unknownBankLabel
		}
		if _, ok := rows[bank]; !ok {
			order = append(order, bank)
			unique[bank] = make(map[string]bool)
		}
		rows[bank]++
		if id := contractOf(r, cols); id != "" {
			unique[bank][id] = true
		}
	}

	out := domain.NewTable(colBank, colTotalRows, colUniqueContracts)
	out.MarkNumeric(colTotalRows, colUniqueContracts)
	for _, bank := range order {
		out.Append(domain.Row{
			colBank:            bank,
			colTotalRows:       strconv.Itoa(rows[bank]),
			colUniqueContracts: strconv.Itoa(len(unique[bank])),
		})
	}
	return out
}
