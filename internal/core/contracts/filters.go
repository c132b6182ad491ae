package contracts

import (
	"strings"
	"time"

	"contratos-service/internal/domain"

	"go.uber.org/zap"
)

// Posições fixas das exportações de cada banco, em letras de coluna.
const (
	bemgeHabitacionalColumn      = "W"  // índice 22
	minasCaixaHabitacionalColumn = "Y"  // índice 24
	secondaryFilterColumn        = "AB" // índice 27
)

var habitacionalColumns = map[domain.Bank]string{
	domain.BankBemge:      bemgeHabitacionalColumn,
	domain.BankMinasCaixa: minasCaixaHabitacionalColumn,
}

// Colunas testadas, em ordem, quando nem posição nem nome localizam a data habitacional.
var habitacionalSniffColumns = []string{"W", "Y", "X", "Z"}

// Colunas de data/hora que o BEMGE exporta com horário no documento 3026-12.
var bemgeDateTimeColumns = []string{"W", "Y", "AB"}

var (
	auditedValues    = map[string]bool{"AUD": true, "AUDI": true}
	notAuditedValue  = "NAUD"
	excludedDestinos = map[string]bool{"0x0": true, "1x4": true, "6x4": true, "8x4": true}
)

// stage consome uma tabela e devolve outra, possivelmente menor. Nunca falha:
// coluna ausente ou datas ilegíveis fazem o estágio devolver a entrada.
type stage func(*domain.Table, *domain.FilterParams) *domain.Table

// filterChain carrega o relógio e o logger compartilhados pelos estágios.
type filterChain struct {
	now func() time.Time
	log *zap.Logger
}

func (c *filterChain) noop(stage, reason string, p *domain.FilterParams) {
	c.log.Debug("estágio sem efeito",
		zap.String("stage", stage),
		zap.String("reason", reason),
		zap.String("bank", string(p.Bank)))
}

func auditMatches(value string, mode domain.AuditMode) bool {
	v := strings.ToUpper(strings.TrimSpace(value))
	switch mode {
	case domain.AuditAudited:
		return auditedValues[v]
	case domain.AuditNotAudited:
		return v == notAuditedValue
	default:
		return true
	}
}

func (c *filterChain) audit(t *domain.Table, p *domain.FilterParams) *domain.Table {
	return c.auditWithMode(t, p, p.AuditMode)
}

func (c *filterChain) auditWithMode(t *domain.Table, p *domain.FilterParams, mode domain.AuditMode) *domain.Table {
	if mode != domain.AuditAudited && mode != domain.AuditNotAudited {
		return t
	}
	col, ok := Resolve(t, auditAliases)
	if !ok {
		c.noop("auditoria", "coluna AUDITADO ausente", p)
		return t
	}
	return t.Filter(func(r domain.Row) bool { return auditMatches(r[col], mode) })
}

// filterDateRange mantém as linhas com data em [start, end]. Se nenhuma linha
// tiver data legível a tabela volta inalterada.
func (c *filterChain) filterDateRange(name string, t *domain.Table, p *domain.FilterParams, col string, start, end time.Time) *domain.Table {
	placements := make([]Placement, len(t.Rows))
	parsed := 0
	for i, r := range t.Rows {
		placements[i] = Classify(r[col], start, end)
		if placements[i] != Unparseable {
			parsed++
		}
	}
	if parsed == 0 {
		c.noop(name, "nenhuma data legível na coluna "+col, p)
		return t
	}

	out := domain.NewTable(t.Columns...)
	for i, r := range t.Rows {
		if placements[i] == Inside {
			out.Append(r)
		}
	}
	c.log.Debug("filtro de datas aplicado",
		zap.String("stage", name),
		zap.String("column", col),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("in", t.Len()),
		zap.Int("out", out.Len()))
	return out
}

func (c *filterChain) period(t *domain.Table, p *domain.FilterParams) *domain.Table {
	if !p.Period.Enabled {
		return t
	}
	col, ok := Resolve(t, periodAliases)
	if !ok {
		c.noop("periodo", "coluna de período ausente", p)
		return t
	}
	start, end := Window(ParseReference(p.Period.ReferenceDate, c.now()), p.Period.MonthsBack)
	return c.filterDateRange("periodo", t, p, col, start, end)
}

func (c *filterChain) habitacional(t *domain.Table, p *domain.FilterParams) *domain.Table {
	if !p.Habitacional.Enabled {
		return t
	}
	if strings.TrimSpace(p.Habitacional.ReferenceDate) == "" {
		c.noop("habitacional", "data de referência ausente", p)
		return t
	}

	strategies := make([]strategy, 0, 3)
	if letter, ok := habitacionalColumns[p.Bank]; ok {
		strategies = append(strategies, byPosition(letter))
	}
	strategies = append(strategies, byAliases(habitacionalAliases), bySniffedDates(habitacionalSniffColumns...))

	col, ok := resolveFirst(t, strategies...)
	if !ok {
		c.noop("habitacional", "coluna de data habitacional não localizada", p)
		return t
	}
	start, end := Window(ParseReference(p.Habitacional.ReferenceDate, c.now()), p.Habitacional.MonthsBack)
	return c.filterDateRange("habitacional", t, p, col, start, end)
}

func (c *filterChain) secondaryDate(t *domain.Table, p *domain.FilterParams) *domain.Table {
	if !p.SecondaryDate.Enabled {
		return t
	}
	hasReference := strings.TrimSpace(p.SecondaryDate.ReferenceDate) != ""

	switch p.Bank {
	case domain.BankBemge:
		t = normalizeDateColumns(t, bemgeDateTimeColumns)
		if !hasReference {
			return t
		}
	case domain.BankMinasCaixa:
	default:
		c.noop("data secundaria", "banco sem layout conhecido", p)
		return t
	}

	col, ok := ResolveByPosition(t, columnIndex(secondaryFilterColumn))
	if !ok {
		c.noop("data secundaria", "coluna "+secondaryFilterColumn+" ausente ou vazia", p)
		return t
	}
	start, end := Window(ParseReference(p.SecondaryDate.ReferenceDate, c.now()), p.SecondaryDate.MonthsBack)
	return c.filterDateRange("data secundaria", t, p, col, start, end)
}

// normalizeDateColumns devolve uma cópia com as colunas indicadas reduzidas a
// data (sem horário). Células que não são datas ficam como estão.
func normalizeDateColumns(t *domain.Table, letters []string) *domain.Table {
	var cols []string
	for _, l := range letters {
		if col, ok := t.Column(columnIndex(l)); ok {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return t
	}
	out := t.Clone()
	for _, r := range out.Rows {
		for _, col := range cols {
			if d, ok := parseCellDate(r[col]); ok {
				r[col] = formatDate(d)
			}
		}
	}
	return out
}

func (c *filterChain) destination(t *domain.Table, p *domain.FilterParams) *domain.Table {
	payment, hasPayment := Resolve(t, destinationPaymentAliases)
	complement, hasComplement := Resolve(t, destinationComplementAliases)
	group, hasGroup := Resolve(t, contractsGroupAliases)
	if !hasPayment && !hasComplement && !hasGroup {
		c.noop("destino", "colunas de destino ausentes", p)
		return t
	}

	excluded := func(v string) bool {
		return excludedDestinos[strings.ToLower(strings.TrimSpace(v))]
	}
	return t.Filter(func(r domain.Row) bool {
		if hasPayment && excluded(r[payment]) {
			return false
		}
		if hasComplement && excluded(r[complement]) {
			return false
		}
		if hasGroup && strings.TrimSpace(r[group]) == "" {
			return false
		}
		return true
	})
}

// dedupByContract mantém apenas a primeira linha de cada contrato. Linhas sem
// contrato são mantidas.
func dedupByContract(t *domain.Table) *domain.Table {
	col, ok := Resolve(t, contractAliases)
	if !ok {
		return t
	}
	seen := make(map[string]bool, t.Len())
	return t.Filter(func(r domain.Row) bool {
		id := contractKey(r[col])
		if id == "" {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		return true
	})
}
