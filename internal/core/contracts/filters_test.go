package contracts

import (
	"testing"

	"contratos-service/internal/domain"
)

func params(bank domain.Bank) *domain.FilterParams {
	p := domain.DefaultFilterParams(bank)
	return &p
}

func TestAuditWithoutColumnIsNoop(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO", "VALOR"}, []string{"1", "10"}, []string{"2", "20"}, []string{"3", "30"})

	for _, mode := range []domain.AuditMode{domain.AuditAll, domain.AuditAudited, domain.AuditNotAudited} {
		p := params(domain.BankBemge)
		p.AuditMode = mode
		if got := c.audit(tbl, p); got.Len() != tbl.Len() {
			t.Fatalf("modo %s: %d linhas, want %d", mode, got.Len(), tbl.Len())
		}
	}
}

func TestAuditModes(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO", " Auditado "},
		[]string{"1", "AUD"},
		[]string{"2", " aud "},
		[]string{"3", "AUDI"},
		[]string{"4", "NAUD"},
		[]string{"5", ""},
		[]string{"6", "naud"},
	)

	cases := []struct {
		mode domain.AuditMode
		want []string
	}{
		{domain.AuditAll, []string{"1", "2", "3", "4", "5", "6"}},
		{domain.AuditAudited, []string{"1", "2", "3"}},
		{domain.AuditNotAudited, []string{"4", "6"}},
	}
	for _, tc := range cases {
		p := params(domain.BankBemge)
		p.AuditMode = tc.mode
		assertColumn(t, c.audit(tbl, p), "CONTRATO", tc.want...)
	}
}

func TestAuditIsIdempotent(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO", "AUDITADO"},
		[]string{"1", "AUD"}, []string{"2", "NAUD"}, []string{"3", "AUDI"}, []string{"4", "x"})

	for _, mode := range []domain.AuditMode{domain.AuditAll, domain.AuditAudited, domain.AuditNotAudited} {
		p := params(domain.BankMinasCaixa)
		p.AuditMode = mode
		once := c.audit(tbl, p)
		twice := c.audit(once, p)
		if once.Len() != twice.Len() {
			t.Fatalf("modo %s: %d linhas depois de uma aplicação, %d depois de duas", mode, once.Len(), twice.Len())
		}
	}
}

func TestPeriodWindow(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO", "DT.MANIFESTAÇÃO"},
		[]string{"1", "2024-03-01"},
		[]string{"2", "2024-05-01"},
		[]string{"3", "sem data"},
		[]string{"4", "15/06/2024"},
		[]string{"5", "2024-04-15"},
	)
	p := params(domain.BankBemge)
	p.Period = domain.DateWindowParams{Enabled: true, ReferenceDate: "2024-06-15", MonthsBack: 2}

	assertColumn(t, c.period(tbl, p), "CONTRATO", "2", "4", "5")
}

func TestPeriodNoopCases(t *testing.T) {
	c := newTestChain()
	unparseable := makeTable([]string{"CONTRATO", "DT MANIFESTACAO"}, []string{"1", "x"}, []string{"2", ""})
	noColumn := makeTable([]string{"CONTRATO"}, []string{"1"}, []string{"2"})

	p := params(domain.BankBemge)
	p.Period = domain.DateWindowParams{Enabled: true, ReferenceDate: "2024-06-15", MonthsBack: 1}
	if got := c.period(unparseable, p); got.Len() != 2 {
		t.Fatalf("datas ilegíveis deveriam manter a tabela: %d linhas", got.Len())
	}
	if got := c.period(noColumn, p); got.Len() != 2 {
		t.Fatalf("coluna ausente deveria manter a tabela: %d linhas", got.Len())
	}

	dated := makeTable([]string{"DT.MANIFESTACAO"}, []string{"2000-01-01"})
	p.Period.Enabled = false
	if got := c.period(dated, p); got.Len() != 1 {
		t.Fatal("filtro desligado não deveria remover linhas")
	}
}

func TestPeriodDefaultsToToday(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO", "DATA MANIFESTACAO"},
		[]string{"1", "2024-06-01"},
		[]string{"2", "2024-04-01"},
	)
	p := params(domain.BankBemge)
	p.Period = domain.DateWindowParams{Enabled: true, MonthsBack: 1}
	assertColumn(t, c.period(tbl, p), "CONTRATO", "1")
}

func TestHabitacionalByBankPosition(t *testing.T) {
	c := newTestChain()
	tbl := wideTable(
		map[string]string{"A": "1", "W": "2024-05-10", "Y": "2020-01-01"},
		map[string]string{"A": "2", "W": "2024-01-01", "Y": "2024-05-10"},
		map[string]string{"A": "3", "W": "", "Y": "2024-06-01"},
	)

	bemge := params(domain.BankBemge)
	bemge.Habitacional = domain.DateWindowParams{Enabled: true, ReferenceDate: "2024-06-15", MonthsBack: 2}
	assertColumn(t, c.habitacional(tbl, bemge), "A", "1")

	minas := params(domain.BankMinasCaixa)
	minas.Habitacional = domain.DateWindowParams{Enabled: true, ReferenceDate: "15/06/2024", MonthsBack: 2}
	assertColumn(t, c.habitacional(tbl, minas), "A", "2", "3")
}

func TestHabitacionalRequiresReference(t *testing.T) {
	c := newTestChain()
	tbl := wideTable(
		map[string]string{"A": "1", "W": "2024-05-10"},
		map[string]string{"A": "2", "W": "2010-01-01"},
	)
	p := params(domain.BankBemge)
	p.Habitacional = domain.DateWindowParams{Enabled: true, MonthsBack: 2}
	if got := c.habitacional(tbl, p); got.Len() != 2 {
		t.Fatalf("sem data de referência o filtro não deveria agir: %d linhas", got.Len())
	}
}

func TestHabitacionalFallsBackToAlias(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO", "Data Habitacional"},
		[]string{"1", "2024-06-01"},
		[]string{"2", "2023-06-01"},
	)
	p := params(domain.BankBemge)
	p.Habitacional = domain.DateWindowParams{Enabled: true, ReferenceDate: "2024-06-15", MonthsBack: 2}
	assertColumn(t, c.habitacional(tbl, p), "CONTRATO", "1")
}

func TestSecondaryDateMinasCaixaUsesToday(t *testing.T) {
	c := newTestChain()
	tbl := wideTable(
		map[string]string{"A": "1", "AB": "2024-06-01"},
		map[string]string{"A": "2", "AB": "2023-01-01"},
		map[string]string{"A": "3", "AB": "01/05/2024"},
	)
	p := params(domain.BankMinasCaixa)
	p.SecondaryDate = domain.DateWindowParams{Enabled: true, MonthsBack: 2}
	assertColumn(t, c.secondaryDate(tbl, p), "A", "1", "3")
}

func TestSecondaryDateBemgeNormalizesWithoutReference(t *testing.T) {
	c := newTestChain()
	tbl := wideTable(
		map[string]string{"A": "1", "W": "2024-06-01 13:45:00", "Y": "texto", "AB": "2023-01-01 08:00:00"},
		map[string]string{"A": "2", "W": "", "AB": "2024-06-10"},
	)
	p := params(domain.BankBemge)
	p.SecondaryDate = domain.DateWindowParams{Enabled: true, MonthsBack: 2}

	got := c.secondaryDate(tbl, p)
	if got.Len() != 2 {
		t.Fatalf("sem data de referência o BEMGE não filtra: %d linhas", got.Len())
	}
	assertColumn(t, got, "W", "01/06/2024", "")
	assertColumn(t, got, "Y", "texto", "")
	assertColumn(t, got, "AB", "01/01/2023", "10/06/2024")
	if tbl.Rows[0]["W"] != "2024-06-01 13:45:00" {
		t.Fatal("a normalização não deveria alterar a tabela de entrada")
	}
}

func TestSecondaryDateBemgeWithReference(t *testing.T) {
	c := newTestChain()
	tbl := wideTable(
		map[string]string{"A": "1", "AB": "2023-01-01 08:00:00"},
		map[string]string{"A": "2", "AB": "2024-06-10 09:00:00"},
	)
	p := params(domain.BankBemge)
	p.SecondaryDate = domain.DateWindowParams{Enabled: true, ReferenceDate: "2024-06-15", MonthsBack: 2}
	assertColumn(t, c.secondaryDate(tbl, p), "A", "2")
}

func TestSecondaryDateMissingColumn(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"A", "B"}, []string{"1", "2023-01-01"})
	p := params(domain.BankMinasCaixa)
	p.SecondaryDate = domain.DateWindowParams{Enabled: true, MonthsBack: 2}
	if got := c.secondaryDate(tbl, p); got.Len() != 1 {
		t.Fatal("coluna AB ausente deveria manter a tabela")
	}
}

func TestDestinationExclusion(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO", "DESTINO PAGAMENTO", "Dest.Complemento", "CONTRATOS"},
		[]string{"1", "0X0", "", "G1"},
		[]string{"2", "1x4", "", "G1"},
		[]string{"3", "2x4", "", "G1"},
		[]string{"4", "2x4", " 8X4 ", "G1"},
		[]string{"5", "2x4", "3x4", ""},
		[]string{"6", "", "", "G2"},
	)
	assertColumn(t, c.destination(tbl, params(domain.BankBemge)), "CONTRATO", "3", "6")
}

func TestDestinationWithoutColumnsIsNoop(t *testing.T) {
	c := newTestChain()
	tbl := makeTable([]string{"CONTRATO"}, []string{"1"}, []string{"2"})
	if got := c.destination(tbl, params(domain.BankBemge)); got.Len() != 2 {
		t.Fatalf("sem colunas de destino: %d linhas", got.Len())
	}
}

func TestDedupByContract(t *testing.T) {
	tbl := makeTable([]string{"Nr Contrato", "SEQ"},
		[]string{"10", "a"},
		[]string{"10.0", "b"},
		[]string{"", "c"},
		[]string{"20", "d"},
		[]string{"", "e"},
		[]string{"10", "f"},
	)
	assertColumn(t, dedupByContract(tbl), "SEQ", "a", "c", "d", "e")
}
