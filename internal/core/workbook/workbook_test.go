package workbook

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"contratos-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	content := buildXLSX(t, [][]interface{}{
		{"CONTRATO", "AUDITADO", "", "AUDITADO"},
		{"100", " AUD ", "x", "y"},
		{},
		{"200", "NAUD"},
	})

	tbl, err := Read("relatorio.xlsx", content)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []string{"CONTRATO", "AUDITADO", "Unnamed: 2", "AUDITADO.1"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("colunas = %v, want %v", tbl.Columns, want)
	}
	for i := range want {
		if tbl.Columns[i] != want[i] {
			t.Fatalf("coluna %d = %q, want %q", i, tbl.Columns[i], want[i])
		}
	}
	if tbl.Len() != 2 {
		t.Fatalf("linhas = %d, want 2 (linha vazia descartada)", tbl.Len())
	}
	if tbl.Rows[0]["AUDITADO"] != "AUD" {
		t.Fatalf("valor não aparado: %q", tbl.Rows[0]["AUDITADO"])
	}
	if v, ok := tbl.Rows[1]["AUDITADO.1"]; !ok || v != "" {
		t.Fatalf("linha curta deveria ser completada com vazio, got %q %v", v, ok)
	}
}

func TestReadCSVSemicolonAndLatin1(t *testing.T) {
	content := []byte("CONTRATO;CIDADE\n1;Bel\xe9m\n2;S\xe3o Jo\xe3o\n")
	tbl, err := Read("base.csv", content)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("linhas = %d", tbl.Len())
	}
	if got := tbl.Rows[0]["CIDADE"]; got != "Belém" {
		t.Fatalf("CIDADE = %q, want Belém", got)
	}
	if got := tbl.Rows[1]["CIDADE"]; got != "São João" {
		t.Fatalf("CIDADE = %q, want São João", got)
	}
}

func TestReadCSVCommaWithBOM(t *testing.T) {
	content := []byte("\xef\xbb\xbfCONTRATO,AUDITADO\n10,AUD\n")
	tbl, err := Read("base.CSV", content)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !tbl.HasColumn("CONTRATO") {
		t.Fatalf("BOM não removido: %v", tbl.Columns)
	}
	if tbl.Rows[0]["AUDITADO"] != "AUD" {
		t.Fatalf("linha = %+v", tbl.Rows[0])
	}
}

func TestReadUnsupportedAndCorrupt(t *testing.T) {
	if _, err := Read("dados.pdf", []byte("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Read("dados.xlsx", []byte("isto não é um zip")); err == nil {
		t.Fatal("esperava erro para .xlsx corrompido")
	}
}

func TestReadXLSRenamedXLSX(t *testing.T) {
	content := buildXLSX(t, [][]interface{}{{"CONTRATO"}, {"7"}})
	tbl, err := Read("exportacao.xls", content)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Len() != 1 || tbl.Rows[0]["CONTRATO"] != "7" {
		t.Fatalf("tabela = %+v", tbl.Rows)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	data := domain.NewTable("CONTRATO", "AUDITADO")
	data.Append(domain.Row{"CONTRATO": "1", "AUDITADO": "AUD"}, domain.Row{"CONTRATO": "2", "AUDITADO": "NAUD"})

	summary := domain.NewTable("TOTAL_LINHAS")
	summary.MarkNumeric("TOTAL_LINHAS")
	summary.Append(domain.Row{"TOTAL_LINHAS": "2"})

	out, err := Write([]domain.NamedTable{
		{Name: "BEMGE - Todos", Table: data},
		{Name: "Resumo", Table: summary},
		{Name: "Vazia", Table: nil},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"BEMGE - Todos", "Resumo", "Vazia"}
	if len(sheets) != len(want) {
		t.Fatalf("abas = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("aba %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	typ, err := f.GetCellType("Resumo", "A2")
	if err != nil {
		t.Fatalf("GetCellType: %v", err)
	}
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		t.Fatalf("resumo deveria ser numérico, tipo = %v", typ)
	}

	back, err := Read("saida.xlsx", out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if back.Len() != 2 || back.Rows[1]["AUDITADO"] != "NAUD" {
		t.Fatalf("primeira aba relida = %+v", back.Rows)
	}
}

func TestWriteWithoutTables(t *testing.T) {
	if _, err := Write(nil); !errors.Is(err, ErrNoTables) {
		t.Fatalf("err = %v, want ErrNoTables", err)
	}
}

func TestBuildTableDuplicateHeadersNeverCollide(t *testing.T) {
	tbl := buildTable([][]string{
		{"A", "A.1", "A", "A"},
		{"x", "y", "z", "w"},
	})
	want := []string{"A", "A.1", "A.2", "A.3"}
	for i := range want {
		if tbl.Columns[i] != want[i] {
			t.Fatalf("colunas = %v, want %v", tbl.Columns, want)
		}
	}
	row := tbl.Rows[0]
	if row["A"] != "x" || row["A.1"] != "y" || row["A.2"] != "z" || row["A.3"] != "w" {
		t.Fatalf("linha = %v", row)
	}
}

func TestReadXLSXDateCellsAsSerials(t *testing.T) {
	f := excelize.NewFile()
	numFmt := "dd/mm/yy"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	f.SetCellValue("Sheet1", "A1", "DATA")
	f.SetCellValue("Sheet1", "A2", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	f.SetCellStyle("Sheet1", "A2", "A2", style)
	buf, err := f.WriteToBuffer()
	f.Close()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	tbl, err := Read("datas.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := tbl.Rows[0]["DATA"]; got != "45296" {
		t.Fatalf("DATA = %q, want o serial 45296", got)
	}
}
