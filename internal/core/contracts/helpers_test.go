package contracts

import (
	"testing"
	"time"

	"contratos-service/internal/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// referenceNow é o "hoje" fixo dos testes.
var referenceNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return referenceNow }

func newTestChain() *filterChain {
	return &filterChain{now: fixedClock, log: zap.NewNop()}
}

// makeTable monta uma tabela a partir de linhas posicionais.
func makeTable(columns []string, rows ...[]string) *domain.Table {
	t := domain.NewTable(columns...)
	for _, values := range rows {
		r := make(domain.Row, len(columns))
		for i, col := range columns {
			if i < len(values) {
				r[col] = values[i]
			} else {
				r[col] = ""
			}
		}
		t.Append(r)
	}
	return t
}

// letterColumns devolve os cabeçalhos "A".."<last>" para testes por posição.
func letterColumns(last string) []string {
	n, _ := excelize.ColumnNameToNumber(last)
	cols := make([]string, n)
	for i := range cols {
		cols[i], _ = excelize.ColumnNumberToName(i + 1)
	}
	return cols
}

// wideTable monta uma tabela de colunas A..AB com os valores informados por letra.
func wideTable(rows ...map[string]string) *domain.Table {
	t := domain.NewTable(letterColumns("AB")...)
	for _, values := range rows {
		r := make(domain.Row, len(t.Columns))
		for _, col := range t.Columns {
			r[col] = values[col]
		}
		t.Append(r)
	}
	return t
}

func column(t *domain.Table, col string) []string {
	out := make([]string, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, r[col])
	}
	return out
}

func assertColumn(t *testing.T, tbl *domain.Table, col string, want ...string) {
	t.Helper()
	got := column(tbl, col)
	if len(got) != len(want) {
		t.Fatalf("coluna %s = %v, want %v", col, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("coluna %s = %v, want %v", col, got, want)
		}
	}
}

// xlsxFile grava as linhas em um .xlsx em memória.
func xlsxFile(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}
