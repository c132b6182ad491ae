package workbook

import (
	"errors"
	"fmt"
	"strconv"

	"contratos-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ErrNoTables indica uma tentativa de gravar um relatório sem abas.
var ErrNoTables = errors.New("nenhuma tabela para gravar")

// Write grava uma aba por tabela nomeada, na ordem recebida, e devolve o .xlsx.
func Write(sheets []domain.NamedTable) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, ErrNoTables
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar estilo do cabeçalho: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("erro ao nomear aba %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("erro ao criar aba %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar planilha final: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet domain.NamedTable, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return fmt.Errorf("erro ao abrir aba %q para escrita: %w", sheet.Name, err)
	}

	t := sheet.Table
	if t == nil {
		t = domain.NewTable()
	}

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("erro ao gravar cabeçalho da aba %q: %w", sheet.Name, err)
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			values[j] = cellValue(t, col, row[col])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("erro ao gravar linha %d da aba %q: %w", i+2, sheet.Name, err)
		}
	}

	return sw.Flush()
}

func cellValue(t *domain.Table, col, v string) interface{} {
	if t.IsNumeric(col) {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return v
}
