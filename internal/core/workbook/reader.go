// Package workbook converte arquivos de planilha (.xlsx, .xls, .csv) em tabelas
// e grava relatórios de várias abas em .xlsx.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"contratos-service/internal/domain"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnsupportedFormat indica uma extensão de arquivo que não sabemos ler.
var ErrUnsupportedFormat = errors.New("formato de arquivo não suportado")

// ErrNoSheets indica uma pasta de trabalho sem nenhuma planilha.
var ErrNoSheets = errors.New("o arquivo não contém planilhas")

// Read lê a primeira planilha do arquivo e usa a primeira linha como cabeçalho.
func Read(filename string, content []byte) (*domain.Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(bytes.NewReader(content))
	case ".xls":
		rows, err = readXLS(content)
	case ".csv", ".txt":
		rows, err = readCSV(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return buildTable(rows), nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir arquivo .xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	// valores crus: datas chegam como seriais, independentes do formato da célula
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("erro ao ler planilha %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readXLS(content []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(content))
	if err != nil {
		// arquivos .xlsx renomeados para .xls são comuns nas exportações
		if rows, errX := readXLSX(bytes.NewReader(content)); errX == nil {
			return rows, nil
		}
		return nil, fmt.Errorf("erro ao abrir arquivo .xls: %w", err)
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, ErrNoSheets
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var values []string
		for _, cell := range row.GetCols() {
			values = append(values, cell.GetString())
		}
		rows = append(rows, values)
	}
	return rows, nil
}

func readCSV(content []byte) ([][]string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(content)
	if !utf8.Valid(content) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.Comma = sniffDelimiter(content)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo .csv: %w", err)
	}
	return rows, nil
}

// sniffDelimiter escolhe entre ';' e ',' contando ocorrências na primeira linha.
func sniffDelimiter(content []byte) rune {
	first := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	}
	if bytes.Count(first, []byte(",")) > bytes.Count(first, []byte(";")) {
		return ','
	}
	return ';'
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// buildTable monta a tabela a partir das linhas cruas. Cabeçalhos vazios viram
// "Unnamed: <i>" e repetidos recebem sufixo ".1", ".2"; linhas vazias são descartadas.
func buildTable(rows [][]string) *domain.Table {
	start := 0
	for start < len(rows) && isEmptyRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return domain.NewTable()
	}

	width := 0
	for _, r := range rows[start:] {
		if len(r) > width {
			width = len(r)
		}
	}

	header := rows[start]
	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for n := seen[base] + 1; ; n++ {
				candidate := base + "." + strconv.Itoa(n)
				if _, taken := seen[candidate]; !taken {
					seen[base] = n
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		columns[i] = name
	}

	table := domain.NewTable(columns...)
	for _, raw := range rows[start+1:] {
		if isEmptyRow(raw) {
			continue
		}
		row := make(domain.Row, width)
		for i, col := range columns {
			if i < len(raw) {
				row[col] = strings.TrimSpace(raw[i])
			} else {
				row[col] = ""
			}
		}
		table.Append(row)
	}
	return table
}
