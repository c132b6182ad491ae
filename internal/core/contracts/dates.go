package contracts

import (
	"strconv"
	"strings"
	"time"
)

// Placement classifica uma data bruta em relação a uma janela.
type Placement int

const (
	Inside Placement = iota
	Outside
	Unparseable
)

// Intervalo plausível de seriais do Excel: 1950-01-01 a 2100-01-01.
// Fora disso o número é tratado como texto, não como data.
const (
	minExcelSerial = 18264
	maxExcelSerial = 73051
)

var cellDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006/01/02",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2/1/06 15:04",
	"2-1-06",
}

// parseCellDate tenta interpretar o conteúdo de uma célula como data e devolve
// apenas o dia civil.
func parseCellDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	if f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
		if f >= minExcelSerial && f < maxExcelSerial {
			return dateOnly(excelSerialToDate(f)), true
		}
	}
	return time.Time{}, false
}

func excelSerialToDate(serial float64) time.Time {
	// base Excel serial -> 1899-12-30
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	frac := serial - float64(int64(serial))
	duration := time.Duration(int64(serial)*24) * time.Hour
	duration += time.Duration(frac * 24 * float64(time.Hour))
	return base.Add(duration)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseReference devolve o dia civil de raw, ou o dia de now quando raw está
// vazio ou ilegível.
func ParseReference(raw string, now time.Time) time.Time {
	if t, ok := parseCellDate(raw); ok {
		return t
	}
	return dateOnly(now)
}

// Window devolve [reference - monthsBack meses, reference]. O dia é limitado ao
// último dia do mês de destino (31/05 menos 3 meses = 29/02 em ano bissexto).
func Window(reference time.Time, monthsBack int) (start, end time.Time) {
	if monthsBack < 0 {
		monthsBack = 0
	}
	end = dateOnly(reference)

	y, m := end.Year(), int(end.Month())-monthsBack
	for m < 1 {
		m += 12
		y--
	}
	day := end.Day()
	if last := daysIn(y, time.Month(m)); day > last {
		day = last
	}
	start = time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	return start, end
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Classify posiciona raw em relação à janela fechada [start, end].
func Classify(raw string, start, end time.Time) Placement {
	t, ok := parseCellDate(raw)
	if !ok {
		return Unparseable
	}
	if t.Before(start) || t.After(end) {
		return Outside
	}
	return Inside
}

// formatDate é o formato gravado quando uma coluna é normalizada para data.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
