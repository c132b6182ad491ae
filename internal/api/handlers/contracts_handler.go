package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"contratos-service/internal/api/responses"
	"contratos-service/internal/config"
	"contratos-service/internal/core/contracts"
	"contratos-service/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var acceptedExtensions = map[string]bool{".xlsx": true, ".xlsm": true, ".xls": true, ".csv": true}

// ContractsHandler lida com as requisições de processamento de planilhas de contratos.
type ContractsHandler struct {
	service  contracts.Service
	defaults config.DefaultsConfig
}

// NewContractsHandler cria um novo handler de contratos.
func NewContractsHandler(service contracts.Service, defaults config.DefaultsConfig) *ContractsHandler {
	return &ContractsHandler{
		service:  service,
		defaults: defaults,
	}
}

// formBool aceita "true", "1", "on" e "sim".
func formBool(c *gin.Context, key string) bool {
	v := strings.ToLower(strings.TrimSpace(c.PostForm(key)))
	if v == "on" || v == "sim" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// formMonths devolve o número de meses do formulário ou o padrão quando ausente/inválido.
func formMonths(c *gin.Context, key string, def int) int {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// formFirst devolve o primeiro campo preenchido entre as chaves informadas.
func formFirst(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.PostForm(k)); v != "" {
			return v
		}
	}
	return ""
}

func (h *ContractsHandler) baseParams(c *gin.Context) domain.FilterParams {
	return domain.FilterParams{
		AuditMode: domain.ParseAuditMode(formFirst(c, "tipoFiltro", "tipo")),
		Period: domain.DateWindowParams{
			Enabled:       formBool(c, "filtroPeriodo"),
			ReferenceDate: c.PostForm("dataReferencia"),
			MonthsBack:    formMonths(c, "mesesAtras", h.defaults.PeriodMonths),
		},
		Habitacional: domain.DateWindowParams{
			Enabled:       formBool(c, "filtroHabitacional"),
			ReferenceDate: c.PostForm("dataHabitacional"),
			MonthsBack:    formMonths(c, "mesesHabitacional", h.defaults.HabitacionalMonths),
		},
		SecondaryDate: domain.DateWindowParams{
			Enabled:       formBool(c, "filtroData"),
			ReferenceDate: c.PostForm("dataFiltro"),
			MonthsBack:    formMonths(c, "mesesFiltro", h.defaults.SecondaryMonths),
		},
	}
}

// banksForFiles aceita um banco para todos os arquivos ou um banco por arquivo, na mesma ordem.
func banksForFiles(raw []string, files int) ([]domain.Bank, error) {
	if len(raw) == 0 {
		return nil, errors.New("informe o banco (bemge ou minas_caixa)")
	}
	if len(raw) != 1 && len(raw) != files {
		return nil, fmt.Errorf("foram enviados %d bancos para %d arquivos", len(raw), files)
	}
	banks := make([]domain.Bank, files)
	for i := range banks {
		v := raw[0]
		if len(raw) == files {
			v = raw[i]
		}
		b, err := domain.ParseBank(v)
		if err != nil {
			return nil, err
		}
		banks[i] = b
	}
	return banks, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// uploadedFiles lê os arquivos de "files" ou, na falta, de "file". Requisição
// que não é multipart devolve lista vazia sem erro.
func uploadedFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if files := form.File["files"]; len(files) > 0 {
		return files, nil
	}
	return form.File["file"], nil
}

// HandleProcessContracts recebe uma ou mais planilhas, aplica os filtros e devolve o relatório .xlsx.
func (h *ContractsHandler) HandleProcessContracts(c *gin.Context) {
	headers, err := uploadedFiles(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responses.Error(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Arquivos excedem o limite de %d MB por requisição", tooLarge.Limit>>20))
			return
		}
		responses.Error(c, http.StatusBadRequest, "Formulário de upload inválido", err.Error())
		return
	}
	if len(headers) == 0 {
		responses.Error(c, http.StatusBadRequest, "Nenhum arquivo Excel (.xlsx, .xls) ou CSV foi enviado")
		return
	}

	for _, fh := range headers {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !acceptedExtensions[ext] {
			responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de arquivo não suportada: %s", ext), fh.Filename)
			return
		}
	}

	banks, err := banksForFiles(c.PostFormArray("banco"), len(headers))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Banco inválido", err.Error())
		return
	}

	base := h.baseParams(c)
	files := make([]domain.SourceFile, 0, len(headers))
	for i, fh := range headers {
		content, err := readUpload(fh)
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo enviado", fh.Filename)
			return
		}
		params := base
		params.Bank = banks[i]
		files = append(files, domain.SourceFile{Filename: fh.Filename, Content: content, Params: params})
	}

	report, err := h.service.ProcessFiles(files)
	if err != nil {
		h.respondProcessError(c, err)
		return
	}

	out, err := h.service.ExportReport(report)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar a planilha do relatório", err.Error())
		return
	}

	c.Header("X-Report-ID", report.ID)
	fileName := fmt.Sprintf("planilha_processada_%s_%s.xlsx", base.AuditMode, time.Now().Format("20060102_150405"))
	responses.File(c, fileName, xlsxContentType, out)
}

func (h *ContractsHandler) respondProcessError(c *gin.Context, err error) {
	var readErr *contracts.ReadError
	switch {
	case errors.As(err, &readErr):
		responses.Error(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("Não foi possível ler o arquivo %s", readErr.Filename), err.Error())
	case errors.Is(err, contracts.ErrEmptyResult):
		responses.Error(c, http.StatusUnprocessableEntity,
			"Nenhum contrato restou após os filtros. Verifique os filtros e as datas informadas", err.Error())
	case errors.Is(err, contracts.ErrNoFiles):
		responses.Error(c, http.StatusBadRequest, "Nenhum arquivo foi enviado")
	default:
		responses.Error(c, http.StatusInternalServerError, "Erro ao processar os arquivos", err.Error())
	}
}
