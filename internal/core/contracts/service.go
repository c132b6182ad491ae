package contracts

import (
	"fmt"
	"time"

	"contratos-service/internal/core/workbook"
	"contratos-service/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service define a interface do processamento de planilhas de contratos.
type Service interface {
	ProcessFiles(files []domain.SourceFile) (*domain.Report, error)
	ExportReport(report *domain.Report) ([]byte, error)
}

type service struct {
	log   *zap.Logger
	now   func() time.Time
	dedup bool
}

// Option ajusta o serviço na criação.
type Option func(*service)

// WithClock substitui o relógio usado como data de referência padrão.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithContractDedup liga a deduplicação por contrato em documentos comuns.
// Desligada por padrão; documentos de saída dupla nunca são deduplicados.
func WithContractDedup(enabled bool) Option {
	return func(s *service) { s.dedup = enabled }
}

// NewService cria uma nova instância do serviço de contratos.
func NewService(log *zap.Logger, opts ...Option) Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &service{log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessFiles lê e filtra cada arquivo em sequência e monta o relatório.
// Uma falha de leitura aborta a requisição inteira.
func (s *service) ProcessFiles(files []domain.SourceFile) (*domain.Report, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	reportID := uuid.NewString()
	log := s.log.With(zap.String("report_id", reportID))
	chain := &filterChain{now: s.now, log: log}

	results := make([]fileResult, 0, len(files))
	for _, f := range files {
		res, err := s.processFile(chain, f)
		if err != nil {
			log.Warn("falha ao ler arquivo", zap.String("file", f.Filename), zap.Error(err))
			return nil, err
		}
		log.Info("arquivo processado",
			zap.String("file", res.filename),
			zap.String("document", string(res.doc)),
			zap.String("bank", string(res.params.Bank)),
			zap.Int("rows", res.rows().Len()))
		results = append(results, res)
	}

	sheets, err := assembleReport(results)
	if err != nil {
		log.Warn("relatório vazio", zap.Int("files", len(files)))
		return nil, err
	}
	log.Info("relatório montado", zap.Int("files", len(files)), zap.Int("sheets", len(sheets)))
	return &domain.Report{ID: reportID, Sheets: sheets}, nil
}

func (s *service) processFile(chain *filterChain, f domain.SourceFile) (fileResult, error) {
	table, err := workbook.Read(f.Filename, f.Content)
	if err != nil {
		return fileResult{}, &ReadError{Filename: f.Filename, Err: err}
	}

	params := f.Params
	res := fileResult{
		filename: f.Filename,
		params:   params,
		doc:      ClassifyDocument(f.Filename),
	}

	if isDualOutput(res.doc) {
		split := chain.splitByAudit(table, &params)
		res.split = &auditSplit{
			all:              TagBank(split.all, params.Bank),
			audited:          TagBank(split.audited, params.Bank),
			notAudited:       TagBank(split.notAudited, params.Bank),
			allPeriod:        TagBank(split.allPeriod, params.Bank),
			auditedPeriod:    TagBank(split.auditedPeriod, params.Bank),
			notAuditedPeriod: TagBank(split.notAuditedPeriod, params.Bank),
		}
		return res, nil
	}

	filtered := chain.run(table, &params, chain.stagesFor(res.doc))
	if s.dedup {
		filtered = dedupByContract(filtered)
	}
	res.table = TagBank(filtered, params.Bank)
	return res, nil
}

// ExportReport grava as abas do relatório em um único .xlsx.
func (s *service) ExportReport(report *domain.Report) ([]byte, error) {
	if report == nil {
		return nil, ErrEmptyResult
	}
	out, err := workbook.Write(report.Sheets)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar planilha do relatório %s: %w", report.ID, err)
	}
	return out, nil
}
