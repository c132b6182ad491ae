package contracts

import (
	"strings"

	"contratos-service/internal/domain"
)

// documentMarkers em ordem de verificação; vence o primeiro encontrado no nome.
var documentMarkers = []domain.DocumentType{
	domain.DocHabitacional,
	domain.DocSecondary,
	domain.DocDestination,
}

// ClassifyDocument identifica o tipo do documento pelo nome do arquivo.
func ClassifyDocument(filename string) domain.DocumentType {
	name := strings.ToLower(filename)
	for _, marker := range documentMarkers {
		if strings.Contains(name, strings.ToLower(string(marker))) {
			return marker
		}
	}
	return domain.DocGeneric
}

// isDualOutput informa se o documento gera abas separadas por situação de auditoria.
func isDualOutput(doc domain.DocumentType) bool {
	return doc == domain.DocDestination
}

// stagesFor devolve os estágios de um documento comum, na ordem fixa
// auditoria → período → habitacional → data secundária.
// Documentos de saída dupla usam splitByAudit em vez desta cadeia.
func (c *filterChain) stagesFor(doc domain.DocumentType) []stage {
	stages := []stage{c.audit, c.period}
	switch doc {
	case domain.DocHabitacional:
		stages = append(stages, c.habitacional)
	case domain.DocSecondary:
		stages = append(stages, c.secondaryDate)
	}
	return stages
}

func (c *filterChain) run(t *domain.Table, p *domain.FilterParams, stages []stage) *domain.Table {
	for _, s := range stages {
		t = s(t, p)
	}
	return t
}

// auditSplit guarda as três visões de um documento de saída dupla e suas
// versões restritas ao período.
type auditSplit struct {
	all, audited, notAudited                   *domain.Table
	allPeriod, auditedPeriod, notAuditedPeriod *domain.Table
}

// splitByAudit aplica o filtro de destino e separa a tabela em todos,
// auditados e não auditados, sem deduplicar. Cada visão também é restrita
// ao período quando o filtro está ligado.
func (c *filterChain) splitByAudit(t *domain.Table, p *domain.FilterParams) *auditSplit {
	all := c.destination(t, p)
	s := &auditSplit{
		all:        all,
		audited:    c.auditWithMode(all, p, domain.AuditAudited),
		notAudited: c.auditWithMode(all, p, domain.AuditNotAudited),
	}
	s.allPeriod = c.period(s.all, p)
	s.auditedPeriod = c.period(s.audited, p)
	s.notAuditedPeriod = c.period(s.notAudited, p)
	return s
}
