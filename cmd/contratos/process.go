package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"contratos-service/internal/core/contracts"
	"contratos-service/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type processOptions struct {
	bank   string
	mode   string
	output string

	period       windowFlags
	habitacional windowFlags
	secondary    windowFlags
}

type windowFlags struct {
	enabled   bool
	reference string
	months    int
}

func (w windowFlags) params() domain.DateWindowParams {
	return domain.DateWindowParams{Enabled: w.enabled, ReferenceDate: w.reference, MonthsBack: w.months}
}

func newProcessCmd(root *rootOptions) *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   "process [arquivos...]",
		Short: "Processa planilhas localmente e grava o relatório .xlsx",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			// meses não informados na linha de comando seguem a configuração
			if !cmd.Flags().Changed("meses-atras") {
				opts.period.months = cfg.Defaults.PeriodMonths
			}
			if !cmd.Flags().Changed("meses-habitacional") {
				opts.habitacional.months = cfg.Defaults.HabitacionalMonths
			}
			if !cmd.Flags().Changed("meses-filtro") {
				opts.secondary.months = cfg.Defaults.SecondaryMonths
			}

			files, err := opts.sourceFiles(args)
			if err != nil {
				return err
			}

			svc := contracts.NewService(log, contracts.WithContractDedup(cfg.Pipeline.DedupByContract))
			report, err := svc.ProcessFiles(files)
			if err != nil {
				return err
			}
			out, err := svc.ExportReport(report)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return fmt.Errorf("erro ao gravar %s: %w", opts.output, err)
			}

			log.Info("Relatório gravado",
				zap.String("report_id", report.ID),
				zap.String("output", opts.output),
				zap.Int("sheets", len(report.Sheets)))
			fmt.Fprintf(cmd.OutOrStdout(), "Relatório %s gravado em %s (%d planilhas)\n", report.ID, opts.output, len(report.Sheets))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.bank, "banco", "b", "", "banco de origem: bemge ou minas_caixa")
	f.StringVarP(&opts.mode, "tipo", "m", string(domain.AuditAll), "filtro de auditoria: todos, auditado, nauditado")
	f.StringVarP(&opts.output, "output", "o", "planilha_processada.xlsx", "arquivo .xlsx de saída")

	f.BoolVar(&opts.period.enabled, "filtro-periodo", false, "filtra pela coluna de período")
	f.StringVar(&opts.period.reference, "data-referencia", "", "data de referência do período (padrão: hoje)")
	f.IntVar(&opts.period.months, "meses-atras", domain.DefaultPeriodMonths, "meses retroativos do período")

	f.BoolVar(&opts.habitacional.enabled, "filtro-habitacional", false, "filtra pela data habitacional (documentos 3026-11)")
	f.StringVar(&opts.habitacional.reference, "data-habitacional", "", "data de referência habitacional")
	f.IntVar(&opts.habitacional.months, "meses-habitacional", domain.DefaultHabitacionalMonths, "meses retroativos habitacional")

	f.BoolVar(&opts.secondary.enabled, "filtro-data", false, "filtra pela coluna AB (documentos 3026-12)")
	f.StringVar(&opts.secondary.reference, "data-filtro", "", "data de referência da coluna AB")
	f.IntVar(&opts.secondary.months, "meses-filtro", domain.DefaultSecondaryMonths, "meses retroativos da coluna AB")

	_ = cmd.MarkFlagRequired("banco")
	return cmd
}

func (o *processOptions) sourceFiles(paths []string) ([]domain.SourceFile, error) {
	bank, err := domain.ParseBank(o.bank)
	if err != nil {
		return nil, err
	}
	params := domain.FilterParams{
		Bank:          bank,
		AuditMode:     domain.ParseAuditMode(o.mode),
		Period:        o.period.params(),
		Habitacional:  o.habitacional.params(),
		SecondaryDate: o.secondary.params(),
	}

	files := make([]domain.SourceFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("erro ao abrir %s: %w", p, err)
		}
		files = append(files, domain.SourceFile{Filename: filepath.Base(p), Content: content, Params: params})
	}
	if len(files) == 0 {
		return nil, errors.New("nenhum arquivo informado")
	}
	return files, nil
}
