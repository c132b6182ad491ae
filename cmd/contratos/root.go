package main

import (
	"contratos-service/internal/api/responses"
	"contratos-service/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "contratos",
		Short: "Filtra e consolida planilhas de contratos BEMGE e MINAS CAIXA",
		Long: `Lê planilhas de contratos (.xlsx, .xls, .csv), aplica os filtros de auditoria,
período, data habitacional e destino conforme o tipo de documento, e gera uma
pasta de trabalho com as planilhas filtradas e os resumos de contratos.

Exemplos:
  contratos serve --config config.yaml
  contratos process -b bemge -m auditado -o saida.xlsx relatorio_3026-11.xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "config.yaml", "arquivo de configuração YAML")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log em nível debug")

	cmd.AddCommand(newServeCmd(opts), newProcessCmd(opts), newVersionCmd())
	return cmd
}

// setup carrega a configuração e inicializa o logger compartilhado.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if o.verbose {
		level = "debug"
	}
	return cfg, responses.InitLogger(level), nil
}
