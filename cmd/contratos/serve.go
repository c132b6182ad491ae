package main

import (
	"contratos-service/internal/api"
	"contratos-service/internal/core/contracts"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia o servidor HTTP de processamento",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			if port != "" {
				cfg.Server.Port = port
			}
			if !root.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			svc := contracts.NewService(log, contracts.WithContractDedup(cfg.Pipeline.DedupByContract))
			router := api.NewRouter(cfg, svc, log)

			log.Info("Contratos Service iniciado", zap.String("port", cfg.Server.Port))
			return router.Run(":" + cfg.Server.Port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "porta HTTP (sobrepõe server.port)")
	return cmd
}
