package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Definidos em tempo de build via -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Contratos Service")
			fmt.Fprintf(out, "Versão:     %s\n", Version)
			fmt.Fprintf(out, "Build:      %s\n", BuildDate)
			fmt.Fprintf(out, "Go:         %s\n", runtime.Version())
		},
	}
}
