// Espectador de terminal: cria, assiste e vota em debates pela API HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "espectador",
		Short: "Acompanha debates de IA ao vivo pelo terminal",
		Long:  "Cliente de linha de comando da Arena de Debates: cria um debate, assiste os turnos sendo gerados em tempo real, vota na melhor persona e pede o resumo final.",
	}

	root.PersistentFlags().String("api", "http://localhost:8080", "Endereço base da API (ou DEBATE_API_URL)")

	root.AddCommand(newCriarCmd())
	root.AddCommand(newAssistirCmd())
	root.AddCommand(newVotarCmd())
	root.AddCommand(newResumoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func baseURL(cmd *cobra.Command) string {
	api, _ := cmd.Root().PersistentFlags().GetString("api")
	if env := os.Getenv("DEBATE_API_URL"); env != "" && !cmd.Root().PersistentFlags().Changed("api") {
		return env
	}
	return api
}
