package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/marcelojr/debate-arena/internal/app/espectador"
	"github.com/spf13/cobra"
)

func newVotarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "votar",
		Short: "Vota na melhor persona de um debate encerrado",
		RunE:  runVotar,
	}
	cmd.Flags().String("debate", "", "ID do debate (obrigatório)")
	cmd.Flags().String("persona", "", "Chave da persona escolhida (obrigatório)")
	_ = cmd.MarkFlagRequired("debate")
	_ = cmd.MarkFlagRequired("persona")
	return cmd
}

func runVotar(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("debate")
	persona, _ := cmd.Flags().GetString("persona")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cliente := espectador.NewCliente(baseURL(cmd))
	votacao, err := cliente.Votar(ctx, id, persona)
	if err != nil {
		return err
	}

	fmt.Printf("Voto registrado em %s\n", bold(votacao.MeuVoto))
	for chave, total := range votacao.Totais {
		fmt.Printf("  %s: %d\n", colorize(ansiYellow, chave), total)
	}
	return nil
}
