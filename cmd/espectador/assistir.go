package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/marcelojr/debate-arena/internal/app/espectador"
	"github.com/spf13/cobra"
)

func newAssistirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistir",
		Short: "Assiste um debate ao vivo, turno a turno",
		RunE:  runAssistir,
	}
	cmd.Flags().String("debate", "", "ID do debate (obrigatório)")
	_ = cmd.MarkFlagRequired("debate")
	return cmd
}

func runAssistir(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("debate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cliente := espectador.NewCliente(baseURL(cmd))
	render := &terminalRenderer{}
	return espectador.NewConsumidor(cliente, render).Assistir(ctx, id)
}
