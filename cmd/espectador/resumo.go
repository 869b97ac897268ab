package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/marcelojr/debate-arena/internal/app/espectador"
	"github.com/spf13/cobra"
)

func newResumoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resumo",
		Short: "Mostra o resumo por persona de um debate encerrado",
		RunE:  runResumo,
	}
	cmd.Flags().String("debate", "", "ID do debate (obrigatório)")
	_ = cmd.MarkFlagRequired("debate")
	return cmd
}

func runResumo(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("debate")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cliente := espectador.NewCliente(baseURL(cmd))
	resumo, err := cliente.Resumo(ctx, id)
	if err != nil {
		return err
	}

	for nome, texto := range resumo {
		fmt.Printf("%s %s\n\n", bold(nome+":"), texto)
	}
	return nil
}
