package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/marcelojr/debate-arena/internal/app/espectador"
	"github.com/spf13/cobra"
)

func newCriarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "criar",
		Short: "Cria um novo debate e mostra a escalação sorteada",
		RunE:  runCriar,
	}
	cmd.Flags().String("tema", "", "Tema do debate (obrigatório)")
	cmd.Flags().Int("turnos", 6, "Total de turnos (6, 9 ou 12)")
	cmd.Flags().Bool("assistir", false, "Já começa a assistir depois de criar")
	_ = cmd.MarkFlagRequired("tema")
	return cmd
}

func runCriar(cmd *cobra.Command, args []string) error {
	tema, _ := cmd.Flags().GetString("tema")
	turnos, _ := cmd.Flags().GetInt("turnos")
	assistir, _ := cmd.Flags().GetBool("assistir")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cliente := espectador.NewCliente(baseURL(cmd))
	snapshot, err := cliente.CriarDebate(ctx, tema, turnos)
	if err != nil {
		return err
	}

	fmt.Printf("Debate criado: %s\n", bold(snapshot.ID))
	fmt.Print("Escalação: ")
	for i, p := range snapshot.Escalacao {
		if i > 0 {
			fmt.Print(" · ")
		}
		fmt.Print(colorize(ansiYellow, p.Nome))
	}
	fmt.Println()

	if !assistir {
		fmt.Printf("\nPara acompanhar: espectador assistir --debate %s\n", snapshot.ID)
		return nil
	}

	render := &terminalRenderer{}
	return espectador.NewConsumidor(cliente, render).Assistir(ctx, snapshot.ID)
}
