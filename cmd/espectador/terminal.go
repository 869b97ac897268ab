package main

import (
	"fmt"

	"github.com/marcelojr/debate-arena/internal/app/espectador"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiDim    = "\033[2m"
)

func colorize(color, s string) string { return color + s + ansiReset }

func bold(s string) string { return ansiBold + s + ansiReset }

// terminalRenderer escreve o debate no stdout conforme os eventos chegam. O
// texto parcial vem sempre acumulado, então só imprimimos o sufixo novo.
type terminalRenderer struct {
	turnoAberto bool
	impresso    int
}

func (t *terminalRenderer) DebateCarregado(s espectador.Snapshot) {
	fmt.Printf("%s\n", bold(s.Tema))
	for i, p := range s.Escalacao {
		if i > 0 {
			fmt.Print(" · ")
		}
		fmt.Print(colorize(ansiYellow, p.Nome))
	}
	fmt.Printf("  %s\n\n", colorize(ansiDim, fmt.Sprintf("(%d/%d turnos)", s.TurnoAtual, s.TotalTurnos)))

	for _, m := range s.Mensagens {
		fmt.Printf("%s %s\n\n", bold(nomeDe(s, m.Persona)+":"), m.Conteudo)
	}
}

func (t *terminalRenderer) FalaParcial(persona espectador.Persona, texto string) {
	if !t.turnoAberto {
		fmt.Printf("%s ", bold(persona.Nome+":"))
		t.turnoAberto = true
		t.impresso = 0
	}
	fmt.Print(texto[t.impresso:])
	t.impresso = len(texto)
}

func (t *terminalRenderer) TurnoConcluido(m espectador.Mensagem, ultimo bool) {
	if !t.turnoAberto {
		// Turno curto demais para render parcial; imprime inteiro de uma vez.
		fmt.Printf("%s %s", bold(m.Persona+":"), m.Conteudo)
	} else if t.impresso < len(m.Conteudo) {
		fmt.Print(m.Conteudo[t.impresso:])
	}
	fmt.Print("\n\n")
	t.turnoAberto = false
	t.impresso = 0

	if ultimo {
		fmt.Printf("%s\n", colorize(ansiBold+ansiCyan, "=== Debate encerrado ==="))
	}
}

func (t *terminalRenderer) Falha(mensagem string) {
	fmt.Printf("\n%s %s\n", colorize(ansiRed, "falha:"), mensagem)
}

func nomeDe(s espectador.Snapshot, chave string) string {
	for _, p := range s.Escalacao {
		if p.Chave == chave {
			return p.Nome
		}
	}
	return chave
}
