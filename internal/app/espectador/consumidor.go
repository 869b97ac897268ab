package espectador

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// Estado do consumidor diante de um debate.
type Estado string

const (
	EstadoOcioso    Estado = "ocioso"
	EstadoCarregado Estado = "carregado"
	EstadoAvancando Estado = "avancando"
	EstadoEncerrado Estado = "encerrado"
)

var (
	ErrTurnoEmVoo    = errors.New("ja existe um avanco de turno em voo")
	ErrGeracaoRemota = errors.New("o servidor reportou falha na geracao")
)

// Renderizador é a fronteira com a camada de apresentação. O consumidor
// coalesce os chunks e chama FalaParcial num ritmo limitado, nunca por chunk.
type Renderizador interface {
	DebateCarregado(s Snapshot)
	FalaParcial(persona Persona, texto string)
	TurnoConcluido(m Mensagem, ultimo bool)
	Falha(mensagem string)
}

// Consumidor assiste um debate: carrega o snapshot e dispara avanços de turno
// em sequência enquanto o debate segue em andamento, espelhando cada fala no
// renderizador. Um único avanço fica em voo por vez, garantido pelo guarda
// interno mesmo sob gatilhos reentrantes.
type Consumidor struct {
	cliente *Cliente
	render  Renderizador
	ritmo   time.Duration

	mu       sync.Mutex
	estado   Estado
	emVoo    bool
	snapshot Snapshot
}

// RitmoPadrao limita a apresentação de texto parcial a ~30 quadros por
// segundo, independente da cadência de chunks do gerador.
const RitmoPadrao = 33 * time.Millisecond

func NewConsumidor(cliente *Cliente, render Renderizador) *Consumidor {
	return &Consumidor{
		cliente: cliente,
		render:  render,
		ritmo:   RitmoPadrao,
		estado:  EstadoOcioso,
	}
}

// ComRitmo ajusta o intervalo mínimo entre renders parciais; zero desliga o
// limite (útil em testes).
func (c *Consumidor) ComRitmo(ritmo time.Duration) *Consumidor {
	c.ritmo = ritmo
	return c
}

func (c *Consumidor) EstadoAtual() Estado {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estado
}

func (c *Consumidor) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Assistir carrega o debate e avança turnos automaticamente até o debate
// encerrar ou os turnos acabarem. Cancelamento do contexto é um desligamento
// deliberado e devolve nil, nunca um erro.
func (c *Consumidor) Assistir(ctx context.Context, id string) error {
	snapshot, err := c.cliente.Snapshot(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.estado = EstadoCarregado
	c.mu.Unlock()
	c.render.DebateCarregado(snapshot)

	for {
		c.mu.Lock()
		continuar := c.snapshot.Status == string(domain.StatusEmAndamento) && c.snapshot.TurnoAtual < c.snapshot.TotalTurnos
		c.mu.Unlock()
		if !continuar {
			break
		}

		if err := c.avancar(ctx, id); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.mu.Lock()
			c.estado = EstadoCarregado
			c.mu.Unlock()
			return err
		}
	}

	c.mu.Lock()
	c.estado = EstadoEncerrado
	c.mu.Unlock()
	return nil
}

func (c *Consumidor) avancar(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.emVoo {
		c.mu.Unlock()
		return ErrTurnoEmVoo
	}
	c.emVoo = true
	c.estado = EstadoAvancando
	persona := c.personaDoTurno()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.emVoo = false
		c.mu.Unlock()
	}()

	var fala strings.Builder
	var ultimaRender time.Time

	err := c.cliente.AvancarTurno(ctx, id, func(evento domain.Evento) error {
		switch evento.Tipo {
		case domain.EventoChunk:
			fala.WriteString(evento.Conteudo)
			if agora := time.Now(); agora.Sub(ultimaRender) >= c.ritmo {
				c.render.FalaParcial(persona, fala.String())
				ultimaRender = agora
			}
			return nil

		case domain.EventoDone:
			mensagem := Mensagem{
				Persona:     string(evento.Persona),
				Conteudo:    fala.String(),
				NumeroTurno: evento.NumeroTurno,
			}
			c.mu.Lock()
			c.snapshot.Mensagens = append(c.snapshot.Mensagens, mensagem)
			c.snapshot.TurnoAtual = evento.NumeroTurno
			if evento.UltimoTurno {
				c.snapshot.Status = string(domain.StatusEncerrado)
			}
			c.estado = EstadoCarregado
			c.mu.Unlock()
			c.render.TurnoConcluido(mensagem, evento.UltimoTurno)
			return nil

		case domain.EventoErro:
			c.render.Falha(evento.Mensagem)
			return fmt.Errorf("%w: %s", ErrGeracaoRemota, evento.Mensagem)

		default:
			return nil
		}
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.estado = EstadoCarregado
	c.mu.Unlock()
	return nil
}

// personaDoTurno projeta quem fala no próximo turno a partir do rodízio da
// escalação; chamada com o mutex já seguro.
func (c *Consumidor) personaDoTurno() Persona {
	if len(c.snapshot.Escalacao) == 0 {
		return Persona{}
	}
	return c.snapshot.Escalacao[c.snapshot.TurnoAtual%len(c.snapshot.Escalacao)]
}
