package domain

import (
	"context"
	"time"
)

type DebateRepository interface {
	// Create grava o debate e a escalação na mesma transação; um debate sem
	// rodízio nunca fica visível.
	Create(ctx context.Context, d Debate, escalados []Escalado) error
	FindByID(ctx context.Context, id DebateID) (Debate, error)
}

type EscalacaoRepository interface {
	ListByDebate(ctx context.Context, debateID DebateID) ([]Escalado, error)
}

type MensagemRepository interface {
	// RegistrarTurno insere a mensagem e, quando encerrar=true, muda o status
	// do debate para encerrado na mesma transação. Os dois efeitos nunca
	// podem ser observados separadamente.
	RegistrarTurno(ctx context.Context, m Mensagem, encerrar bool) error
	ListByDebate(ctx context.Context, debateID DebateID) ([]Mensagem, error)
	CountByDebate(ctx context.Context, debateID DebateID) (int64, error)
}

type VotoRepository interface {
	Registrar(ctx context.Context, voto Voto) error
	TotalPorPersona(ctx context.Context, debateID DebateID) (map[PersonaChave]int64, error)
}

// Gerador é a fronteira com o backend de geração de texto.
type Gerador interface {
	// Gerar devolve o texto completo de uma vez (usado pelo resumo).
	Gerar(ctx context.Context, prompt string) (string, error)
	// GerarStream invoca aoChunk a cada fragmento recebido e devolve o texto
	// completo acumulado ao final.
	GerarStream(ctx context.Context, prompt string, aoChunk func(string)) (string, error)
}

// Trava garante no máximo um avanço de turno em voo por debate.
type Trava interface {
	Adquirir(ctx context.Context, id DebateID) (bool, error)
	Liberar(ctx context.Context, id DebateID) error
}

type Contador interface {
	Incrementar(ctx context.Context, chave string, delta int64) (int64, error)
	Obter(ctx context.Context, chave string) (int64, error)
}

type Antifraude interface {
	Validar(ctx context.Context, acao Acao) error
}

type Clock interface {
	Agora() time.Time
}

// DebateService reúne as operações expostas pela camada HTTP.
type DebateService interface {
	CriarDebate(ctx context.Context, tema string, totalTurnos int, origem Acao) (DebateDetalhes, error)
	ObterDebate(ctx context.Context, id DebateID) (DebateDetalhes, error)
	AvancarTurno(ctx context.Context, id DebateID) (<-chan Evento, error)
	Resumo(ctx context.Context, id DebateID) (map[string]string, error)
	RegistrarVoto(ctx context.Context, id DebateID, persona PersonaChave, votanteIP string) (ResultadoVotacao, error)
}
