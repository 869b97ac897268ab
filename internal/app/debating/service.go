// Pacote debating implementa as regras do debate: criação, avanço de turno
// com streaming, resumo e votação.
package debating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/marcelojr/debate-arena/internal/app/personas"
	"github.com/marcelojr/debate-arena/internal/domain"
	"github.com/marcelojr/debate-arena/internal/platform/ids"
	"github.com/marcelojr/debate-arena/internal/platform/logger"
	"github.com/marcelojr/debate-arena/internal/platform/metrics"
)

var (
	ErrTemaInvalido        = errors.New("tema do debate obrigatorio")
	ErrTotalTurnosInvalido = errors.New("total de turnos deve ser 6, 9 ou 12")
	ErrDebateNaoEncontrado = errors.New("debate nao encontrado")
	ErrDebateEncerrado     = errors.New("debate ja encerrado")
	ErrTurnosEsgotados     = errors.New("todos os turnos ja foram gerados")
	ErrDebateEmAndamento   = errors.New("debate ainda em andamento")
	ErrPersonaDesconhecida = errors.New("persona invalida para este debate")
	ErrAvancoEmVoo         = errors.New("avanco de turno ja em andamento para o debate")
	ErrGeracao             = errors.New("falha na geracao de texto")
	ErrResumoInvalido      = errors.New("resumo gerado em formato invalido")
)

// TurnosPermitidos é o conjunto fechado de totais aceitos. Fechado de
// propósito: o prompt carrega o histórico inteiro, então o teto de turnos é
// o que limita o tamanho do prompt.
var TurnosPermitidos = []int{6, 9, 12}

// Service concentra as regras do debate e delega persistência, geração e
// exclusão mútua às portas injetadas.
type Service struct {
	debates    domain.DebateRepository
	escalacoes domain.EscalacaoRepository
	mensagens  domain.MensagemRepository
	votos      domain.VotoRepository
	contador   domain.Contador
	gerador    domain.Gerador
	trava      domain.Trava
	antifraude domain.Antifraude
	clock      domain.Clock
	ids        *ids.Generator

	// Sorteio da escalação compartilha um gerador protegido, no mesmo molde
	// do ids.Generator.
	sorteioMu sync.Mutex
	sorteio   *rand.Rand
}

func NewService(
	debates domain.DebateRepository,
	escalacoes domain.EscalacaoRepository,
	mensagens domain.MensagemRepository,
	votos domain.VotoRepository,
	contador domain.Contador,
	gerador domain.Gerador,
	trava domain.Trava,
	antifraude domain.Antifraude,
	clock domain.Clock,
	idsGen *ids.Generator,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{
		debates:    debates,
		escalacoes: escalacoes,
		mensagens:  mensagens,
		votos:      votos,
		contador:   contador,
		gerador:    gerador,
		trava:      trava,
		antifraude: antifraude,
		clock:      clock,
		ids:        idsGen,
		sorteio:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CriarDebate valida tema e total de turnos, sorteia a escalação e grava o
// debate já em andamento.
func (s *Service) CriarDebate(ctx context.Context, tema string, totalTurnos int, origem domain.Acao) (domain.DebateDetalhes, error) {
	tema = strings.TrimSpace(tema)
	if tema == "" {
		return domain.DebateDetalhes{}, ErrTemaInvalido
	}
	if !slices.Contains(TurnosPermitidos, totalTurnos) {
		return domain.DebateDetalhes{}, ErrTotalTurnosInvalido
	}

	if s.antifraude != nil {
		origem.Tipo = "criar_debate"
		if err := s.antifraude.Validar(ctx, origem); err != nil {
			return domain.DebateDetalhes{}, err
		}
	}

	agora := s.clock.Agora()
	debate := domain.Debate{
		ID:           domain.DebateID(s.ids.New()),
		Tema:         tema,
		Status:       domain.StatusEmAndamento,
		TotalTurnos:  totalTurnos,
		CriadoEm:     agora,
		AtualizadoEm: agora,
	}

	s.sorteioMu.Lock()
	escalacao := personas.Sortear(s.sorteio)
	s.sorteioMu.Unlock()

	escalados := make([]domain.Escalado, len(escalacao))
	for i, chave := range escalacao {
		escalados[i] = domain.Escalado{
			DebateID: debate.ID,
			Posicao:  i,
			Persona:  chave,
			CriadoEm: agora,
		}
	}

	// Debate e escalação entram na mesma transação: um debate sem escalação
	// não tem rodízio e nunca pode ficar visível.
	if err := s.debates.Create(ctx, debate, escalados); err != nil {
		return domain.DebateDetalhes{}, err
	}

	metrics.IncDebateCriado()
	return domain.DebateDetalhes{
		Debate:    debate,
		Escalacao: escalacao,
		Mensagens: []domain.Mensagem{},
	}, nil
}

// ObterDebate devolve o snapshot completo usado pelo observador para entrar
// numa sessão: debate, escalação e histórico em ordem de turno.
func (s *Service) ObterDebate(ctx context.Context, id domain.DebateID) (domain.DebateDetalhes, error) {
	debate, err := s.buscarDebate(ctx, id)
	if err != nil {
		return domain.DebateDetalhes{}, err
	}

	escalacao, err := s.buscarEscalacao(ctx, id)
	if err != nil {
		return domain.DebateDetalhes{}, err
	}

	mensagens, err := s.mensagens.ListByDebate(ctx, id)
	if err != nil {
		return domain.DebateDetalhes{}, err
	}

	return domain.DebateDetalhes{
		Debate:     debate,
		Escalacao:  escalacao,
		Mensagens:  mensagens,
		TurnoAtual: len(mensagens),
	}, nil
}

// AvancarTurno gera a próxima fala do debate e devolve o canal de eventos do
// turno. As pré-condições são checadas de forma síncrona, antes de qualquer
// chamada ao gerador; falhas aqui voltam como erro e nenhum stream é aberto.
//
// Com as pré-condições aceitas, o fluxo roda em goroutine própria: cada
// fragmento do gerador vira um evento chunk, e ao final a mensagem completa
// é persistida exatamente uma vez (junto com a virada de status quando é o
// último turno, na mesma transação). O canal termina com um único done ou
// error e é sempre fechado.
//
// Política de abandono: o contexto do chamador atravessa a geração, então um
// observador que desconecta no meio cancela a chamada ao gerador e nada é
// persistido. Uma geração que já terminou é persistida mesmo sem observador.
//
// A trava por debate segura o intervalo inteiro ler-estado → inserir. As
// checagens antes da trava são só um atalho barato para recusar pedidos
// inválidos sem disputar o cadeado; o estado que vale é relido depois de
// Adquirir, porque entre a leitura solta e a aquisição outro avanço pode ter
// registrado o último turno. O índice único (debate, turno) segue como
// última linha de defesa.
func (s *Service) AvancarTurno(ctx context.Context, id domain.DebateID) (<-chan domain.Evento, error) {
	debate, err := s.buscarDebate(ctx, id)
	if err != nil {
		metrics.ObserveTurno("not_found")
		return nil, err
	}
	if debate.Status != domain.StatusEmAndamento {
		metrics.ObserveTurno("encerrado")
		return nil, ErrDebateEncerrado
	}

	quantidade, err := s.mensagens.CountByDebate(ctx, id)
	if err != nil {
		return nil, err
	}
	if int(quantidade) >= debate.TotalTurnos {
		metrics.ObserveTurno("esgotado")
		return nil, ErrTurnosEsgotados
	}

	ok, err := s.trava.Adquirir(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("debating: adquirir trava: %w", err)
	}
	if !ok {
		metrics.ObserveTurno("em_voo")
		return nil, ErrAvancoEmVoo
	}

	// Daqui em diante o estado lido é o que decide: as leituras de antes da
	// trava podem estar velhas.
	debate, err = s.buscarDebate(ctx, id)
	if err != nil {
		s.liberarTrava(ctx, id)
		return nil, err
	}
	if debate.Status != domain.StatusEmAndamento {
		s.liberarTrava(ctx, id)
		metrics.ObserveTurno("encerrado")
		return nil, ErrDebateEncerrado
	}

	escalacao, err := s.buscarEscalacao(ctx, id)
	if err != nil {
		s.liberarTrava(ctx, id)
		return nil, err
	}
	historico, err := s.mensagens.ListByDebate(ctx, id)
	if err != nil {
		s.liberarTrava(ctx, id)
		return nil, err
	}
	if len(historico) >= debate.TotalTurnos {
		s.liberarTrava(ctx, id)
		metrics.ObserveTurno("esgotado")
		return nil, ErrTurnosEsgotados
	}

	turno := ProximoTurno(len(historico), escalacao, debate.TotalTurnos)
	prompt := personas.MontarPrompt(turno.Persona, debate.Tema, historico)

	eventos := make(chan domain.Evento, 16)
	go s.executarTurno(ctx, debate, turno, prompt, eventos)
	return eventos, nil
}

func (s *Service) executarTurno(ctx context.Context, debate domain.Debate, turno Turno, prompt string, eventos chan<- domain.Evento) {
	defer close(eventos)
	defer s.liberarTrava(ctx, debate.ID)

	inicio := time.Now()

	completo, err := s.gerador.GerarStream(ctx, prompt, func(chunk string) {
		metrics.IncChunkEmitido()
		eventos <- domain.Evento{Tipo: domain.EventoChunk, Conteudo: chunk}
	})
	if err != nil {
		if ctx.Err() != nil {
			// Observador foi embora; não há quem receber um evento de erro.
			metrics.ObserveTurno("cancelado")
			return
		}
		logger.Error("geracao do turno falhou", "debate", debate.ID, "turno", turno.Numero, "err", err)
		metrics.ObserveTurno("erro_geracao")
		eventos <- domain.Evento{Tipo: domain.EventoErro, Mensagem: "não foi possível gerar a fala agora"}
		return
	}

	mensagem := domain.Mensagem{
		ID:          domain.MensagemID(s.ids.New()),
		DebateID:    debate.ID,
		Persona:     turno.Persona,
		Conteudo:    completo,
		NumeroTurno: turno.Numero,
		CriadoEm:    s.clock.Agora(),
	}

	// A geração terminou inteira: a persistência não depende mais do
	// observador continuar conectado.
	if err := s.mensagens.RegistrarTurno(context.WithoutCancel(ctx), mensagem, turno.Ultimo); err != nil {
		logger.Error("persistencia do turno falhou", "debate", debate.ID, "turno", turno.Numero, "err", err)
		metrics.ObserveTurno("erro_persistencia")
		eventos <- domain.Evento{Tipo: domain.EventoErro, Mensagem: "não foi possível registrar a fala"}
		return
	}

	metrics.ObserveTurno("ok")
	metrics.ObserveGeracao(time.Since(inicio).Seconds())
	eventos <- domain.Evento{
		Tipo:        domain.EventoDone,
		NumeroTurno: turno.Numero,
		Persona:     turno.Persona,
		UltimoTurno: turno.Ultimo,
	}
}

// Resumo pede ao gerador um fechamento por persona. Só debates encerrados
// têm resumo; saída fora do contrato JSON é erro, nunca adivinhada.
func (s *Service) Resumo(ctx context.Context, id domain.DebateID) (map[string]string, error) {
	debate, err := s.buscarDebate(ctx, id)
	if err != nil {
		return nil, err
	}
	if debate.Status != domain.StatusEncerrado {
		return nil, ErrDebateEmAndamento
	}

	escalacao, err := s.buscarEscalacao(ctx, id)
	if err != nil {
		return nil, err
	}
	historico, err := s.mensagens.ListByDebate(ctx, id)
	if err != nil {
		return nil, err
	}

	bruto, err := s.gerador.Gerar(ctx, personas.MontarPromptResumo(debate.Tema, escalacao, historico))
	if err != nil {
		logger.Error("geracao do resumo falhou", "debate", id, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrGeracao, err)
	}

	resumo := map[string]string{}
	if err := json.Unmarshal([]byte(limparCercas(bruto)), &resumo); err != nil {
		logger.Error("resumo fora do contrato JSON", "debate", id, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrResumoInvalido, err)
	}
	return resumo, nil
}

// RegistrarVoto aceita um voto por impressão digital de votante em debates
// encerrados e devolve a apuração atualizada.
func (s *Service) RegistrarVoto(ctx context.Context, id domain.DebateID, persona domain.PersonaChave, votanteIP string) (domain.ResultadoVotacao, error) {
	if !personas.Valida(persona) {
		metrics.ObserveVoto("invalido")
		return domain.ResultadoVotacao{}, ErrPersonaDesconhecida
	}

	debate, err := s.buscarDebate(ctx, id)
	if err != nil {
		metrics.ObserveVoto("not_found")
		return domain.ResultadoVotacao{}, err
	}
	if debate.Status != domain.StatusEncerrado {
		metrics.ObserveVoto("em_andamento")
		return domain.ResultadoVotacao{}, ErrDebateEmAndamento
	}

	escalacao, err := s.buscarEscalacao(ctx, id)
	if err != nil {
		return domain.ResultadoVotacao{}, err
	}
	if !slices.Contains(escalacao, persona) {
		metrics.ObserveVoto("invalido")
		return domain.ResultadoVotacao{}, ErrPersonaDesconhecida
	}

	if s.antifraude != nil {
		acao := domain.Acao{Tipo: "voto", DebateID: id, OrigemIP: votanteIP}
		if err := s.antifraude.Validar(ctx, acao); err != nil {
			metrics.ObserveVoto("rate_limited")
			return domain.ResultadoVotacao{}, err
		}
	}

	voto := domain.Voto{
		ID:        domain.VotoID(s.ids.New()),
		DebateID:  id,
		Persona:   persona,
		VotanteIP: votanteIP,
		CriadoEm:  s.clock.Agora(),
	}
	if err := s.votos.Registrar(ctx, voto); err != nil {
		if errors.Is(err, domain.ErrVotoDuplicado) {
			metrics.ObserveVoto("duplicado")
		}
		return domain.ResultadoVotacao{}, err
	}

	if s.contador != nil {
		// Cache de apuração; a contagem oficial sai do Postgres logo abaixo.
		_, _ = s.contador.Incrementar(ctx, ChaveContadorPersona(id, persona), 1)
		_, _ = s.contador.Incrementar(ctx, ChaveContadorTotal(id), 1)
	}

	totais, err := s.votos.TotalPorPersona(ctx, id)
	if err != nil {
		return domain.ResultadoVotacao{}, err
	}
	for _, chave := range escalacao {
		if _, ok := totais[chave]; !ok {
			totais[chave] = 0
		}
	}

	metrics.ObserveVoto("aceito")
	return domain.ResultadoVotacao{Totais: totais, MeuVoto: persona}, nil
}

func (s *Service) buscarDebate(ctx context.Context, id domain.DebateID) (domain.Debate, error) {
	debate, err := s.debates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Debate{}, ErrDebateNaoEncontrado
		}
		return domain.Debate{}, err
	}
	return debate, nil
}

func (s *Service) buscarEscalacao(ctx context.Context, id domain.DebateID) ([]domain.PersonaChave, error) {
	escalados, err := s.escalacoes.ListByDebate(ctx, id)
	if err != nil {
		return nil, err
	}
	escalacao := make([]domain.PersonaChave, len(escalados))
	for i, e := range escalados {
		escalacao[i] = e.Persona
	}
	return escalacao, nil
}

func (s *Service) liberarTrava(ctx context.Context, id domain.DebateID) {
	// A liberação precisa acontecer mesmo com o contexto do pedido cancelado.
	if err := s.trava.Liberar(context.WithoutCancel(ctx), id); err != nil {
		logger.Error("falha ao liberar trava do debate", "debate", id, "err", err)
	}
}

// limparCercas remove cercas de código que o gerador costuma colocar em
// volta do JSON do resumo.
func limparCercas(bruto string) string {
	bruto = strings.ReplaceAll(bruto, "```json", "")
	bruto = strings.ReplaceAll(bruto, "```", "")
	return strings.TrimSpace(bruto)
}

var _ domain.DebateService = (*Service)(nil)
