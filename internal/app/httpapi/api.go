// Pacote httpapi expõe os handlers REST e o stream de eventos do debate.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/marcelojr/debate-arena/internal/app/debating"
	"github.com/marcelojr/debate-arena/internal/app/personas"
	"github.com/marcelojr/debate-arena/internal/domain"
	"github.com/marcelojr/debate-arena/internal/platform/antifraude"
)

// API empacota handlers HTTP ligados ao serviço de debate e ao logger.
type API struct {
	service domain.DebateService
	logger  *slog.Logger
}

func New(service domain.DebateService, logger *slog.Logger) *API {
	return &API{service: service, logger: logger}
}

func (a *API) Register(mux *http.ServeMux) {
	// Mantemos as rotas centralizadas para facilitar testes e reuso em servidores diferentes.
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/debates", a.handleDebates)
	mux.HandleFunc("/debates/", a.handleDebateSubrotas)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *API) handleDebates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}
	a.criarDebate(w, r)
}

func (a *API) handleDebateSubrotas(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/debates/")
	partes := strings.Split(path, "/")
	if len(partes) == 0 || partes[0] == "" {
		http.NotFound(w, r)
		return
	}

	id := domain.DebateID(partes[0])

	switch {
	case len(partes) == 1 && r.Method == http.MethodGet:
		a.obterDebate(w, r, id)
	case len(partes) == 2 && partes[1] == "avancar" && r.Method == http.MethodPost:
		a.avancarTurno(w, r, id)
	case len(partes) == 2 && partes[1] == "resumo" && r.Method == http.MethodGet:
		a.obterResumo(w, r, id)
	case len(partes) == 2 && partes[1] == "votos" && r.Method == http.MethodPost:
		a.registrarVoto(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

type criarDebateRequest struct {
	Tema        string `json:"tema"`
	TotalTurnos int    `json:"total_turnos"`
}

func (a *API) criarDebate(w http.ResponseWriter, r *http.Request) {
	var req criarDebateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn("payload invalido ao criar debate", "err", err)
		responderErro(w, errors.New("payload invalido"), http.StatusBadRequest)
		return
	}

	origem := domain.Acao{OrigemIP: votanteFingerprint(r)}
	detalhes, err := a.service.CriarDebate(r.Context(), req.Tema, req.TotalTurnos, origem)
	if err != nil {
		a.logger.Warn("falha ao criar debate", "err", err, "tema", req.Tema)
		responderErro(w, err, 0)
		return
	}

	a.logger.Info("debate criado", "debate", detalhes.Debate.ID, "turnos", detalhes.Debate.TotalTurnos)
	responderJSON(w, http.StatusCreated, makeDebateView(detalhes))
}

func (a *API) obterDebate(w http.ResponseWriter, r *http.Request, id domain.DebateID) {
	detalhes, err := a.service.ObterDebate(r.Context(), id)
	if err != nil {
		a.logger.Warn("falha ao obter debate", "err", err, "debate", id)
		responderErro(w, err, 0)
		return
	}

	responderJSON(w, http.StatusOK, makeDebateView(detalhes))
}

// avancarTurno abre o stream de eventos do turno. Pré-condições reprovadas
// voltam como JSON comum antes de qualquer cabeçalho de stream; depois que o
// stream abre, falhas viram um único evento error dentro dele.
func (a *API) avancarTurno(w http.ResponseWriter, r *http.Request, id domain.DebateID) {
	eventos, err := a.service.AvancarTurno(r.Context(), id)
	if err != nil {
		a.logger.Warn("avanco de turno recusado", "err", err, "debate", id)
		responderErro(w, err, 0)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		// Sem flush incremental não há stream; ainda precisamos drenar o canal
		// para o produtor terminar e persistir o turno.
		for range eventos {
		}
		responderErro(w, errors.New("streaming nao suportado"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	escrevendo := true
	for evento := range eventos {
		if !escrevendo {
			continue
		}
		corpo, err := json.Marshal(evento)
		if err != nil {
			a.logger.Error("falha ao serializar evento do stream", "err", err, "debate", id)
			continue
		}
		if _, err := w.Write([]byte("data: " + string(corpo) + "\n\n")); err != nil {
			// Cliente caiu; seguimos drenando sem escrever para o produtor fechar.
			escrevendo = false
			continue
		}
		flusher.Flush()
	}
}

func (a *API) obterResumo(w http.ResponseWriter, r *http.Request, id domain.DebateID) {
	resumo, err := a.service.Resumo(r.Context(), id)
	if err != nil {
		a.logger.Warn("falha ao gerar resumo", "err", err, "debate", id)
		responderErro(w, err, 0)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{"sucesso": true, "resumo": resumo})
}

type votoRequest struct {
	Persona string `json:"persona"`
}

func (a *API) registrarVoto(w http.ResponseWriter, r *http.Request, id domain.DebateID) {
	var req votoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn("payload invalido ao registrar voto", "err", err, "debate", id)
		responderErro(w, errors.New("payload invalido"), http.StatusBadRequest)
		return
	}

	votante := votanteFingerprint(r)
	resultado, err := a.service.RegistrarVoto(r.Context(), id, domain.PersonaChave(req.Persona), votante)
	if err != nil {
		a.logger.Warn("falha ao registrar voto", "err", err, "debate", id, "persona", req.Persona)
		responderErro(w, err, 0)
		return
	}

	a.logger.Info("voto registrado", "debate", id, "persona", req.Persona)
	responderJSON(w, http.StatusOK, makeVotacaoView(resultado))
}

// votanteFingerprint deriva a impressão digital do votante a partir da origem
// da requisição: primeiro endereço do X-Forwarded-For, depois X-Real-IP, e
// por fim o sentinela "unknown".
func votanteFingerprint(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		partes := strings.Split(xf, ",")
		if primeiro := strings.TrimSpace(partes[0]); primeiro != "" {
			return primeiro
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	return "unknown"
}

type debateView struct {
	ID          string         `json:"id"`
	Tema        string         `json:"tema"`
	Status      string         `json:"status"`
	TotalTurnos int            `json:"total_turnos"`
	TurnoAtual  int            `json:"turno_atual"`
	Escalacao   []personaView  `json:"escalacao"`
	Mensagens   []mensagemView `json:"mensagens"`
	CriadoEm    time.Time      `json:"criado_em"`
}

type personaView struct {
	Chave string `json:"chave"`
	Nome  string `json:"nome"`
}

type mensagemView struct {
	ID          string    `json:"id"`
	Persona     string    `json:"persona"`
	Conteudo    string    `json:"conteudo"`
	NumeroTurno int       `json:"numero_turno"`
	CriadoEm    time.Time `json:"criado_em"`
}

type votacaoView struct {
	Sucesso bool             `json:"sucesso"`
	Totais  map[string]int64 `json:"totais"`
	MeuVoto string           `json:"meu_voto"`
}

func makeDebateView(d domain.DebateDetalhes) debateView {
	view := debateView{
		ID:          string(d.Debate.ID),
		Tema:        d.Debate.Tema,
		Status:      string(d.Debate.Status),
		TotalTurnos: d.Debate.TotalTurnos,
		TurnoAtual:  d.TurnoAtual,
		Escalacao:   make([]personaView, 0, len(d.Escalacao)),
		Mensagens:   make([]mensagemView, 0, len(d.Mensagens)),
		CriadoEm:    d.Debate.CriadoEm,
	}
	for _, chave := range d.Escalacao {
		view.Escalacao = append(view.Escalacao, personaView{Chave: string(chave), Nome: personas.Nome(chave)})
	}
	for _, m := range d.Mensagens {
		view.Mensagens = append(view.Mensagens, mensagemView{
			ID:          string(m.ID),
			Persona:     string(m.Persona),
			Conteudo:    m.Conteudo,
			NumeroTurno: m.NumeroTurno,
			CriadoEm:    m.CriadoEm,
		})
	}
	return view
}

func makeVotacaoView(r domain.ResultadoVotacao) votacaoView {
	totais := make(map[string]int64, len(r.Totais))
	for chave, total := range r.Totais {
		totais[string(chave)] = total
	}
	return votacaoView{Sucesso: true, Totais: totais, MeuVoto: string(r.MeuVoto)}
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// responderErro traduz sentinelas para status HTTP e devolve apenas a
// mensagem voltada ao usuário; diagnóstico interno fica no log.
func responderErro(w http.ResponseWriter, err error, status int) {
	if status == 0 {
		status = statusFromError(err)
	}

	mensagem := err.Error()
	if status == http.StatusInternalServerError {
		mensagem = "erro interno"
	}

	responderJSON(w, status, map[string]any{"sucesso": false, "mensagem": mensagem})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, debating.ErrDebateNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, debating.ErrTemaInvalido),
		errors.Is(err, debating.ErrTotalTurnosInvalido),
		errors.Is(err, debating.ErrPersonaDesconhecida),
		errors.Is(err, debating.ErrDebateEncerrado),
		errors.Is(err, debating.ErrTurnosEsgotados),
		errors.Is(err, debating.ErrDebateEmAndamento):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVotoDuplicado),
		errors.Is(err, debating.ErrAvancoEmVoo):
		return http.StatusConflict
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, debating.ErrGeracao),
		errors.Is(err, debating.ErrResumoInvalido):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
