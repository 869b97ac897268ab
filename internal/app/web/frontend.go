package web

// Pacote web centraliza a camada de apresentação HTML (SSR) do debate.

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/marcelojr/debate-arena/internal/app/debating"
	"github.com/marcelojr/debate-arena/internal/app/personas"
	"github.com/marcelojr/debate-arena/internal/domain"
	"github.com/marcelojr/debate-arena/internal/platform/antifraude"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Frontend renderiza as telas de criação e de acompanhamento do debate. O
// acompanhamento ao vivo roda no navegador, consumindo o mesmo stream da API.
type Frontend struct {
	templates *template.Template
	service   domain.DebateService
}

// New carrega os templates embutidos e registra as dependências necessárias.
func New(service domain.DebateService) (*Frontend, error) {
	if service == nil {
		return nil, fmt.Errorf("frontend: serviço de debate inexistente")
	}
	tmpl, err := template.ParseFS(templateFS,
		"templates/layout.gohtml",
		"templates/criar.gohtml",
		"templates/assistir.gohtml",
	)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{"criar_body", "assistir_body", "layout"} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("frontend: template %s não encontrado", name)
		}
	}

	return &Frontend{templates: tmpl, service: service}, nil
}

// Register expõe as rotas HTML na mesma mux da API.
func (f *Frontend) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", f.handleRoot)
	mux.HandleFunc("/criar", f.handleCriar)
	mux.HandleFunc("/assistir", f.handleAssistir)
}

func (f *Frontend) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/criar", http.StatusFound)
}

func (f *Frontend) handleCriar(w http.ResponseWriter, r *http.Request) {
	data := criarPageData{Turnos: debating.TurnosPermitidos}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			data.Error = "Não consegui ler os dados enviados. Tente novamente."
		} else {
			tema := strings.TrimSpace(r.FormValue("tema"))
			totalTurnos, _ := strconv.Atoi(r.FormValue("total_turnos"))

			detalhes, err := f.service.CriarDebate(r.Context(), tema, totalTurnos, domain.Acao{OrigemIP: clientIP(r)})
			if err != nil {
				data.Error = translateDebateError(err)
			} else {
				http.Redirect(w, r, "/assistir?debate_id="+string(detalhes.Debate.ID), http.StatusSeeOther)
				return
			}
		}
	}

	data.Tema = r.FormValue("tema")
	f.render(w, "criar_body", data)
}

func (f *Frontend) handleAssistir(w http.ResponseWriter, r *http.Request) {
	id := domain.DebateID(strings.TrimSpace(r.URL.Query().Get("debate_id")))
	data := assistirPageData{}

	if id == "" {
		data.Error = "Informe qual debate deseja assistir."
		f.render(w, "assistir_body", data)
		return
	}

	detalhes, err := f.service.ObterDebate(r.Context(), id)
	if err != nil {
		data.Error = translateDebateError(err)
		f.render(w, "assistir_body", data)
		return
	}

	data.ID = string(detalhes.Debate.ID)
	data.Tema = detalhes.Debate.Tema
	data.Status = string(detalhes.Debate.Status)
	data.TotalTurnos = detalhes.Debate.TotalTurnos
	data.TurnoAtual = detalhes.TurnoAtual
	for _, chave := range detalhes.Escalacao {
		data.Escalacao = append(data.Escalacao, personaView{Chave: string(chave), Nome: personas.Nome(chave)})
	}
	for _, m := range detalhes.Mensagens {
		data.Mensagens = append(data.Mensagens, mensagemView{
			Nome:        personas.Nome(m.Persona),
			Conteudo:    m.Conteudo,
			NumeroTurno: m.NumeroTurno,
		})
	}

	f.render(w, "assistir_body", data)
}

func (f *Frontend) render(w http.ResponseWriter, tmpl string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var content strings.Builder
	if err := f.templates.ExecuteTemplate(&content, tmpl, data); err != nil {
		http.Error(w, "erro ao montar a página", http.StatusInternalServerError)
		return
	}

	page := struct {
		Title   string
		Content template.HTML
	}{
		Title:   pageTitle(tmpl),
		Content: template.HTML(content.String()),
	}

	if err := f.templates.ExecuteTemplate(w, "layout", page); err != nil {
		http.Error(w, "erro ao renderizar página", http.StatusInternalServerError)
	}
}

func pageTitle(body string) string {
	switch body {
	case "criar_body":
		return "Novo debate"
	case "assistir_body":
		return "Debate ao vivo"
	default:
		return "Arena de Debates"
	}
}

type criarPageData struct {
	Turnos []int
	Tema   string
	Error  string
}

type assistirPageData struct {
	ID          string
	Tema        string
	Status      string
	TotalTurnos int
	TurnoAtual  int
	Escalacao   []personaView
	Mensagens   []mensagemView
	Error       string
}

type personaView struct {
	Chave string
	Nome  string
}

type mensagemView struct {
	Nome        string
	Conteudo    string
	NumeroTurno int
}

func translateDebateError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, debating.ErrTemaInvalido):
		return "Escreva um tema para o debate."
	case errors.Is(err, debating.ErrTotalTurnosInvalido):
		return "Escolha 6, 9 ou 12 turnos."
	case errors.Is(err, debating.ErrDebateNaoEncontrado):
		return "Debate não encontrado."
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return "Você atingiu o limite de criações por minuto. Aguarde um instante."
	default:
		return "Não foi possível completar a operação. Tente novamente."
	}
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
