package espectador

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// Snapshot é a visão do debate servida pela API, na forma que o consumidor
// usa: escalação com nomes de exibição e histórico ordenado.
type Snapshot struct {
	ID          string     `json:"id"`
	Tema        string     `json:"tema"`
	Status      string     `json:"status"`
	TotalTurnos int        `json:"total_turnos"`
	TurnoAtual  int        `json:"turno_atual"`
	Escalacao   []Persona  `json:"escalacao"`
	Mensagens   []Mensagem `json:"mensagens"`
}

type Persona struct {
	Chave string `json:"chave"`
	Nome  string `json:"nome"`
}

type Mensagem struct {
	Persona     string `json:"persona"`
	Conteudo    string `json:"conteudo"`
	NumeroTurno int    `json:"numero_turno"`
}

type Votacao struct {
	Totais  map[string]int64 `json:"totais"`
	MeuVoto string           `json:"meu_voto"`
}

type respostaErro struct {
	Mensagem string `json:"mensagem"`
}

type respostaResumo struct {
	Resumo map[string]string `json:"resumo"`
}

// Cliente fala com a API do debate por HTTP. Todas as chamadas respeitam o
// contexto recebido; cancelamento interrompe inclusive um stream aberto.
type Cliente struct {
	http    *http.Client
	baseURL string
}

func NewCliente(baseURL string) *Cliente {
	return &Cliente{
		// Sem timeout no client: o stream de turno dura o quanto a geração
		// durar, e o chamador cancela pelo contexto.
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Cliente) CriarDebate(ctx context.Context, tema string, totalTurnos int) (Snapshot, error) {
	corpo, _ := json.Marshal(map[string]any{"tema": tema, "total_turnos": totalTurnos})

	var snapshot Snapshot
	if err := c.fazerJSON(ctx, http.MethodPost, "/debates", corpo, &snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

func (c *Cliente) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	var snapshot Snapshot
	if err := c.fazerJSON(ctx, http.MethodGet, "/debates/"+id, nil, &snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

func (c *Cliente) Votar(ctx context.Context, id, persona string) (Votacao, error) {
	corpo, _ := json.Marshal(map[string]string{"persona": persona})

	var votacao Votacao
	if err := c.fazerJSON(ctx, http.MethodPost, "/debates/"+id+"/votos", corpo, &votacao); err != nil {
		return Votacao{}, err
	}
	return votacao, nil
}

func (c *Cliente) Resumo(ctx context.Context, id string) (map[string]string, error) {
	var resposta respostaResumo
	if err := c.fazerJSON(ctx, http.MethodGet, "/debates/"+id+"/resumo", nil, &resposta); err != nil {
		return nil, err
	}
	return resposta.Resumo, nil
}

// AvancarTurno abre o stream do próximo turno e invoca aoEvento para cada
// evento recebido, na ordem. Devolve depois que o servidor fecha o stream ou
// quando aoEvento retorna erro.
func (c *Cliente) AvancarTurno(ctx context.Context, id string, aoEvento func(domain.Evento) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/debates/"+id+"/avancar", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return lerErro(resp)
	}

	decodificador := &Decodificador{}
	pedaco := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(pedaco)
		if n > 0 {
			eventos, decErr := decodificador.Alimentar(pedaco[:n])
			for _, evento := range eventos {
				if cbErr := aoEvento(evento); cbErr != nil {
					return cbErr
				}
			}
			if decErr != nil {
				return decErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (c *Cliente) fazerJSON(ctx context.Context, metodo, rota string, corpo []byte, destino any) error {
	var leitor io.Reader
	if corpo != nil {
		leitor = bytes.NewReader(corpo)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, c.baseURL+rota, leitor)
	if err != nil {
		return err
	}
	if corpo != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ctxReq, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req = req.WithContext(ctxReq)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return lerErro(resp)
	}

	return json.NewDecoder(resp.Body).Decode(destino)
}

func lerErro(resp *http.Response) error {
	var payload respostaErro
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Mensagem == "" {
		return fmt.Errorf("espectador: resposta %d da API", resp.StatusCode)
	}
	return fmt.Errorf("espectador: %s (status %d)", payload.Mensagem, resp.StatusCode)
}
