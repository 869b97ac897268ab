// Pacote gemini adapta a API Generative Language do Google à porta Gerador:
// geração de texto em tiro único e em stream SSE.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marcelojr/debate-arena/internal/domain"
)

const maxRetries = 3

const prefixoDados = "data: "

// Client chama a API REST do Gemini com retry exponencial para falhas
// transitórias na abertura da requisição.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	backoffFunc func(attempt int) time.Duration
}

func defaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func NewClient(apiKey, model string) *Client {
	return NewClientWithBaseURL(apiKey, model, "https://generativelanguage.googleapis.com/v1beta")
}

// NewClientWithBaseURL aceita uma base alternativa (usada nos testes).
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	return &Client{
		httpClient:  &http.Client{},
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		backoffFunc: defaultBackoff,
	}
}

// Gerar envia o prompt e devolve o texto completo de uma vez.
func (c *Client) Gerar(ctx context.Context, prompt string) (string, error) {
	resp, err := c.doWithRetry(ctx, c.model+":generateContent", prompt)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("gemini: decodificar resposta: %w", err)
	}
	return genResp.texto(), nil
}

// GerarStream abre a variante SSE e invoca aoChunk por fragmento não vazio,
// devolvendo o texto completo acumulado. Não há retry depois do primeiro
// byte do stream: repetir a chamada duplicaria fragmentos já repassados.
func (c *Client) GerarStream(ctx context.Context, prompt string, aoChunk func(string)) (string, error) {
	resp, err := c.doWithRetry(ctx, c.model+":streamGenerateContent?alt=sse", prompt)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	var completo strings.Builder

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		linha := scanner.Text()
		if !strings.HasPrefix(linha, prefixoDados) {
			continue
		}

		var genResp generateResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(linha, prefixoDados)), &genResp); err != nil {
			return "", fmt.Errorf("gemini: fragmento invalido: %w", err)
		}

		if texto := genResp.texto(); texto != "" {
			completo.WriteString(texto)
			aoChunk(texto)
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("gemini: ler stream: %w", err)
	}

	return completo.String(), nil
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func (c *Client) doWithRetry(ctx context.Context, endpoint, prompt string) (*http.Response, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffFunc(attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if !isRetryable(resp.StatusCode) {
			return nil, fmt.Errorf("status inesperado %d: %s", resp.StatusCode, string(respBody))
		}

		lastErr = fmt.Errorf("status inesperado %d: %s", resp.StatusCode, string(respBody))
	}
	return nil, lastErr
}

var _ domain.Gerador = (*Client)(nil)
