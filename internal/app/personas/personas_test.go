package personas

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/marcelojr/debate-arena/internal/domain"
)

func TestSortearEscalaTresDistintas(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		escalacao := Sortear(r)
		if len(escalacao) != TamanhoEscalacao {
			t.Fatalf("esperava %d personas, veio %d", TamanhoEscalacao, len(escalacao))
		}

		vistas := map[domain.PersonaChave]bool{}
		for _, chave := range escalacao {
			if !Valida(chave) {
				t.Fatalf("persona sorteada desconhecida: %q", chave)
			}
			if vistas[chave] {
				t.Fatalf("persona %q sorteada duas vezes na mesma escalação", chave)
			}
			vistas[chave] = true
		}
	}
}

func TestBuscarENome(t *testing.T) {
	p, ok := Buscar("logico")
	if !ok {
		t.Fatal("persona logico deveria existir")
	}
	if p.Nome != "Doutor Planilha" {
		t.Fatalf("nome incorreto: %q", p.Nome)
	}

	if _, ok := Buscar("inexistente"); ok {
		t.Fatal("persona inexistente não deveria ser encontrada")
	}
	if Nome("inexistente") != "inexistente" {
		t.Fatal("Nome de chave desconhecida deveria ecoar a chave")
	}
}

func TestMontarPromptSemHistorico(t *testing.T) {
	prompt := MontarPrompt("logico", "pizza com abacaxi", nil)

	if !strings.Contains(prompt, SentinelaSemHistorico) {
		t.Fatal("prompt sem histórico deveria conter a sentinela de abertura")
	}
	if !strings.Contains(prompt, "pizza com abacaxi") {
		t.Fatal("prompt deveria conter o tema")
	}
	if !strings.Contains(prompt, "Doutor Planilha") {
		t.Fatal("prompt deveria conter o bloco de voz da persona")
	}
	if !strings.Contains(prompt, "3 a 5 frases") {
		t.Fatal("prompt deveria conter as diretrizes de resposta")
	}
}

func TestMontarPromptComHistoricoNaOrdem(t *testing.T) {
	historico := []domain.Mensagem{
		{Persona: "logico", Conteudo: "os dados dizem que não"},
		{Persona: "empata", Conteudo: "mas pensa nas pessoas"},
	}

	prompt := MontarPrompt("rebelde", "tema", historico)

	if strings.Contains(prompt, SentinelaSemHistorico) {
		t.Fatal("com histórico, a sentinela de abertura não deveria aparecer")
	}

	primeira := strings.Index(prompt, "Doutor Planilha: os dados dizem que não")
	segunda := strings.Index(prompt, "Dona Abraço: mas pensa nas pessoas")
	if primeira < 0 || segunda < 0 {
		t.Fatal("todas as falas deveriam aparecer com o nome de exibição")
	}
	if primeira > segunda {
		t.Fatal("o histórico deveria manter a ordem original das falas")
	}
}

func TestMontarPromptResumo(t *testing.T) {
	escalacao := []domain.PersonaChave{"logico", "empata", "rebelde"}
	historico := []domain.Mensagem{{Persona: "logico", Conteudo: "fala"}}

	prompt := MontarPromptResumo("tema", escalacao, historico)

	for _, nome := range []string{"Doutor Planilha", "Dona Abraço", "Do Contra"} {
		if !strings.Contains(prompt, nome) {
			t.Fatalf("esqueleto JSON deveria conter %q", nome)
		}
	}
	if !strings.Contains(prompt, "Responda somente com o JSON") {
		t.Fatal("prompt deveria exigir resposta só com JSON")
	}
}
