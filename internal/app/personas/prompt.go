package personas

import (
	"fmt"
	"strings"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// SentinelaSemHistorico abre o debate quando ainda não houve nenhuma fala.
const SentinelaSemHistorico = "(Ninguém falou ainda. Você abre o debate.)"

// MontarPrompt compõe o prompt de um turno: bloco de voz da persona, tema,
// histórico completo na ordem original e as diretrizes fixas de resposta.
// Função pura; o histórico nunca é truncado nem reordenado — o crescimento
// linear é limitado pelo conjunto fechado de totais de turno (6/9/12).
func MontarPrompt(chave domain.PersonaChave, tema string, historico []domain.Mensagem) string {
	p := registro[chave]

	texto := SentinelaSemHistorico
	if len(historico) > 0 {
		falas := make([]string, len(historico))
		for i, m := range historico {
			falas[i] = fmt.Sprintf("%s: %s", Nome(m.Persona), m.Conteudo)
		}
		texto = strings.Join(falas, "\n")
	}

	return fmt.Sprintf(`%s

[Tema do debate]
%s

[Conversa até agora]
%s

Continue a conversa acima falando como o seu personagem.
- Responda em português, em tom de conversa.
- Use de 3 a 5 frases, curtas e com impacto.
- Reaja diretamente ao que já foi dito antes.
- Nunca anuncie seu nome nem seu papel. Vá direto ao que quer dizer.`, p.Voz, tema, texto)
}

// MontarPromptResumo pede um resumo por persona em JSON puro, mapeando nome
// de exibição para duas ou três frases.
func MontarPromptResumo(tema string, escalacao []domain.PersonaChave, historico []domain.Mensagem) string {
	falas := make([]string, len(historico))
	for i, m := range historico {
		falas[i] = fmt.Sprintf("%s: %s", Nome(m.Persona), m.Conteudo)
	}

	linhas := make([]string, len(escalacao))
	for i, chave := range escalacao {
		virgula := ","
		if i == len(escalacao)-1 {
			virgula = ""
		}
		linhas[i] = fmt.Sprintf("  %q: \"...\"%s", Nome(chave), virgula)
	}

	return fmt.Sprintf(`O texto abaixo é um debate entre três personas sobre %q.

%s

Resuma o que cada participante defendeu, usando exatamente o formato JSON abaixo.
Cada resumo deve ter de 2 a 3 frases, em português.

{
%s
}

Responda somente com o JSON. Não inclua nenhum outro texto.`, tema, strings.Join(falas, "\n\n"), strings.Join(linhas, "\n"))
}
