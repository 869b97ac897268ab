package debating

import (
	"github.com/marcelojr/debate-arena/internal/domain"
)

// Turno é o resultado do sequenciamento: quem fala, que número recebe e se
// o debate termina com essa fala.
type Turno struct {
	Persona domain.PersonaChave
	Numero  int
	Ultimo  bool
}

// ProximoTurno decide o próximo turno a partir da quantidade de mensagens já
// persistidas (k) e da escalação fixa. Determinística e sem efeito: o mesmo k
// sempre aponta para a mesma persona (escalacao[k % 3]), então requisições
// repetidas não desalinham o rodízio — a exclusividade do turno fica por
// conta da persistência. Pré-condição do chamador: k < totalTurnos.
func ProximoTurno(mensagens int, escalacao []domain.PersonaChave, totalTurnos int) Turno {
	numero := mensagens + 1
	return Turno{
		Persona: escalacao[mensagens%len(escalacao)],
		Numero:  numero,
		Ultimo:  numero >= totalTurnos,
	}
}
