package debating

import (
	"fmt"

	"github.com/marcelojr/debate-arena/internal/domain"
)

func ChaveContadorTotal(id domain.DebateID) string {
	return fmt.Sprintf("debate:%s:votos", id)
}

func ChaveContadorPersona(id domain.DebateID, persona domain.PersonaChave) string {
	return fmt.Sprintf("debate:%s:persona:%s", id, persona)
}
