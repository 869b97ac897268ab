package debating

import (
	"testing"

	"github.com/marcelojr/debate-arena/internal/domain"
)

func TestProximoTurnoRodizioDeterministico(t *testing.T) {
	escalacao := []domain.PersonaChave{"logico", "empata", "rebelde"}

	casos := []struct {
		mensagens int
		persona   domain.PersonaChave
		numero    int
		ultimo    bool
	}{
		{0, "logico", 1, false},
		{1, "empata", 2, false},
		{2, "rebelde", 3, false},
		{3, "logico", 4, false},
		{4, "empata", 5, false},
		{5, "rebelde", 6, true},
	}

	for _, caso := range casos {
		turno := ProximoTurno(caso.mensagens, escalacao, 6)
		if turno.Persona != caso.persona {
			t.Fatalf("k=%d: esperava persona %q, veio %q", caso.mensagens, caso.persona, turno.Persona)
		}
		if turno.Numero != caso.numero {
			t.Fatalf("k=%d: esperava numero %d, veio %d", caso.mensagens, caso.numero, turno.Numero)
		}
		if turno.Ultimo != caso.ultimo {
			t.Fatalf("k=%d: esperava ultimo=%v, veio %v", caso.mensagens, caso.ultimo, turno.Ultimo)
		}
	}
}

func TestProximoTurnoMesmoKMesmoResultado(t *testing.T) {
	escalacao := []domain.PersonaChave{"poeta", "cetico", "veterano"}

	primeiro := ProximoTurno(4, escalacao, 9)
	segundo := ProximoTurno(4, escalacao, 9)

	if primeiro != segundo {
		t.Fatalf("sequenciamento deveria ser determinístico: %+v != %+v", primeiro, segundo)
	}
}
