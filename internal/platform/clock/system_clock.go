// Pacote clock isola a leitura de tempo atrás da porta domain.Clock.
package clock

import "time"

type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Agora() time.Time {
	return time.Now().UTC()
}

// Fixo devolve sempre o mesmo instante; útil em testes.
type Fixo struct {
	Instante time.Time
}

func (f Fixo) Agora() time.Time {
	return f.Instante
}
