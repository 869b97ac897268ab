// Pacote espectador implementa o consumidor do stream de debate: o cliente
// HTTP tipado, o decodificador de eventos e a máquina de estados que assiste
// um debate até o fim.
package espectador

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/marcelojr/debate-arena/internal/domain"
)

const prefixoDados = "data: "

// Decodificador remonta eventos a partir de bytes crus do stream. O corpo
// chega fatiado em pedaços arbitrários pela rede, então o decodificador
// guarda a linha parcial do final e só emite eventos de linhas completas.
type Decodificador struct {
	resto []byte
}

// Alimentar entrega mais bytes do stream e devolve os eventos completos que
// eles fecharam, na ordem de chegada.
func (d *Decodificador) Alimentar(pedaco []byte) ([]domain.Evento, error) {
	d.resto = append(d.resto, pedaco...)

	var eventos []domain.Evento
	for {
		idx := bytes.IndexByte(d.resto, '\n')
		if idx < 0 {
			return eventos, nil
		}

		linha := bytes.TrimRight(d.resto[:idx], "\r")
		d.resto = d.resto[idx+1:]

		if len(linha) == 0 || !bytes.HasPrefix(linha, []byte(prefixoDados)) {
			continue
		}

		var evento domain.Evento
		if err := json.Unmarshal(linha[len(prefixoDados):], &evento); err != nil {
			return eventos, fmt.Errorf("espectador: evento fora do contrato: %w", err)
		}
		eventos = append(eventos, evento)
	}
}
