package espectador

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/debate-arena/internal/domain"
)

const streamDeTeste = "data: {\"type\":\"chunk\",\"content\":\"olá \"}\n\n" +
	"data: {\"type\":\"chunk\",\"content\":\"mundo\"}\n\n" +
	"data: {\"type\":\"done\",\"turnNumber\":3,\"persona\":\"logico\",\"isLastTurn\":true}\n\n"

func eventosEsperados() []domain.Evento {
	return []domain.Evento{
		{Tipo: domain.EventoChunk, Conteudo: "olá "},
		{Tipo: domain.EventoChunk, Conteudo: "mundo"},
		{Tipo: domain.EventoDone, NumeroTurno: 3, Persona: "logico", UltimoTurno: true},
	}
}

func TestDecodificador_QuandoStreamInteiro_DeveEmitirTodosOsEventos(t *testing.T) {
	d := &Decodificador{}

	eventos, err := d.Alimentar([]byte(streamDeTeste))

	require.NoError(t, err)
	assert.Equal(t, eventosEsperados(), eventos)
}

func TestDecodificador_QuandoBytesUmAUm_DeveEmitirOsMesmosEventos(t *testing.T) {
	// O corpo chega fatiado em pedaços arbitrários; o pior caso é um byte
	// por vez, que quebra qualquer linha no meio.
	d := &Decodificador{}

	var eventos []domain.Evento
	for _, b := range []byte(streamDeTeste) {
		parte, err := d.Alimentar([]byte{b})
		require.NoError(t, err)
		eventos = append(eventos, parte...)
	}

	assert.Equal(t, eventosEsperados(), eventos)
}

func TestDecodificador_QuandoCortesArbitrarios_DeveEmitirOsMesmosEventos(t *testing.T) {
	for _, tamanho := range []int{2, 3, 7, 16, 61} {
		d := &Decodificador{}

		var eventos []domain.Evento
		bruto := []byte(streamDeTeste)
		for inicio := 0; inicio < len(bruto); inicio += tamanho {
			fim := min(inicio+tamanho, len(bruto))
			parte, err := d.Alimentar(bruto[inicio:fim])
			require.NoError(t, err)
			eventos = append(eventos, parte...)
		}

		assert.Equal(t, eventosEsperados(), eventos, "pedaços de %d bytes", tamanho)
	}
}

func TestDecodificador_QuandoLinhaParcial_DeveSegurarAteFechar(t *testing.T) {
	d := &Decodificador{}

	eventos, err := d.Alimentar([]byte("data: {\"type\":\"chunk\",\"con"))
	require.NoError(t, err)
	assert.Empty(t, eventos)

	eventos, err = d.Alimentar([]byte("tent\":\"oi\"}\n"))
	require.NoError(t, err)
	require.Len(t, eventos, 1)
	assert.Equal(t, "oi", eventos[0].Conteudo)
}

func TestDecodificador_QuandoCRLF_DeveAceitar(t *testing.T) {
	d := &Decodificador{}

	eventos, err := d.Alimentar([]byte("data: {\"type\":\"chunk\",\"content\":\"oi\"}\r\n\r\n"))

	require.NoError(t, err)
	require.Len(t, eventos, 1)
	assert.Equal(t, "oi", eventos[0].Conteudo)
}

func TestDecodificador_QuandoJSONInvalido_DeveFalhar(t *testing.T) {
	d := &Decodificador{}

	_, err := d.Alimentar([]byte("data: {nao-e-json}\n\n"))

	assert.Error(t, err)
}

func TestDecodificador_QuandoLinhaSemPrefixo_DeveIgnorar(t *testing.T) {
	d := &Decodificador{}

	eventos, err := d.Alimentar([]byte(":comentario\n\ndata: {\"type\":\"chunk\",\"content\":\"oi\"}\n\n"))

	require.NoError(t, err)
	require.Len(t, eventos, 1)
}
