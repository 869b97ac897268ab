package domain

// TipoEvento identifica cada evento do stream de avanço de turno.
type TipoEvento string

const (
	EventoChunk TipoEvento = "chunk"
	EventoDone  TipoEvento = "done"
	EventoErro  TipoEvento = "error"
)

// Evento é a unidade do protocolo de streaming. O mesmo shape JSON circula
// do serviço até o observador; isLastTurn sai em todo done, inclusive false,
// porque o observador decide o reengate do avanço por ele:
//
//	{"type":"chunk","content":"..."}
//	{"type":"done","turnNumber":3,"persona":"logico","isLastTurn":false}
//	{"type":"error","message":"..."}
type Evento struct {
	Tipo        TipoEvento   `json:"type"`
	Conteudo    string       `json:"content,omitempty"`
	NumeroTurno int          `json:"turnNumber,omitempty"`
	Persona     PersonaChave `json:"persona,omitempty"`
	UltimoTurno bool         `json:"isLastTurn"`
	Mensagem    string       `json:"message,omitempty"`
}
