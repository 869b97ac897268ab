package domain

import (
	"time"
)

type (
	DebateID     string
	MensagemID   string
	VotoID       string
	PersonaChave string
)

// StatusDebate acompanha o ciclo de vida: o debate nasce "ongoing" e vira
// "completed" uma única vez, quando a última mensagem é registrada.
type StatusDebate string

const (
	StatusEmAndamento StatusDebate = "ongoing"
	StatusEncerrado   StatusDebate = "completed"
)

type Debate struct {
	ID           DebateID     `gorm:"column:id;type:char(26);primaryKey"`
	Tema         string       `gorm:"column:tema;type:text;not null"`
	Status       StatusDebate `gorm:"column:status;type:text;not null"`
	TotalTurnos  int          `gorm:"column:total_turnos;not null"`
	Escalados    []Escalado   `gorm:"foreignKey:DebateID;constraint:OnDelete:CASCADE"`
	Mensagens    []Mensagem   `gorm:"foreignKey:DebateID;constraint:OnDelete:CASCADE"`
	Votos        []Voto       `gorm:"foreignKey:DebateID;constraint:OnDelete:CASCADE"`
	CriadoEm     time.Time    `gorm:"column:criado_em;autoCreateTime"`
	AtualizadoEm time.Time    `gorm:"column:atualizado_em;autoUpdateTime"`
}

// Escalado registra a escalação do debate: qual persona ocupa qual posição
// no rodízio de turnos. Sempre três posições (0, 1 e 2) por debate.
type Escalado struct {
	DebateID DebateID     `gorm:"column:debate_id;type:char(26);primaryKey"`
	Posicao  int          `gorm:"column:posicao;primaryKey"`
	Persona  PersonaChave `gorm:"column:persona;type:text;not null"`
	CriadoEm time.Time    `gorm:"column:criado_em;autoCreateTime"`
}

type Mensagem struct {
	ID          MensagemID   `gorm:"column:id;type:char(26);primaryKey"`
	DebateID    DebateID     `gorm:"column:debate_id;type:char(26);not null;uniqueIndex:idx_mensagens_debate_turno,priority:1"`
	Persona     PersonaChave `gorm:"column:persona;type:text;not null"`
	Conteudo    string       `gorm:"column:conteudo;type:text;not null"`
	NumeroTurno int          `gorm:"column:numero_turno;not null;uniqueIndex:idx_mensagens_debate_turno,priority:2"`
	CriadoEm    time.Time    `gorm:"column:criado_em;autoCreateTime"`
}

type Voto struct {
	ID        VotoID       `gorm:"column:id;type:char(26);primaryKey"`
	DebateID  DebateID     `gorm:"column:debate_id;type:char(26);not null;uniqueIndex:idx_votos_debate_votante,priority:1"`
	Persona   PersonaChave `gorm:"column:persona;type:text;not null;index:idx_votos_persona"`
	VotanteIP string       `gorm:"column:votante_ip;type:text;not null;uniqueIndex:idx_votos_debate_votante,priority:2"`
	CriadoEm  time.Time    `gorm:"column:criado_em;autoCreateTime"`
}

// DebateDetalhes é o snapshot completo servido aos observadores: debate,
// escalação e histórico ordenado. TurnoAtual deriva do total de mensagens.
type DebateDetalhes struct {
	Debate     Debate
	Escalacao  []PersonaChave
	Mensagens  []Mensagem
	TurnoAtual int
}

// ResultadoVotacao devolve a apuração por persona e ecoa o voto do chamador.
type ResultadoVotacao struct {
	Totais  map[PersonaChave]int64
	MeuVoto PersonaChave
}

// Acao descreve a origem de uma requisição sujeita a antifraude.
type Acao struct {
	Tipo     string
	DebateID DebateID
	OrigemIP string
}

func (Debate) TableName() string { return "debates" }

func (Escalado) TableName() string { return "debate_personas" }

func (Mensagem) TableName() string { return "mensagens" }

func (Voto) TableName() string { return "votos" }
