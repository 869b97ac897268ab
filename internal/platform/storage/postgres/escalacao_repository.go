package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// EscalacaoRepository lê a escalação de personas de cada debate. A gravação
// acontece junto com o debate, em DebateRepository.Create.
type EscalacaoRepository struct {
	db *gorm.DB
}

func NewEscalacaoRepository(db *gorm.DB) *EscalacaoRepository {
	return &EscalacaoRepository{db: db}
}

type escaladoModel struct {
	DebateID string    `gorm:"column:debate_id;primaryKey"`
	Posicao  int       `gorm:"column:posicao;primaryKey"`
	Persona  string    `gorm:"column:persona"`
	CriadoEm time.Time `gorm:"column:criado_em"`
}

func (escaladoModel) TableName() string {
	return "debate_personas"
}

func (m escaladoModel) toDomain() domain.Escalado {
	return domain.Escalado{
		DebateID: domain.DebateID(m.DebateID),
		Posicao:  m.Posicao,
		Persona:  domain.PersonaChave(m.Persona),
		CriadoEm: m.CriadoEm,
	}
}

func fromDomainEscalado(e domain.Escalado) escaladoModel {
	return escaladoModel{
		DebateID: string(e.DebateID),
		Posicao:  e.Posicao,
		Persona:  string(e.Persona),
		CriadoEm: e.CriadoEm,
	}
}

func (r *EscalacaoRepository) ListByDebate(ctx context.Context, debateID domain.DebateID) ([]domain.Escalado, error) {
	var models []escaladoModel
	if err := r.db.WithContext(ctx).
		// A posição dita o rodízio de turnos; a ordem aqui é contrato.
		Where("debate_id = ?", debateID).
		Order("posicao ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm escalacao: listar: %w", err)
	}

	result := make([]domain.Escalado, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

var _ domain.EscalacaoRepository = (*EscalacaoRepository)(nil)
