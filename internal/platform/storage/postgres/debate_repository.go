package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// DebateRepository mapeia o agregado de debate para tabelas GORM.
type DebateRepository struct {
	db *gorm.DB
}

func NewDebateRepository(db *gorm.DB) *DebateRepository {
	return &DebateRepository{db: db}
}

type debateModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Tema         string    `gorm:"column:tema"`
	Status       string    `gorm:"column:status"`
	TotalTurnos  int       `gorm:"column:total_turnos"`
	CriadoEm     time.Time `gorm:"column:criado_em"`
	AtualizadoEm time.Time `gorm:"column:atualizado_em"`
}

func (debateModel) TableName() string {
	return "debates"
}

func (m debateModel) toDomain() domain.Debate {
	return domain.Debate{
		ID:           domain.DebateID(m.ID),
		Tema:         m.Tema,
		Status:       domain.StatusDebate(m.Status),
		TotalTurnos:  m.TotalTurnos,
		CriadoEm:     m.CriadoEm,
		AtualizadoEm: m.AtualizadoEm,
	}
}

func fromDomainDebate(d domain.Debate) debateModel {
	return debateModel{
		ID:           string(d.ID),
		Tema:         d.Tema,
		Status:       string(d.Status),
		TotalTurnos:  d.TotalTurnos,
		CriadoEm:     d.CriadoEm,
		AtualizadoEm: d.AtualizadoEm,
	}
}

// Create grava o debate e a escalação na mesma transação: um rollback no
// meio não pode deixar um debate sem rodízio visível.
func (r *DebateRepository) Create(ctx context.Context, d domain.Debate, escalados []domain.Escalado) error {
	model := fromDomainDebate(d)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if len(escalados) == 0 {
			return nil
		}
		escalacao := make([]escaladoModel, len(escalados))
		for i, e := range escalados {
			if e.DebateID == "" {
				e.DebateID = d.ID
			}
			escalacao[i] = fromDomainEscalado(e)
		}
		return tx.Create(&escalacao).Error
	})
	if err != nil {
		return fmt.Errorf("gorm debates: inserir: %w", err)
	}
	return nil
}

func (r *DebateRepository) FindByID(ctx context.Context, id domain.DebateID) (domain.Debate, error) {
	var model debateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Debate{}, domain.ErrNotFound
		}
		return domain.Debate{}, fmt.Errorf("gorm debates: buscar id: %w", err)
	}
	return model.toDomain(), nil
}

var _ domain.DebateRepository = (*DebateRepository)(nil)
