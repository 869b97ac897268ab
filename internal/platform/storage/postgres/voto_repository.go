package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// VotoRepository guarda votos e expõe a apuração agregada por persona.
type VotoRepository struct {
	db *gorm.DB
}

func NewVotoRepository(db *gorm.DB) *VotoRepository {
	return &VotoRepository{db: db}
}

type votoModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	DebateID  string    `gorm:"column:debate_id;index"`
	Persona   string    `gorm:"column:persona"`
	VotanteIP string    `gorm:"column:votante_ip"`
	CriadoEm  time.Time `gorm:"column:criado_em"`
}

func (votoModel) TableName() string {
	return "votos"
}

func fromDomainVoto(v domain.Voto) votoModel {
	return votoModel{
		ID:        string(v.ID),
		DebateID:  string(v.DebateID),
		Persona:   string(v.Persona),
		VotanteIP: v.VotanteIP,
		CriadoEm:  v.CriadoEm,
	}
}

// Registrar insere um voto; o índice único (debate, votante) faz a
// deduplicação e o perdedor volta como ErrVotoDuplicado.
func (r *VotoRepository) Registrar(ctx context.Context, voto domain.Voto) error {
	model := fromDomainVoto(voto)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrVotoDuplicado
		}
		return fmt.Errorf("gorm votos: inserir: %w", err)
	}
	return nil
}

func (r *VotoRepository) TotalPorPersona(ctx context.Context, debateID domain.DebateID) (map[domain.PersonaChave]int64, error) {
	type resultado struct {
		Persona string
		Total   int64
	}
	var res []resultado
	if err := r.db.WithContext(ctx).
		Model(&votoModel{}).
		Select("persona as persona, COUNT(*) as total").
		Where("debate_id = ?", debateID).
		Group("persona").
		Scan(&res).Error; err != nil {
		return nil, fmt.Errorf("gorm votos: total por persona: %w", err)
	}

	totais := make(map[domain.PersonaChave]int64, len(res))
	for _, item := range res {
		totais[domain.PersonaChave(item.Persona)] = item.Total
	}
	return totais, nil
}

var _ domain.VotoRepository = (*VotoRepository)(nil)
