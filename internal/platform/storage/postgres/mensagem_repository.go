package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// MensagemRepository guarda as falas do debate e a virada de status terminal.
type MensagemRepository struct {
	db *gorm.DB
}

func NewMensagemRepository(db *gorm.DB) *MensagemRepository {
	return &MensagemRepository{db: db}
}

type mensagemModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	DebateID    string    `gorm:"column:debate_id;index"`
	Persona     string    `gorm:"column:persona"`
	Conteudo    string    `gorm:"column:conteudo"`
	NumeroTurno int       `gorm:"column:numero_turno"`
	CriadoEm    time.Time `gorm:"column:criado_em"`
}

func (mensagemModel) TableName() string {
	return "mensagens"
}

func (m mensagemModel) toDomain() domain.Mensagem {
	return domain.Mensagem{
		ID:          domain.MensagemID(m.ID),
		DebateID:    domain.DebateID(m.DebateID),
		Persona:     domain.PersonaChave(m.Persona),
		Conteudo:    m.Conteudo,
		NumeroTurno: m.NumeroTurno,
		CriadoEm:    m.CriadoEm,
	}
}

func fromDomainMensagem(m domain.Mensagem) mensagemModel {
	return mensagemModel{
		ID:          string(m.ID),
		DebateID:    string(m.DebateID),
		Persona:     string(m.Persona),
		Conteudo:    m.Conteudo,
		NumeroTurno: m.NumeroTurno,
		CriadoEm:    m.CriadoEm,
	}
}

// RegistrarTurno insere a fala e, no último turno, encerra o debate na mesma
// transação — mensagem sem virada de status (ou o contrário) nunca é visível.
// A violação do índice único (debate, turno) volta como ErrTurnoDuplicado:
// é o perdedor de uma corrida de avanço concorrente.
func (r *MensagemRepository) RegistrarTurno(ctx context.Context, m domain.Mensagem, encerrar bool) error {
	model := fromDomainMensagem(m)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if !encerrar {
			return nil
		}
		return tx.Model(&debateModel{}).
			Where("id = ?", model.DebateID).
			Updates(map[string]any{
				"status":        string(domain.StatusEncerrado),
				"atualizado_em": m.CriadoEm,
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrTurnoDuplicado
		}
		return fmt.Errorf("gorm mensagens: registrar turno: %w", err)
	}
	return nil
}

func (r *MensagemRepository) ListByDebate(ctx context.Context, debateID domain.DebateID) ([]domain.Mensagem, error) {
	var models []mensagemModel
	if err := r.db.WithContext(ctx).
		// Ordem de turno é a ordem da conversa; o prompt depende dela.
		Where("debate_id = ?", debateID).
		Order("numero_turno ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("gorm mensagens: listar: %w", err)
	}

	result := make([]domain.Mensagem, len(models))
	for i, model := range models {
		result[i] = model.toDomain()
	}
	return result, nil
}

func (r *MensagemRepository) CountByDebate(ctx context.Context, debateID domain.DebateID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&mensagemModel{}).
		Where("debate_id = ?", debateID).
		Count(&total).Error; err != nil {
		return 0, fmt.Errorf("gorm mensagens: contar: %w", err)
	}
	return total, nil
}

var _ domain.MensagemRepository = (*MensagemRepository)(nil)
