package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/debate-arena/internal/domain"
	"github.com/marcelojr/debate-arena/internal/platform/ids"
)

func novoVoto(gen *ids.Generator, debateID domain.DebateID, persona domain.PersonaChave, ip string) domain.Voto {
	return domain.Voto{
		ID:        domain.VotoID(gen.New()),
		DebateID:  debateID,
		Persona:   persona,
		VotanteIP: ip,
		CriadoEm:  time.Now().UTC(),
	}
}

func TestVotoRepository_Registrar_DevePersistirVoto(t *testing.T) {
	db := setupPostgres(t)
	repo := NewVotoRepository(db)

	ctx := context.Background()
	gen := ids.NewGenerator()
	debate := novoDebate(gen)
	require.NoError(t, NewDebateRepository(db).Create(ctx, debate, nil))

	err := repo.Registrar(ctx, novoVoto(gen, debate.ID, "logico", "1.2.3.4"))

	assert.NoError(t, err)

	totais, err := repo.TotalPorPersona(ctx, debate.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totais["logico"])
}

func TestVotoRepository_Registrar_QuandoMesmoVotante_DeveRetornarErrVotoDuplicado(t *testing.T) {
	db := setupPostgres(t)
	repo := NewVotoRepository(db)

	ctx := context.Background()
	gen := ids.NewGenerator()
	debate := novoDebate(gen)
	require.NoError(t, NewDebateRepository(db).Create(ctx, debate, nil))

	require.NoError(t, repo.Registrar(ctx, novoVoto(gen, debate.ID, "logico", "1.2.3.4")))

	// Mesmo votante, outra persona: o índice (debate, votante) barra.
	err := repo.Registrar(ctx, novoVoto(gen, debate.ID, "rebelde", "1.2.3.4"))

	assert.True(t, errors.Is(err, domain.ErrVotoDuplicado))

	totais, err := repo.TotalPorPersona(ctx, debate.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), totais["logico"])
	assert.Zero(t, totais["rebelde"])
}

func TestVotoRepository_Registrar_QuandoOutroDebate_DevePermitir(t *testing.T) {
	db := setupPostgres(t)
	repo := NewVotoRepository(db)

	ctx := context.Background()
	gen := ids.NewGenerator()
	debateA := novoDebate(gen)
	debateB := novoDebate(gen)
	require.NoError(t, NewDebateRepository(db).Create(ctx, debateA, nil))
	require.NoError(t, NewDebateRepository(db).Create(ctx, debateB, nil))

	require.NoError(t, repo.Registrar(ctx, novoVoto(gen, debateA.ID, "logico", "1.2.3.4")))

	err := repo.Registrar(ctx, novoVoto(gen, debateB.ID, "logico", "1.2.3.4"))

	assert.NoError(t, err)
}

func TestVotoRepository_TotalPorPersona_DeveAgruparPorPersona(t *testing.T) {
	db := setupPostgres(t)
	repo := NewVotoRepository(db)

	ctx := context.Background()
	gen := ids.NewGenerator()
	debate := novoDebate(gen)
	require.NoError(t, NewDebateRepository(db).Create(ctx, debate, nil))

	require.NoError(t, repo.Registrar(ctx, novoVoto(gen, debate.ID, "logico", "1.1.1.1")))
	require.NoError(t, repo.Registrar(ctx, novoVoto(gen, debate.ID, "logico", "2.2.2.2")))
	require.NoError(t, repo.Registrar(ctx, novoVoto(gen, debate.ID, "empata", "3.3.3.3")))

	totais, err := repo.TotalPorPersona(ctx, debate.ID)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), totais["logico"])
	assert.Equal(t, int64(1), totais["empata"])
	// Persona sem voto simplesmente não aparece no mapa.
	_, existe := totais["rebelde"]
	assert.False(t, existe)
}

func TestVotoRepository_TotalPorPersona_QuandoSemVotos_DeveRetornarMapaVazio(t *testing.T) {
	db := setupPostgres(t)
	repo := NewVotoRepository(db)

	totais, err := repo.TotalPorPersona(context.Background(), "sem-votos")

	assert.NoError(t, err)
	assert.Empty(t, totais)
}
