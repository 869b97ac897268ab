package antifraude

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelojr/debate-arena/internal/domain"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client, mr
}

func acaoDeVoto(ip string) domain.Acao {
	return domain.Acao{Tipo: "voto", DebateID: "d1", OrigemIP: ip}
}

func TestRedisRateLimiter_Validar_DentroDoLimite_DevePermitir(t *testing.T) {
	client, _ := setupRedis(t)
	limiter := NewRedisRateLimiter(client, 3, time.Minute, "ratelimit")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.NoError(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))
	}
}

func TestRedisRateLimiter_Validar_AcimaDoLimite_DeveBarrar(t *testing.T) {
	client, _ := setupRedis(t)
	limiter := NewRedisRateLimiter(client, 2, time.Minute, "ratelimit")

	ctx := context.Background()
	require.NoError(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))
	require.NoError(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))

	err := limiter.Validar(ctx, acaoDeVoto("1.2.3.4"))

	assert.True(t, errors.Is(err, ErrRateLimitExceeded))
}

func TestRedisRateLimiter_Validar_OrigensDiferentes_NaoCompartilhamJanela(t *testing.T) {
	client, _ := setupRedis(t)
	limiter := NewRedisRateLimiter(client, 1, time.Minute, "ratelimit")

	ctx := context.Background()
	require.NoError(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))
	require.Error(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))

	assert.NoError(t, limiter.Validar(ctx, acaoDeVoto("5.6.7.8")))
	assert.NoError(t, limiter.Validar(ctx, domain.Acao{Tipo: "criacao", DebateID: "d1", OrigemIP: "1.2.3.4"}))
}

func TestRedisRateLimiter_Validar_QuandoJanelaExpira_DeveZerar(t *testing.T) {
	client, mr := setupRedis(t)
	limiter := NewRedisRateLimiter(client, 1, 30*time.Second, "ratelimit")

	ctx := context.Background()
	require.NoError(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))
	require.Error(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))

	mr.FastForward(31 * time.Second)

	assert.NoError(t, limiter.Validar(ctx, acaoDeVoto("1.2.3.4")))
}

func TestRedisRateLimiter_Validar_SemClienteOuLimite_DeveSerPermissivo(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewRedisRateLimiter(nil, 10, time.Minute, "").Validar(ctx, acaoDeVoto("1.2.3.4")))

	client, _ := setupRedis(t)
	assert.NoError(t, NewRedisRateLimiter(client, 0, time.Minute, "").Validar(ctx, acaoDeVoto("1.2.3.4")))
}

func TestNoop_Validar_SempreDevePermitir(t *testing.T) {
	limiter := NewNoop()

	assert.NoError(t, limiter.Validar(context.Background(), acaoDeVoto("1.2.3.4")))
}
