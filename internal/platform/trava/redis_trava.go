// Pacote trava garante no máximo um avanço de turno em voo por debate —
// implementações Redis (multi-instância) e local (testes e nó único).
package trava

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// RedisTrava usa SET NX com TTL: a chave é o próprio cadeado do debate.
// O TTL é rede de segurança para processo que morre segurando a trava; em
// operação normal a liberação é explícita ao fim do turno.
type RedisTrava struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisTrava(client *redis.Client, prefix string, ttl time.Duration) *RedisTrava {
	if prefix == "" {
		prefix = "trava:debate"
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisTrava{
		client:    client,
		keyPrefix: prefix,
		ttl:       ttl,
	}
}

func (t *RedisTrava) Adquirir(ctx context.Context, id domain.DebateID) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(id), 1, t.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("trava redis: adquirir %s: %w", id, err)
	}
	return ok, nil
}

func (t *RedisTrava) Liberar(ctx context.Context, id domain.DebateID) error {
	if err := t.client.Del(ctx, t.key(id)).Err(); err != nil {
		return fmt.Errorf("trava redis: liberar %s: %w", id, err)
	}
	return nil
}

func (t *RedisTrava) key(id domain.DebateID) string {
	return fmt.Sprintf("%s:%s", t.keyPrefix, id)
}

var _ domain.Trava = (*RedisTrava)(nil)
