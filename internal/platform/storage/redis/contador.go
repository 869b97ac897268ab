// Pacote redis guarda os apoios voláteis do debate: cache de apuração e
// conexão compartilhada.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// Contador provê incremento e leitura de apuração usando chaves com prefixo.
// É cache: a contagem oficial de votos sai do Postgres.
type Contador struct {
	client *redis.Client
	prefix string
}

func NewContador(client *redis.Client, prefix string) *Contador {
	return &Contador{
		client: client,
		prefix: prefix,
	}
}

func (c *Contador) Incrementar(ctx context.Context, chave string, delta int64) (int64, error) {
	return c.client.IncrBy(ctx, c.key(chave), delta).Result()
}

func (c *Contador) Obter(ctx context.Context, chave string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(chave)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

func (c *Contador) key(chave string) string {
	if c.prefix == "" {
		return chave
	}
	return fmt.Sprintf("%s:%s", c.prefix, chave)
}

var _ domain.Contador = (*Contador)(nil)
