package trava

import (
	"context"
	"sync"

	"github.com/marcelojr/debate-arena/internal/domain"
)

// Local mantém o cadeado por debate em memória do processo. Serve para
// testes e para rodar a API em nó único sem Redis.
type Local struct {
	mu    sync.Mutex
	emVoo map[domain.DebateID]struct{}
}

func NewLocal() *Local {
	return &Local{emVoo: make(map[domain.DebateID]struct{})}
}

func (l *Local) Adquirir(_ context.Context, id domain.DebateID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ocupado := l.emVoo[id]; ocupado {
		return false, nil
	}
	l.emVoo[id] = struct{}{}
	return true, nil
}

func (l *Local) Liberar(_ context.Context, id domain.DebateID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.emVoo, id)
	return nil
}

var _ domain.Trava = (*Local)(nil)
