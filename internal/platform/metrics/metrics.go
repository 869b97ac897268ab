package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	debatesCriadosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_debates_criados_total",
		Help: "Total de debates criados",
	})

	turnosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_turnos_total",
		Help: "Total de pedidos de avanco de turno por resultado",
	}, []string{"status"})

	chunksEmitidosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_chunks_emitidos_total",
		Help: "Total de fragmentos de texto repassados aos observadores",
	})

	geracaoDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_geracao_turno_duration_seconds",
		Help:    "Tempo entre abrir o stream do gerador e persistir o turno",
		Buckets: prometheus.DefBuckets,
	})

	votosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_votos_total",
		Help: "Total de pedidos de voto por resultado",
	}, []string{"status"})
)

func IncDebateCriado() {
	debatesCriadosTotal.Inc()
}

func ObserveTurno(status string) {
	turnosTotal.WithLabelValues(status).Inc()
}

func IncChunkEmitido() {
	chunksEmitidosTotal.Inc()
}

func ObserveGeracao(seconds float64) {
	geracaoDuration.Observe(seconds)
}

func ObserveVoto(status string) {
	votosTotal.WithLabelValues(status).Inc()
}
