// Executável principal da API: carrega a configuração, inicializa dependências e sobe o servidor HTTP.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcelojr/debate-arena/internal/app/debating"
	"github.com/marcelojr/debate-arena/internal/app/httpapi"
	"github.com/marcelojr/debate-arena/internal/app/web"
	"github.com/marcelojr/debate-arena/internal/domain"
	"github.com/marcelojr/debate-arena/internal/platform/antifraude"
	"github.com/marcelojr/debate-arena/internal/platform/clock"
	"github.com/marcelojr/debate-arena/internal/platform/config"
	"github.com/marcelojr/debate-arena/internal/platform/gemini"
	"github.com/marcelojr/debate-arena/internal/platform/health"
	"github.com/marcelojr/debate-arena/internal/platform/ids"
	"github.com/marcelojr/debate-arena/internal/platform/logger"
	"github.com/marcelojr/debate-arena/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/debate-arena/internal/platform/storage/postgres"
	redisstorage "github.com/marcelojr/debate-arena/internal/platform/storage/redis"
	"github.com/marcelojr/debate-arena/internal/platform/trava"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracao invalida", "err", err)
	}

	// Mantemos a conexão compartilhada em todo o ciclo para reaproveitar pool e checar readiness.
	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("falha ao conectar no postgres", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao resgatar sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		// Rodamos migrations automáticas apenas se habilitado para evitar surpresas em produção.
		if err := migrations.Run(db); err != nil {
			logger.Fatal("falha na migracao automatica", "err", err)
		}
	}

	// Redis centraliza a trava de turno, o cache de apuração e o antifraude.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("falha ao conectar no redis", "err", err)
	}
	defer redisClient.Close()

	dbDebate := postgresstorage.NewDebateRepository(db)
	dbEscalacao := postgresstorage.NewEscalacaoRepository(db)
	dbMensagem := postgresstorage.NewMensagemRepository(db)
	dbVoto := postgresstorage.NewVotoRepository(db)
	contador := redisstorage.NewContador(redisClient, cfg.ContadorKeyPrefix)
	travaDebate := trava.NewRedisTrava(redisClient, cfg.TravaKeyPrefix, time.Duration(cfg.TravaTTLSeconds)*time.Second)
	gerador := gemini.NewClientWithBaseURL(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
	clockSystem := clock.NewSystemClock()
	idGen := ids.NewGenerator()

	var antifraudeSvc domain.Antifraude = antifraude.NewNoop()
	if cfg.RateLimitEnabled {
		window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
		antifraudeSvc = antifraude.NewRedisRateLimiter(redisClient, cfg.RateLimitMaxActions, window, cfg.RateLimitKeyPrefix)
	}

	// Serviço agrega repositórios, gerador, trava e antifraude para guardar as regras do debate.
	servico := debating.NewService(
		dbDebate,
		dbEscalacao,
		dbMensagem,
		dbVoto,
		contador,
		gerador,
		travaDebate,
		antifraudeSvc,
		clockSystem,
		idGen,
	)

	mux := http.NewServeMux()
	checker := health.NewChecker(sqlDB, redisClient)

	// HTTP expõe API, páginas, health check e métricas que o Prometheus coleta.
	api := httpapi.New(servico, logger.L())
	api.Register(mux)
	frontend, err := web.New(servico)
	if err != nil {
		logger.Fatal("erro ao carregar templates", "err", err)
	}
	frontend.Register(mux)
	mux.HandleFunc("/readyz", checker.ReadyHandler())
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("api ouvindo", "addr", cfg.HTTPAddress)
	if err := http.ListenAndServe(cfg.HTTPAddress, mux); err != nil {
		logger.Fatal("erro no servidor", "err", err)
	}
}
