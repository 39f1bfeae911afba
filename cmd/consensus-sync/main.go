package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/qualitymaterial/stratum-sports/internal/consensus"
	ccache "github.com/qualitymaterial/stratum-sports/internal/consensus/cache"
	"github.com/qualitymaterial/stratum-sports/internal/relay"
	sharedcache "github.com/qualitymaterial/stratum-sports/internal/shared/cache"
	"github.com/qualitymaterial/stratum-sports/internal/shared/config"
	"github.com/qualitymaterial/stratum-sports/internal/shared/logger"
	"github.com/qualitymaterial/stratum-sports/internal/shared/metrics"
	"github.com/qualitymaterial/stratum-sports/internal/snapshot"
	"github.com/qualitymaterial/stratum-sports/internal/stream"
	"github.com/qualitymaterial/stratum-sports/internal/token"
	"github.com/qualitymaterial/stratum-sports/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Métricas Prometheus do ciclo de sincronização
	received := prometheus.NewCounter(prometheus.CounterOpts{Name: "consensus_sync_updates_received_total", Help: "eventos de dados recebidos em LIVE"})
	applied := prometheus.NewCounter(prometheus.CounterOpts{Name: "consensus_sync_updates_applied_total", Help: "eventos aplicados ao consenso"})
	ignored := prometheus.NewCounter(prometheus.CounterOpts{Name: "consensus_sync_updates_ignored_total", Help: "eventos sem regra de roteamento (no-op)"})
	reconnects := prometheus.NewCounter(prometheus.CounterOpts{Name: "consensus_sync_reconnects_total", Help: "entradas no estado recovering"})
	liveGauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "consensus_sync_live", Help: "1 quando a conexão está LIVE"})
	prometheus.MustRegister(received, applied, ignored, reconnects, liveGauge)

	store := consensus.NewStore()

	// Snapshot inicial via REST antes de abrir o stream; falha aqui não é
	// fatal, o consenso começa vazio e converge com os updates ao vivo
	snap := snapshot.New(cfg.SnapshotURL, log)
	if views, err := snap.Fetch(ctx); err != nil {
		log.Warn("snapshot seed failed, starting empty", zap.Error(err))
	} else {
		store.Seed(views)
	}

	// Cache Redis opcional com a view corrente de cada jogo
	var viewCache *ccache.RedisCache
	if cfg.CacheEnabled {
		rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		viewCache = ccache.NewRedisCache(rdb, 60*time.Second)
	}

	// Relay Kafka opcional com os updates aplicados
	var pub *relay.Publisher
	if cfg.RelayEnabled {
		pub = relay.NewPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.TopicConsensusUpdates, log)
		defer pub.Close()
	}

	tokens := token.NewRotatable(cfg.SessionToken)

	client := stream.NewClient(stream.Options{
		URL:            cfg.SupplierWSURL,
		Tokens:         tokens,
		ReconnectDelay: cfg.ReconnectDelay,
		Log:            log,
		Handler: func(ev events.OddsUpdate) {
			received.Inc()
			view, ok := store.Apply(ev)
			if !ok {
				ignored.Inc()
				return
			}
			applied.Inc()

			if viewCache != nil {
				cctx, ccancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				if err := viewCache.SetCurrent(cctx, view); err != nil {
					log.Warn("cache set failed", zap.Error(err))
				}
				ccancel()
			}
			if pub != nil {
				pctx, pcancel := context.WithTimeout(context.Background(), 2*time.Second)
				if err := pub.Publish(pctx, ev); err != nil {
					log.Warn("relay publish failed", zap.Error(err))
				}
				pcancel()
			}
		},
		OnState: func(s stream.State) {
			switch s {
			case stream.StateLive:
				liveGauge.Set(1)
			case stream.StateRecovering:
				liveGauge.Set(0)
				reconnects.Inc()
			case stream.StateBlocked:
				liveGauge.Set(0)
				log.Warn("connection blocked, reconnect requires fresh credentials")
			default:
				liveGauge.Set(0)
			}
		},
	})

	go func() {
		err := client.Run(ctx)
		switch {
		case err == nil,
			errors.Is(err, context.Canceled),
			errors.Is(err, stream.ErrClosed):
			log.Info("stream client stopped")
		case errors.Is(err, stream.ErrNoCredential):
			log.Error("no session token configured, set SESSION_TOKEN")
		default:
			log.Error("stream client stopped", zap.Error(err))
		}
	}()

	// Servidor de métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return nil
	})
	log.Info("consensus sync running",
		zap.String("supplier", cfg.SupplierWSURL),
		zap.String("metrics_port", cfg.MetricsPort),
	)

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	client.Close()
	cancel()
	_ = metricsSrv.Shutdown(context.Background())
	time.Sleep(time.Second)
}
