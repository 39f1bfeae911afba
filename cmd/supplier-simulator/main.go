package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/qualitymaterial/stratum-sports/internal/consensus"
	"github.com/qualitymaterial/stratum-sports/internal/shared/config"
	"github.com/qualitymaterial/stratum-sports/internal/shared/logger"
	"github.com/qualitymaterial/stratum-sports/internal/stream"
	"github.com/qualitymaterial/stratum-sports/pkg/contracts/events"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// Catálogo fixo de jogos simulados para geração de odds
	gameCatalog = []consensus.View{
		{EventID: "NBA_001", HomeTeam: "Boston Celtics", AwayTeam: "New York Knicks"},
		{EventID: "NBA_002", HomeTeam: "Denver Nuggets", AwayTeam: "Los Angeles Lakers"},
		{EventID: "NBA_003", HomeTeam: "Milwaukee Bucks", AwayTeam: "Miami Heat"},
		{EventID: "NBA_004", HomeTeam: "Phoenix Suns", AwayTeam: "Golden State Warriors"},
	}

	sportsbooks = []string{"draftkings", "fanduel", "betmgm", "caesars"}

	// Métricas Prometheus para monitoramento de conexões e mensagens
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "supplier_ws_connections",
		Help: "Clientes WebSocket autenticados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supplier_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
	wsAuthRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "supplier_ws_auth_rejected_total",
		Help: "Handshakes rejeitados com close 1008",
	})
)

// dataFrame é o frame de dados enviado aos clientes autenticados
type dataFrame struct {
	Type string `json:"type"`
	events.OddsUpdate
}

// ackFrame confirma a autenticação do cliente
type ackFrame struct {
	Type string `json:"type"`
}

// authFrame é o primeiro frame esperado de cada cliente
type authFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// clientConn representa uma conexão de cliente autenticada
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// hub gerencia os clientes autenticados e faz broadcast de frames
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
	}
}

func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client authenticated", zap.String("client_id", c.id))
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

// broadcast envia um frame para todos os clientes autenticados
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

// authenticate lê o primeiro frame e valida a credencial. Qualquer coisa
// diferente de um auth válido dentro do prazo fecha a conexão com 1008.
func authenticate(conn *websocket.Conn, expected string) bool {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return false
	}
	_ = conn.SetReadDeadline(time.Time{})

	var af authFrame
	if err := json.Unmarshal(raw, &af); err != nil || af.Type != stream.FrameAuth || af.Token != expected {
		return false
	}
	return conn.WriteJSON(ackFrame{Type: stream.FrameAuthOK}) == nil
}

// rejectAuth fecha a conexão com o close code terminal de credencial inválida
func rejectAuth(conn *websocket.Conn) {
	wsAuthRejected.Inc()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(stream.CloseAuthRejected, "invalid token"),
		time.Now().Add(time.Second),
	)
	_ = conn.Close()
}

// rnd gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func ptr(v float64) *float64 { return &v }

// tickUpdates gera um lote de updates para um jogo: spread dos dois lados,
// total Over/Under e moneyline dos dois times
func tickUpdates(game consensus.View) []events.OddsUpdate {
	book := sportsbooks[rand.Intn(len(sportsbooks))]
	now := time.Now().UTC()
	spread := float64(rand.Intn(25))/2.0 - 6.0 // -6.0 .. +6.0 em meios pontos
	total := 210.0 + float64(rand.Intn(50))/2.0

	base := events.OddsUpdate{
		EventID:    game.EventID,
		Sportsbook: book,
		Timestamp:  now,
	}

	spreadHome, spreadAway, totalOver, totalUnder := base, base, base, base
	h2hHome, h2hAway := base, base

	spreadHome.Market = events.MarketSpreads
	spreadHome.Outcome = game.HomeTeam
	spreadHome.Line = ptr(spread)
	spreadHome.Price = ptr(-110)

	spreadAway.Market = events.MarketSpreads
	spreadAway.Outcome = game.AwayTeam
	spreadAway.Line = ptr(-spread)
	spreadAway.Price = ptr(-110)

	totalOver.Market = events.MarketTotals
	totalOver.Outcome = "Over"
	totalOver.Line = ptr(total)
	totalOver.Price = ptr(-110)

	totalUnder.Market = events.MarketTotals
	totalUnder.Outcome = "Under"
	totalUnder.Line = ptr(total)
	totalUnder.Price = ptr(-110)

	h2hHome.Market = events.MarketH2H
	h2hHome.Outcome = game.HomeTeam
	h2hHome.Price = ptr(rnd(-250, -110))

	h2hAway.Market = events.MarketH2H
	h2hAway.Outcome = game.AwayTeam
	h2hAway.Price = ptr(rnd(100, 220))

	return []events.OddsUpdate{spreadHome, spreadAway, totalOver, totalUnder, h2hHome, h2hAway}
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(wsConnections, wsMessagesSent, wsAuthRejected)

	h := newHub(log)

	// O simulador mantém seu próprio consenso, que alimenta o endpoint de
	// snapshot consumido pelos clientes antes de assinarem o stream
	store := consensus.NewStore()
	store.Seed(gameCatalog)

	// Gera e envia odds simuladas para os clientes autenticados a cada 3 segundos
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			for _, game := range gameCatalog {
				for _, up := range tickUpdates(game) {
					store.Apply(up)
					h.broadcast(dataFrame{Type: stream.FrameOddsUpdate, OddsUpdate: up})
				}
			}
		}
	}()

	// ==== MUX PÚBLICO: /ws e /consensus/snapshot
	appMux := http.NewServeMux()

	appMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		// Handshake obrigatório antes de qualquer frame de dados
		if !authenticate(conn, cfg.SupplierAuthToken) {
			log.Warn("ws auth rejected")
			rejectAuth(conn)
			return
		}

		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		// Goroutine para manter a conexão viva e remover cliente ao desconectar
		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			for {
				// Lê e descarta mensagens do cliente para manter o socket limpo
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	appMux.HandleFunc("/consensus/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.All())
	})

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("supplier simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("supplier simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws,/consensus/snapshot"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
