package config

import (
	"os"
	"time"

	ctopics "github.com/qualitymaterial/stratum-sports/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui endpoint do fornecedor, credencial de sessão, conexões e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "consensus-sync", "supplier-simulator"

	// Fornecedor de odds (stream + snapshot REST)
	SupplierWSURL string
	SnapshotURL   string
	SessionToken  string

	// Token aceito pelo supplier-simulator
	SupplierAuthToken string

	// Intervalo fixo entre reconexões após falha transitória
	ReconnectDelay time.Duration

	// Integrações opcionais do consensus-sync
	CacheEnabled          bool
	RelayEnabled          bool
	RedisAddr             string
	KafkaBrokers          string // "a:9092,b:9092"
	TopicConsensusUpdates string

	// Portas do serviço atual
	HTTPPort    string // Porta pública (ex.: WS do simulator)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega variáveis de ambiente e define defaults para cada serviço
// Resolve portas conforme o SERVICE_NAME
func Load() Config {
	svc := getEnv("SERVICE_NAME", "")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,

		SupplierWSURL: getEnv("SUPPLIER_WS_URL", "ws://localhost:8081/ws"),
		SnapshotURL:   getEnv("SNAPSHOT_URL", "http://localhost:8081/consensus/snapshot"),
		SessionToken:  getEnv("SESSION_TOKEN", ""),

		SupplierAuthToken: getEnv("SUPPLIER_AUTH_TOKEN", "dev-token"),

		ReconnectDelay: getDuration("RECONNECT_DELAY", 3*time.Second),

		CacheEnabled: getBool("CACHE_ENABLED", false),
		RelayEnabled: getBool("RELAY_ENABLED", false),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicConsensusUpdates: getEnv("KAFKA_TOPIC_CONSENSUS", ctopics.ConsensusUpdates),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "consensus-sync":
		cfg.HTTPPort = getEnv("HTTP_PORT_SYNC", "") // sync não expõe HTTP público
		cfg.MetricsPort = getEnv("METRICS_PORT_SYNC", "9096")
	case "supplier-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_SUPPLIER", "8081")
		cfg.MetricsPort = getEnv("METRICS_PORT_SUPPLIER", "9094")
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// getDuration faz o parse de uma duração (ex: "3s", "500ms") com fallback
func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// getBool aceita "true"/"1" como verdadeiro
func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		return v == "true" || v == "1"
	}
	return def
}
