package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qualitymaterial/stratum-sports/internal/consensus"
)

// RedisCache mantém no Redis a view de consenso corrente de cada jogo,
// pronta para leitura pelos cards do dashboard
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis da view corrente de um jogo
func key(eventID string) string { return "consensus:current:" + eventID }

// SetCurrent armazena a view de consenso corrente de um jogo com TTL definido
func (r *RedisCache) SetCurrent(ctx context.Context, v consensus.View) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(v.EventID), b, r.TTL).Err()
}
