package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/qualitymaterial/stratum-sports/internal/consensus"
)

// Client consome o endpoint REST (caixa-preta) que fornece o snapshot
// inicial de consenso usado para semear o Store antes do stream ao vivo.
type Client struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

func New(url string, log *zap.Logger) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 5 * time.Second},
		log:  log,
	}
}

// Fetch busca o snapshot corrente: um array JSON de views por jogo
func (c *Client) Fetch(ctx context.Context) ([]consensus.View, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot fetch: unexpected status %d", resp.StatusCode)
	}

	var views []consensus.View
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}

	c.log.Info("snapshot fetched", zap.Int("games", len(views)))
	return views, nil
}
