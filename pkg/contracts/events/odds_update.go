package events

import "time"

// Mercados reconhecidos no protocolo do fornecedor
const (
	MarketSpreads = "spreads"
	MarketTotals  = "totals"
	MarketH2H     = "h2h"
)

// OddsUpdate é um evento incremental recebido do fornecedor via WebSocket
// e reemitido no tópico "consensus_updates" quando aplicado com sucesso.
// Outcome: nome do time, ou "Over"/"Under" em totals
// Line: linha do mercado (spread ou total); pode vir nula
// Price: preço americano (moneyline); obrigatório em h2h, informativo nos demais
type OddsUpdate struct {
	EventID    string    `json:"event_id"`
	Sportsbook string    `json:"sportsbook"`
	Market     string    `json:"market"`
	Outcome    string    `json:"outcome"`
	Line       *float64  `json:"line"`
	Price      *float64  `json:"price"`
	Timestamp  time.Time `json:"timestamp"`
}
