package consensus

import (
	"github.com/qualitymaterial/stratum-sports/pkg/contracts/events"
)

// Identity identifica o jogo ao qual uma view de consenso pertence.
// Usada apenas para roteamento; nunca é alterada por updates.
type Identity struct {
	HomeTeam string
	AwayTeam string
}

// Field indica qual campo da view de consenso um update afeta
type Field string

const (
	FieldSpreads Field = "spreads"
	FieldTotals  Field = "totals"
	FieldH2HHome Field = "h2h_home"
	FieldH2HAway Field = "h2h_away"
)

// FieldUpdate é o resultado de um roteamento bem-sucedido
type FieldUpdate struct {
	Field Field
	Value float64
}

// Route decide qual campo da view, se algum, um evento de odds atualiza.
// Função pura: mesma entrada produz sempre o mesmo resultado.
//
// Regras, avaliadas em ordem, primeira que casar vence:
//  1. spreads: só aplica se o outcome for o time da casa e a linha não for nula.
//     Spreads do visitante são descartados — a view guarda apenas a linha
//     referenciada ao mandante (as duas linhas são inversas aritméticas).
//  2. totals: aplica sempre que a linha não for nula, independente do outcome
//     (Over e Under carregam o mesmo número).
//  3. h2h: aplica se o preço não for nulo e o outcome for um dos dois times.
//  4. Caso contrário: no-op (mercado desconhecido, outcome não reconhecido
//     ou valor obrigatório ausente).
func Route(id Identity, ev events.OddsUpdate) (FieldUpdate, bool) {
	switch ev.Market {
	case events.MarketSpreads:
		if ev.Outcome == id.HomeTeam && ev.Line != nil {
			return FieldUpdate{Field: FieldSpreads, Value: *ev.Line}, true
		}
	case events.MarketTotals:
		if ev.Line != nil {
			return FieldUpdate{Field: FieldTotals, Value: *ev.Line}, true
		}
	case events.MarketH2H:
		if ev.Price == nil {
			break
		}
		switch ev.Outcome {
		case id.HomeTeam:
			return FieldUpdate{Field: FieldH2HHome, Value: *ev.Price}, true
		case id.AwayTeam:
			return FieldUpdate{Field: FieldH2HAway, Value: *ev.Price}, true
		}
	}
	return FieldUpdate{}, false
}
