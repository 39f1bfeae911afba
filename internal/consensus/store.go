package consensus

import (
	"sync"

	"github.com/qualitymaterial/stratum-sports/pkg/contracts/events"
)

// View é o estado derivado de consenso de um jogo: linha de spread e total
// correntes mais os dois preços de moneyline. Campos nulos ainda não foram
// populados nem pelo snapshot nem pelo stream.
type View struct {
	EventID  string   `json:"event_id"`
	HomeTeam string   `json:"home_team"`
	AwayTeam string   `json:"away_team"`
	Spreads  *float64 `json:"spreads"`
	Totals   *float64 `json:"totals"`
	H2HHome  *float64 `json:"h2h_home"`
	H2HAway  *float64 `json:"h2h_away"`
}

// Identity retorna a identidade imutável usada pelo roteamento
func (v View) Identity() Identity {
	return Identity{HomeTeam: v.HomeTeam, AwayTeam: v.AwayTeam}
}

// Store guarda as views de consenso por event_id. Só é mutado via Seed
// (snapshot inicial) e Apply (resultado do Route); updates que não casam
// com nenhuma regra não alteram nada.
type Store struct {
	mu    sync.RWMutex
	views map[string]*View
}

func NewStore() *Store {
	return &Store{views: make(map[string]*View)}
}

// Seed substitui o estado corrente pelo snapshot inicial vindo do REST
func (s *Store) Seed(views []View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = make(map[string]*View, len(views))
	for i := range views {
		v := views[i]
		s.views[v.EventID] = &v
	}
}

// Apply roteia o evento contra a view do jogo correspondente e, se a regra
// casar, sobrescreve o campo indicado. Retorna uma cópia da view atualizada.
// Eventos de jogos desconhecidos ou que não casam com regra alguma são no-op.
func (s *Store) Apply(ev events.OddsUpdate) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[ev.EventID]
	if !ok {
		return View{}, false
	}

	upd, ok := Route(view.Identity(), ev)
	if !ok {
		return View{}, false
	}

	val := upd.Value
	switch upd.Field {
	case FieldSpreads:
		view.Spreads = &val
	case FieldTotals:
		view.Totals = &val
	case FieldH2HHome:
		view.H2HHome = &val
	case FieldH2HAway:
		view.H2HAway = &val
	}
	return *view, true
}

// Get retorna uma cópia da view de um jogo
func (s *Store) Get(eventID string) (View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view, ok := s.views[eventID]
	if !ok {
		return View{}, false
	}
	return *view, true
}

// All retorna uma cópia de todas as views correntes
func (s *Store) All() []View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]View, 0, len(s.views))
	for _, v := range s.views {
		out = append(out, *v)
	}
	return out
}
