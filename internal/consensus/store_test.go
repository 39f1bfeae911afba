package consensus

import (
	"testing"

	"github.com/qualitymaterial/stratum-sports/pkg/contracts/events"
)

func seededStore() *Store {
	s := NewStore()
	s.Seed([]View{
		{EventID: "NBA_001", HomeTeam: "Boston Celtics", AwayTeam: "New York Knicks"},
		{EventID: "NBA_002", HomeTeam: "Denver Nuggets", AwayTeam: "Los Angeles Lakers"},
	})
	return s
}

func TestStoreApply(t *testing.T) {
	s := seededStore()

	view, ok := s.Apply(events.OddsUpdate{
		EventID: "NBA_001",
		Market:  events.MarketSpreads,
		Outcome: "Boston Celtics",
		Line:    ptr(-4.0),
	})
	if !ok {
		t.Fatal("expected spread update to apply")
	}
	if view.Spreads == nil || *view.Spreads != -4.0 {
		t.Fatalf("Spreads = %v, want -4.0", view.Spreads)
	}

	// O outro jogo permanece intocado
	other, _ := s.Get("NBA_002")
	if other.Spreads != nil {
		t.Fatalf("NBA_002 Spreads = %v, want nil", other.Spreads)
	}
}

func TestStoreApplyUnmatchedDoesNotMutate(t *testing.T) {
	s := seededStore()

	// Spread do visitante não casa com regra alguma
	_, ok := s.Apply(events.OddsUpdate{
		EventID: "NBA_001",
		Market:  events.MarketSpreads,
		Outcome: "New York Knicks",
		Line:    ptr(4.0),
	})
	if ok {
		t.Fatal("away spread must be a no-op")
	}

	view, _ := s.Get("NBA_001")
	if view.Spreads != nil || view.Totals != nil || view.H2HHome != nil || view.H2HAway != nil {
		t.Fatalf("no-op mutated the view: %+v", view)
	}
}

func TestStoreApplyUnknownGame(t *testing.T) {
	s := seededStore()

	_, ok := s.Apply(events.OddsUpdate{
		EventID: "NBA_999",
		Market:  events.MarketTotals,
		Outcome: "Over",
		Line:    ptr(222.0),
	})
	if ok {
		t.Fatal("update for unknown game must be a no-op")
	}
}

// Aplicar o mesmo evento duas vezes produz o mesmo estado final que aplicar uma vez
func TestStoreApplyIdempotent(t *testing.T) {
	s := seededStore()
	ev := events.OddsUpdate{
		EventID: "NBA_001",
		Market:  events.MarketH2H,
		Outcome: "New York Knicks",
		Price:   ptr(130),
	}

	first, ok := s.Apply(ev)
	if !ok {
		t.Fatal("expected h2h update to apply")
	}
	second, ok := s.Apply(ev)
	if !ok {
		t.Fatal("expected repeated h2h update to apply")
	}

	if *first.H2HAway != *second.H2HAway {
		t.Fatalf("H2HAway diverged: %v vs %v", *first.H2HAway, *second.H2HAway)
	}
	final, _ := s.Get("NBA_001")
	if final.H2HAway == nil || *final.H2HAway != 130 {
		t.Fatalf("H2HAway = %v, want 130", final.H2HAway)
	}
	if final.H2HHome != nil {
		t.Fatalf("H2HHome = %v, want nil", final.H2HHome)
	}
}

func TestStoreSeedReplacesState(t *testing.T) {
	s := seededStore()
	s.Apply(events.OddsUpdate{
		EventID: "NBA_001",
		Market:  events.MarketTotals,
		Outcome: "Over",
		Line:    ptr(222.0),
	})

	s.Seed([]View{{EventID: "NBA_001", HomeTeam: "Boston Celtics", AwayTeam: "New York Knicks"}})

	view, ok := s.Get("NBA_001")
	if !ok {
		t.Fatal("seeded view missing")
	}
	if view.Totals != nil {
		t.Fatalf("Totals = %v, want nil after reseed", view.Totals)
	}
	if got := len(s.All()); got != 1 {
		t.Fatalf("len(All) = %d, want 1", got)
	}
}
