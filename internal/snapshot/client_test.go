package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"event_id":"NBA_001","home_team":"Boston Celtics","away_team":"New York Knicks","spreads":-4.0,"totals":222.0,"h2h_home":-150,"h2h_away":130},
			{"event_id":"NBA_002","home_team":"Denver Nuggets","away_team":"Los Angeles Lakers","spreads":null,"totals":null,"h2h_home":null,"h2h_away":null}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	views, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}

	first := views[0]
	if first.EventID != "NBA_001" || first.HomeTeam != "Boston Celtics" {
		t.Fatalf("unexpected first view: %+v", first)
	}
	if first.Spreads == nil || *first.Spreads != -4.0 {
		t.Fatalf("Spreads = %v, want -4.0", first.Spreads)
	}
	if views[1].Spreads != nil {
		t.Fatalf("NBA_002 Spreads = %v, want nil", views[1].Spreads)
	}
}

func TestFetchUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
