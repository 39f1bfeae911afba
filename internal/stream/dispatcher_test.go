package stream

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestClassify(t *testing.T) {
	d := dispatcher{log: zaptest.NewLogger(t)}

	cases := []struct {
		name string
		raw  string
		want frameKind
	}{
		{"auth ack", `{"type":"auth_ok"}`, kindAuthOK},
		{"odds update", `{"type":"odds_update","event_id":"NBA_001","sportsbook":"draftkings","market":"spreads","outcome":"Boston Celtics","line":-4.0,"price":-110,"timestamp":"2026-02-14T19:30:00Z"}`, kindData},
		{"linha nula", `{"type":"odds_update","event_id":"NBA_001","market":"h2h","outcome":"Boston Celtics","line":null,"price":-150,"timestamp":"2026-02-14T19:30:00Z"}`, kindData},
		{"JSON inválido", `{not json`, kindDrop},
		{"tipo desconhecido", `{"type":"heartbeat"}`, kindDrop},
		{"sem tipo", `{"event_id":"NBA_001"}`, kindDrop},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, _ := d.classify([]byte(tc.raw))
			if kind != tc.want {
				t.Fatalf("classify = %v, want %v", kind, tc.want)
			}
		})
	}
}

func TestClassifyDataFields(t *testing.T) {
	d := dispatcher{log: zaptest.NewLogger(t)}

	raw := `{"type":"odds_update","event_id":"NBA_001","sportsbook":"fanduel","market":"totals","outcome":"Over","line":222.0,"price":-110,"timestamp":"2026-02-14T19:30:00Z"}`
	kind, ev := d.classify([]byte(raw))
	if kind != kindData {
		t.Fatalf("classify = %v, want kindData", kind)
	}
	if ev.EventID != "NBA_001" || ev.Sportsbook != "fanduel" || ev.Market != "totals" || ev.Outcome != "Over" {
		t.Fatalf("unexpected event fields: %+v", ev)
	}
	if ev.Line == nil || *ev.Line != 222.0 {
		t.Fatalf("Line = %v, want 222.0", ev.Line)
	}
	if ev.Price == nil || *ev.Price != -110 {
		t.Fatalf("Price = %v, want -110", ev.Price)
	}
}

func TestClassifyNullLine(t *testing.T) {
	d := dispatcher{log: zaptest.NewLogger(t)}

	raw := `{"type":"odds_update","event_id":"NBA_001","market":"h2h","outcome":"New York Knicks","line":null,"price":130,"timestamp":"2026-02-14T19:30:00Z"}`
	_, ev := d.classify([]byte(raw))
	if ev.Line != nil {
		t.Fatalf("Line = %v, want nil", ev.Line)
	}
	if ev.Price == nil || *ev.Price != 130 {
		t.Fatalf("Price = %v, want 130", ev.Price)
	}
}
