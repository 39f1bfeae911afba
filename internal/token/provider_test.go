package token

import "testing"

func TestStatic(t *testing.T) {
	tok, ok := Static("abc").Token()
	if !ok || tok != "abc" {
		t.Fatalf("Token = (%q, %v), want (abc, true)", tok, ok)
	}

	if _, ok := Static("").Token(); ok {
		t.Fatal("empty static credential must report ok=false")
	}
}

func TestRotatable(t *testing.T) {
	r := NewRotatable("first")

	tok, ok := r.Token()
	if !ok || tok != "first" {
		t.Fatalf("Token = (%q, %v), want (first, true)", tok, ok)
	}

	r.Rotate("second")
	if tok, _ := r.Token(); tok != "second" {
		t.Fatalf("Token after Rotate = %q, want second", tok)
	}

	r.Clear()
	if _, ok := r.Token(); ok {
		t.Fatal("Token after Clear must report ok=false")
	}
}
