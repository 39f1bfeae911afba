package token

import "sync"

// Provider fornece a credencial de sessão corrente. É relido a cada tentativa
// de conexão, nunca cacheado pelo cliente de stream — assim uma credencial
// rotacionada entre reconexões é usada já na próxima tentativa.
type Provider interface {
	// Token retorna a credencial corrente; ok=false quando não há credencial
	// (a tentativa de conexão deve ser pulada por inteiro).
	Token() (string, bool)
}

// Static é um Provider de credencial fixa
type Static string

func (s Static) Token() (string, bool) {
	return string(s), s != ""
}

// Rotatable guarda a credencial corrente e permite troca segura
// entre goroutines (ex: refresh de sessão em background)
type Rotatable struct {
	mu  sync.RWMutex
	tok string
}

func NewRotatable(tok string) *Rotatable {
	return &Rotatable{tok: tok}
}

func (r *Rotatable) Token() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tok, r.tok != ""
}

// Rotate substitui a credencial corrente
func (r *Rotatable) Rotate(tok string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tok = tok
}

// Clear remove a credencial; tentativas seguintes serão puladas
func (r *Rotatable) Clear() {
	r.Rotate("")
}
