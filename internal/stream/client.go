package stream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/qualitymaterial/stratum-sports/internal/token"
	"github.com/qualitymaterial/stratum-sports/pkg/contracts/events"
)

var (
	// ErrNoCredential indica que nenhuma credencial estava disponível no momento
	// da tentativa de conexão; a tentativa é pulada sem abrir socket.
	ErrNoCredential = errors.New("stream: no credential available")

	// ErrBlocked indica rejeição terminal de autenticação; reconectar exige
	// credencial nova e um cliente recriado.
	ErrBlocked = errors.New("stream: authentication rejected")

	// ErrClosed indica teardown iniciado pelo consumidor
	ErrClosed = errors.New("stream: client closed")
)

// Handler recebe eventos de dados validados, na ordem de chegada,
// apenas enquanto a conexão está LIVE
type Handler func(events.OddsUpdate)

// Options configura o cliente de stream
type Options struct {
	URL     string
	Tokens  token.Provider
	Handler Handler

	// OnState é chamado a cada transição de estado (opcional)
	OnState func(State)

	// ReconnectDelay entre tentativas após falha transitória; default 3s
	ReconnectDelay time.Duration

	// Clock permite injetar relógio falso nos testes; default relógio real
	Clock clockwork.Clock

	// Dialer customizado (opcional)
	Dialer *websocket.Dialer

	Log *zap.Logger
}

// Client mantém uma única conexão lógica autenticada com o fornecedor.
// Todo o estado mutável (estado, socket corrente, geração) é serializado
// pelo mutex; o loop de execução é dono exclusivo das transições.
type Client struct {
	url     string
	tokens  token.Provider
	handler Handler
	onState func(State)
	delay   time.Duration
	clock   clockwork.Clock
	dialer  *websocket.Dialer
	log     *zap.Logger
	disp    dispatcher

	mu     sync.Mutex
	state  State
	gen    int // geração do socket corrente; callbacks de gerações antigas são ignorados
	conn   *websocket.Conn
	closed bool

	done chan struct{}
}

// NewClient cria o cliente; a conexão só é aberta em Run.
func NewClient(opts Options) *Client {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Dialer == nil {
		opts.Dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	return &Client{
		url:     opts.URL,
		tokens:  opts.Tokens,
		handler: opts.Handler,
		onState: opts.OnState,
		delay:   opts.ReconnectDelay,
		clock:   opts.Clock,
		dialer:  opts.Dialer,
		log:     opts.Log,
		disp:    dispatcher{log: opts.Log},
		state:   StateIdle,
		done:    make(chan struct{}),
	}
}

// Run mantém a conexão até o contexto ser cancelado, Close ser chamado ou a
// autenticação ser rejeitada de forma terminal. Falhas transitórias são
// reconectadas após o delay fixo, relendo a credencial corrente a cada
// tentativa (suporta rotação entre reconexões).
func (c *Client) Run(ctx context.Context) error {
	for {
		if c.State() == StateBlocked {
			// Terminal: nenhuma tentativa, nenhum socket
			return ErrBlocked
		}
		if c.isClosed() {
			return ErrClosed
		}

		tok, ok := c.tokens.Token()
		if !ok {
			// Sem credencial a tentativa é pulada por inteiro
			c.setState(StateIdle)
			return ErrNoCredential
		}

		retryable, err := c.connectOnce(ctx, tok)
		if !retryable {
			return err
		}
		// Teardown e cancelamento não passam por RECOVERING
		if c.isClosed() {
			return ErrClosed
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("connection lost, scheduling reconnect",
			zap.Error(err), zap.Duration("delay", c.delay))
		c.setState(StateRecovering)

		timer := c.clock.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-c.done:
			timer.Stop()
			return ErrClosed
		case <-timer.Chan():
		}
	}
}

// connectOnce executa uma geração completa da conexão: dial, handshake,
// gate de autenticação e loop de leitura. Retorna retryable=true para
// falhas transitórias que devem passar por RECOVERING.
func (c *Client) connectOnce(ctx context.Context, tok string) (retryable bool, err error) {
	c.setState(StateConnecting)
	gen := c.nextGen()

	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if c.isClosed() {
			return false, ErrClosed
		}
		return true, err
	}

	if !c.adopt(gen, conn) {
		_ = conn.Close()
		return false, ErrClosed
	}
	defer c.release(conn)

	// Destrava ReadMessage em cancelamento de contexto ou teardown
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-c.done:
			_ = conn.Close()
		case <-stop:
		}
	}()

	// Handshake: exatamente um frame de auth imediatamente após abrir
	c.setState(StateAuthenticating)
	if err := conn.WriteJSON(authFrame{Type: FrameAuth, Token: tok}); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if c.isClosed() {
			return false, ErrClosed
		}
		return true, err
	}
	c.log.Info("connected, awaiting auth ack", zap.String("url", c.url))

	live := false
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			if c.isClosed() {
				return false, ErrClosed
			}
			if isAuthRejection(err) {
				c.setState(StateBlocked)
				c.log.Warn("authentication rejected, reconnect requires fresh credentials")
				return false, ErrBlocked
			}
			return true, err
		}

		// Socket superado não entrega mais nada ao consumidor
		if !c.current(gen) {
			return false, ErrClosed
		}

		kind, ev := c.disp.classify(raw)
		switch kind {
		case kindAuthOK:
			if !live {
				live = true
				c.setState(StateLive)
				c.log.Info("auth acknowledged, connection live")
			}
		case kindData:
			if !live {
				// Frame de dados antes do ack é descartado, não é erro
				c.log.Debug("data frame before auth ack, dropped")
				continue
			}
			if c.handler != nil {
				c.handler(ev)
			}
		case kindDrop:
			// dispatcher já logou o motivo
		}
	}
}

// Close encerra o cliente: fecha o socket corrente, suprime qualquer
// reconexão pendente e torna callbacks em voo no-ops. Idempotente.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		_ = conn.Close()
	}
}

// State retorna o estado corrente do ciclo de vida
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	c.mu.Unlock()
	if c.onState != nil {
		c.onState(s)
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) nextGen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// adopt instala o socket da geração dada como corrente; qualquer socket
// anterior é fechado antes de o novo produzir efeitos colaterais
func (c *Client) adopt(gen int, conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return false
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	return true
}

func (c *Client) current(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && gen == c.gen
}

func (c *Client) release(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

// isAuthRejection identifica o close code terminal de rejeição de credencial
func isAuthRejection(err error) bool {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code == CloseAuthRejected
	}
	return false
}
