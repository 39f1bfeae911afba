package stream

// State é o estado corrente do ciclo de vida da conexão.
// Transições válidas:
//
//	Idle → Connecting → Authenticating → Live
//	Connecting/Authenticating/Live → Recovering (falha transitória)
//	Connecting/Authenticating/Live → Blocked   (credencial rejeitada)
//	Recovering → Connecting (timer de reconexão dispara)
//
// Blocked é terminal: o cliente fica inerte até ser recriado com credencial nova.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateAuthenticating
	StateLive
	StateRecovering
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateLive:
		return "live"
	case StateRecovering:
		return "recovering"
	case StateBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}
