package stream

import (
	"time"

	"github.com/gorilla/websocket"
)

// Tipos de frame do protocolo do fornecedor
const (
	FrameAuth       = "auth"
	FrameAuthOK     = "auth_ok"
	FrameOddsUpdate = "odds_update"
)

// CloseAuthRejected é o close code usado pelo servidor para rejeitar a
// credencial (1008, policy violation). É a única falha terminal: o cliente
// não reconecta até ser recriado com credencial nova.
const CloseAuthRejected = websocket.ClosePolicyViolation

// DefaultReconnectDelay é o intervalo fixo entre reconexões após falha transitória
const DefaultReconnectDelay = 3 * time.Second

// authFrame é o handshake enviado uma única vez logo após abrir o socket
type authFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}
