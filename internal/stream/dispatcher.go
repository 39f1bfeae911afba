package stream

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/qualitymaterial/stratum-sports/pkg/contracts/events"
)

// frameKind classifica um frame de entrada após o parse
type frameKind int

const (
	kindDrop frameKind = iota // JSON inválido ou tipo desconhecido
	kindAuthOK
	kindData
)

// envelope extrai só o discriminador de tipo antes do parse completo
type envelope struct {
	Type string `json:"type"`
}

// dataFrame é o frame de dados completo do fornecedor
type dataFrame struct {
	Type string `json:"type"`
	events.OddsUpdate
}

// dispatcher faz o parse e a classificação de frames recebidos.
// Violações de protocolo (JSON inválido, tipo desconhecido) são descartadas
// com log de diagnóstico — nunca alteram o estado da conexão.
type dispatcher struct {
	log *zap.Logger
}

func (d dispatcher) classify(raw []byte) (frameKind, events.OddsUpdate) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.log.Warn("dropping malformed frame", zap.Error(err))
		return kindDrop, events.OddsUpdate{}
	}

	switch env.Type {
	case FrameAuthOK:
		return kindAuthOK, events.OddsUpdate{}
	case FrameOddsUpdate:
		var df dataFrame
		if err := json.Unmarshal(raw, &df); err != nil {
			d.log.Warn("dropping malformed odds_update frame", zap.Error(err))
			return kindDrop, events.OddsUpdate{}
		}
		return kindData, df.OddsUpdate
	default:
		d.log.Warn("dropping unrecognized frame type", zap.String("type", env.Type))
		return kindDrop, events.OddsUpdate{}
	}
}
