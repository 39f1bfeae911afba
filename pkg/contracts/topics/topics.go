package topics

const (
	// Atualizações de consenso aplicadas pelo cliente de sincronização
	ConsensusUpdates = "consensus_updates"
)
