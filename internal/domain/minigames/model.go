package minigames

import "time"

// Session es una partida de mini-juego. Se crea al iniciar y se sella al
// completarse (score congelado); después no se muta.
type Session struct {
	ID    string
	PetID string

	GameType GameType

	// Participantes: quien inicia y, en co-op, su partner.
	Participants []string
	IsCoop       bool

	RawScore   int
	Accuracy   int
	FinalScore int
	Rank       Rank

	StartedAt   time.Time
	CompletedAt *time.Time

	// XPCredited marca que el bonus de XP del score ya se acreditó al pet.
	// Una sesión sellada sin crédito es recuperable: reintentar Complete
	// vuelve a intentar la acreditación con el score congelado.
	XPCredited bool
}

// Sealed indica si la sesión ya fue completada.
func (s Session) Sealed() bool {
	return s.CompletedAt != nil
}
