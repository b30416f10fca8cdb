package care

import "time"

// CareAction es una entrada del log append-only de cuidados. Se crea una
// sola vez por acción aceptada y no se muta después; las rechazadas no
// dejan registro. El log es auditoría: la racha vive como contador en el
// pet, no se recalcula caminando este historial.
type CareAction struct {
	ID     string
	PetID  string
	UserID string

	Type ActionType

	PerformedAt time.Time

	XPAwarded int
	CoopBonus bool
}

type ListFilter struct {
	Types []ActionType
	From  *time.Time
	To    *time.Time
	Limit int
}
