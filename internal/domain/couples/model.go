package couples

import "time"

// Couple representa la pareja dueña de una mascota compartida.
// Siempre son exactamente dos usuarios; la emisión/validación del código de
// emparejamiento vive en otro servicio, aquí solo llega el par ya resuelto.
type Couple struct {
	ID string

	UserAID string
	UserBID string

	CreatedAt time.Time
}

// HasMember indica si userID pertenece a la pareja.
func (c Couple) HasMember(userID string) bool {
	return userID != "" && (c.UserAID == userID || c.UserBID == userID)
}

// PartnerOf devuelve el otro miembro de la pareja.
// Devuelve "" si userID no pertenece a la pareja.
func (c Couple) PartnerOf(userID string) string {
	switch userID {
	case c.UserAID:
		return c.UserBID
	case c.UserBID:
		return c.UserAID
	default:
		return ""
	}
}
