package care

// ActionType define los 8 tipos de acción de cuidado reconocidos.
// @Enum feed, play, walk, pet, groom, train, sleep, bath
type ActionType string

const (
	ActionFeed  ActionType = "feed"
	ActionPlay  ActionType = "play"
	ActionWalk  ActionType = "walk"
	ActionPet   ActionType = "pet"
	ActionGroom ActionType = "groom"
	ActionTrain ActionType = "train"
	ActionSleep ActionType = "sleep"
	ActionBath  ActionType = "bath"
)

// AllActionTypes en orden estable (se usa para iterar conteos).
var AllActionTypes = []ActionType{
	ActionFeed, ActionPlay, ActionWalk, ActionPet,
	ActionGroom, ActionTrain, ActionSleep, ActionBath,
}

func ValidActionType(t ActionType) bool {
	switch t {
	case ActionFeed, ActionPlay, ActionWalk, ActionPet,
		ActionGroom, ActionTrain, ActionSleep, ActionBath:
		return true
	default:
		return false
	}
}
