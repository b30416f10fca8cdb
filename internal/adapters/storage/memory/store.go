package memory

import (
	"errors"
	"sync"

	"couple-pet-care/internal/domain/care"
	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/minigames"
	"couple-pet-care/internal/domain/pets"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Store guarda todo el estado in-memory bajo un único mutex. Eso da gratis
// la disciplina de un solo escritor por vez que los commits atómicos
// exigen; el check de versión optimista se mantiene igual para que el
// comportamiento calce con el adapter de Postgres.
//
// Los repos por entidad (Pets(), Care(), ...) comparten este estado.
type Store struct {
	mu sync.RWMutex

	pets    map[string]pets.Pet
	couples map[string]couples.Couple

	// Log append-only de cuidados, por petID en orden de llegada.
	actions map[string][]care.CareAction

	// Milestones keyed por coupleID+"/"+type: garantiza la inserción
	// idempotente por (pareja, tipo).
	milestones map[string]evolution.Milestone

	sessions map[string]minigames.Session
}

func NewStore() *Store {
	return &Store{
		pets:       make(map[string]pets.Pet),
		couples:    make(map[string]couples.Couple),
		actions:    make(map[string][]care.CareAction),
		milestones: make(map[string]evolution.Milestone),
		sessions:   make(map[string]minigames.Session),
	}
}

func (s *Store) Pets() pets.Repository           { return &petsRepo{s} }
func (s *Store) Couples() couples.Repository     { return &couplesRepo{s} }
func (s *Store) Care() care.Repository           { return &careRepo{s} }
func (s *Store) Evolution() evolution.Repository { return &milestonesRepo{s} }
func (s *Store) MiniGames() minigames.Repository { return &minigamesRepo{s} }

func milestoneKey(coupleID string, t evolution.MilestoneType) string {
	return coupleID + "/" + string(t)
}

// commitPetLocked aplica el check optimista: la versión guardada tiene que
// coincidir con la que leyó el caller. Guarda con Version+1.
// Caller debe tener s.mu tomado en escritura.
func (s *Store) commitPetLocked(p pets.Pet) error {
	current, ok := s.pets[p.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != p.Version {
		return pets.ErrConflict
	}
	p.Version++
	s.pets[p.ID] = p
	return nil
}

// insertMilestonesLocked omite sin error los tipos ya registrados para la
// pareja. Caller debe tener s.mu tomado en escritura.
func (s *Store) insertMilestonesLocked(ms []evolution.Milestone) {
	for _, m := range ms {
		key := milestoneKey(m.CoupleID, m.Type)
		if _, exists := s.milestones[key]; exists {
			continue
		}
		s.milestones[key] = m
	}
}
