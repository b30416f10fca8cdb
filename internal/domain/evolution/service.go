package evolution

import (
	"context"
	"errors"
	"strings"
	"time"

	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/domain/pets"
	"couple-pet-care/internal/platform/logger"
	"couple-pet-care/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

type Service struct {
	pets     *pets.Service
	couples  *couples.Service
	repo     Repository
	engine   *Engine
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(petsSvc *pets.Service, couplesSvc *couples.Service, repo Repository, notifier notify.Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		pets:     petsSvc,
		couples:  couplesSvc,
		repo:     repo,
		engine:   NewEngine(),
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CheckResult struct {
	HasEvolved    bool
	PreviousStage pets.Stage
	CurrentStage  pets.Stage
	Pet           pets.Pet
}

// Check re-evalúa la máquina de estados para el pet. Si los umbrales se
// cumplen avanza exactamente una etapa y persiste pet + milestone en una
// unidad atómica; si no, es un no-op y devuelve el snapshot actual.
func (s *Service) Check(ctx context.Context, petID, userID string) (CheckResult, error) {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)
	if petID == "" || userID == "" {
		return CheckResult{}, ErrInvalidInput
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return CheckResult{}, ErrNotFound
	}

	c, err := s.couples.GetByID(ctx, p.CoupleID)
	if err != nil || !c.HasMember(userID) {
		return CheckResult{}, ErrUnauthorized
	}

	now := s.now()

	ev, ok := s.engine.Evaluate(p.Stage, p.XP, p.StreakDays)
	if !ok {
		p.Stats = pets.DecayedStats(p.Stats, p.LastCareAt, now)
		return CheckResult{
			HasEvolved:    false,
			PreviousStage: p.Stage,
			CurrentStage:  p.Stage,
			Pet:           p,
		}, nil
	}

	p.Stage = ev.Next
	p.UpdatedAt = now

	var ms []Milestone
	if mt, ok := MilestoneForStage(ev.Next); ok {
		ms = append(ms, Milestone{
			ID:            uuid.NewString(),
			CoupleID:      p.CoupleID,
			Type:          mt,
			UnlockedStage: ev.Next,
			AchievedAt:    now,
		})
	}

	if err := s.repo.CommitStage(ctx, p, ms); err != nil {
		return CheckResult{}, err
	}
	p.Version++

	s.notifyEvolution(ctx, p, ev, ms)

	p.Stats = pets.DecayedStats(p.Stats, p.LastCareAt, now)
	return CheckResult{
		HasEvolved:    true,
		PreviousStage: ev.Previous,
		CurrentStage:  ev.Next,
		Pet:           p,
	}, nil
}

// AwardXP suma XP de bonus (mini-juegos) y re-evalúa la evolución, todo en
// el mismo commit atómico. No genera CareAction: el log de cuidados es solo
// para acciones de cuidado. La autorización es responsabilidad del caller.
func (s *Service) AwardXP(ctx context.Context, petID string, xp int) (pets.Pet, *Event, error) {
	if xp < 0 {
		return pets.Pet{}, nil, ErrInvalidInput
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return pets.Pet{}, nil, ErrNotFound
	}

	now := s.now()
	p.XP += xp
	p.UpdatedAt = now

	var evolved *Event
	var ms []Milestone

	if ev, ok := s.engine.Evaluate(p.Stage, p.XP, p.StreakDays); ok {
		p.Stage = ev.Next
		evolved = &ev
		if mt, ok := MilestoneForStage(ev.Next); ok {
			ms = append(ms, Milestone{
				ID:            uuid.NewString(),
				CoupleID:      p.CoupleID,
				Type:          mt,
				UnlockedStage: ev.Next,
				AchievedAt:    now,
			})
		}
	}

	if err := s.repo.CommitStage(ctx, p, ms); err != nil {
		return pets.Pet{}, nil, err
	}
	p.Version++

	if evolved != nil {
		s.notifyEvolution(ctx, p, *evolved, ms)
	}

	return p, evolved, nil
}

func (s *Service) ListMilestones(ctx context.Context, petID, userID string) ([]Milestone, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, ErrNotFound
	}

	c, err := s.couples.GetByID(ctx, p.CoupleID)
	if err != nil || !c.HasMember(userID) {
		return nil, ErrUnauthorized
	}

	return s.repo.ListByCouple(ctx, p.CoupleID)
}

// notifyEvolution es post-commit y best-effort: un fallo se loguea y nada más.
func (s *Service) notifyEvolution(ctx context.Context, p pets.Pet, ev Event, ms []Milestone) {
	mt := ""
	if len(ms) > 0 {
		mt = string(ms[0].Type)
	}
	if err := s.notifier.EvolutionReached(ctx, notify.EvolutionEvent{
		PetID:         p.ID,
		CoupleID:      p.CoupleID,
		PreviousStage: string(ev.Previous),
		NewStage:      string(ev.Next),
		MilestoneType: mt,
	}); err != nil {
		s.log.Warn("evolution notify failed", map[string]any{
			"pet_id": p.ID,
			"error":  err.Error(),
		})
	}
}
