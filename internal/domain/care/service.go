package care

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/domain/evolution"
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

// CooldownError es un rechazo esperable y recuperable: el caller debe
// esperar RetryAfter y reintentar. No se loguea como fallo.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ReasonCooldownActive, e.RetryAfter)
}

// DefaultCoopWindow: ambos partners actuando dentro de esta ventana
// dispara el bonus cooperativo sobre los deltas de stats.
const DefaultCoopWindow = 90 * time.Second

// Service es el gateway autoritativo de acciones de cuidado. Es la única
// frontera por la que se muta el pet: nunca confía en cooldowns ni stats
// enviados por el cliente, siempre re-deriva desde lo persistido.
type Service struct {
	pets     *pets.Service
	couples  *couples.Service
	repo     Repository
	engine   *evolution.Engine
	notifier notify.Notifier
	log      logger.Logger

	coopWindow time.Duration
	now        func() time.Time
}

func NewService(petsSvc *pets.Service, couplesSvc *couples.Service, repo Repository, notifier notify.Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		pets:       petsSvc,
		couples:    couplesSvc,
		repo:       repo,
		engine:     evolution.NewEngine(),
		notifier:   notifier,
		log:        log,
		coopWindow: DefaultCoopWindow,
		now:        time.Now,
	}
}

type PerformResult struct {
	Pet           pets.Pet
	Action        CareAction
	XPAwarded     int
	Evolved       bool
	PreviousStage pets.Stage
}

// Perform aplica una acción de cuidado de punta a punta:
//
//  1. ownership: el usuario debe pertenecer a la pareja dueña del pet
//  2. stats actuales re-derivados vía StatClock (lo del cliente no cuenta)
//  3. CareRules: cooldown + deltas + XP
//  4. racha incremental, bonus co-op, personalidad, evolución
//  5. commit atómico (pet + log + milestones) con lock optimista
//  6. post-commit: notificación best-effort
func (s *Service) Perform(ctx context.Context, petID, userID string, actionType ActionType) (PerformResult, error) {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)
	if petID == "" || userID == "" {
		return PerformResult{}, ErrInvalidInput
	}
	if !ValidActionType(actionType) {
		return PerformResult{}, ErrInvalidAction
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return PerformResult{}, ErrNotFound
	}

	c, err := s.couples.GetByID(ctx, p.CoupleID)
	if err != nil || !c.HasMember(userID) {
		s.log.Warn("care rejected: user outside owning couple", map[string]any{
			"pet_id":  petID,
			"user_id": userID,
		})
		return PerformResult{}, ErrUnauthorized
	}

	now := s.now()
	decayed := pets.DecayedStats(p.Stats, p.LastCareAt, now)

	lastSame, err := s.repo.LastActionAt(ctx, petID, actionType)
	if err != nil {
		return PerformResult{}, err
	}

	coop, err := s.partnerActedRecently(ctx, petID, c.PartnerOf(userID), now)
	if err != nil {
		return PerformResult{}, err
	}

	res, err := Apply(RulesInput{
		Action:         actionType,
		Now:            now,
		Stats:          decayed,
		StreakDays:     p.StreakDays,
		LastSameAction: lastSame,
		CoopBonus:      coop,
	})
	if err != nil {
		return PerformResult{}, err
	}
	if !res.Accepted {
		// Rechazo por cooldown: cero mutación, cero registro.
		return PerformResult{}, &CooldownError{RetryAfter: res.RetryAfter}
	}

	newStreak := nextStreak(p.LastCareAt, now, p.StreakDays)

	counts, err := s.repo.CountByType(ctx, petID)
	if err != nil {
		return PerformResult{}, err
	}
	if counts == nil {
		counts = map[ActionType]int{}
	}
	counts[actionType]++

	prevStage := p.Stage
	updated := p
	updated.Stats = res.NewStats
	updated.XP = p.XP + res.XPAwarded
	updated.StreakDays = newStreak
	updated.LastCareAt = now
	updated.Traits = RecomputeTraits(counts)
	updated.UpdatedAt = now

	var ms []evolution.Milestone
	if newStreak > p.StreakDays {
		if mt, ok := evolution.MilestoneForStreak(newStreak); ok {
			ms = append(ms, evolution.Milestone{
				ID:         uuid.NewString(),
				CoupleID:   p.CoupleID,
				Type:       mt,
				AchievedAt: now,
			})
		}
	}

	evolved := false
	if ev, ok := s.engine.Evaluate(updated.Stage, updated.XP, updated.StreakDays); ok {
		updated.Stage = ev.Next
		evolved = true
		if mt, ok := evolution.MilestoneForStage(ev.Next); ok {
			ms = append(ms, evolution.Milestone{
				ID:            uuid.NewString(),
				CoupleID:      p.CoupleID,
				Type:          mt,
				UnlockedStage: ev.Next,
				AchievedAt:    now,
			})
		}
	}

	action := CareAction{
		ID:          uuid.NewString(),
		PetID:       petID,
		UserID:      userID,
		Type:        actionType,
		PerformedAt: now,
		XPAwarded:   res.XPAwarded,
		CoopBonus:   coop,
	}

	if err := s.repo.CommitCare(ctx, updated, action, ms); err != nil {
		// Perder la carrera de versión es retryable, igual que un cooldown.
		return PerformResult{}, err
	}
	updated.Version++

	s.notifyCare(ctx, updated, action, evolved, prevStage, ms)

	return PerformResult{
		Pet:           updated,
		Action:        action,
		XPAwarded:     res.XPAwarded,
		Evolved:       evolved,
		PreviousStage: prevStage,
	}, nil
}

// History lista el log de auditoría del pet (solo miembros de la pareja).
func (s *Service) History(ctx context.Context, petID, userID string, f ListFilter) ([]CareAction, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, ErrNotFound
	}

	c, err := s.couples.GetByID(ctx, p.CoupleID)
	if err != nil || !c.HasMember(userID) {
		return nil, ErrUnauthorized
	}

	return s.repo.ListByPet(ctx, petID, f)
}

func (s *Service) partnerActedRecently(ctx context.Context, petID, partnerID string, now time.Time) (bool, error) {
	if partnerID == "" {
		return false, nil
	}
	last, ok, err := s.repo.LatestByUser(ctx, petID, partnerID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	delta := now.Sub(last.PerformedAt)
	return delta >= 0 && delta <= s.coopWindow, nil
}

// nextStreak: mismo día calendario no cambia la racha, el día siguiente
// suma uno, cualquier hueco la reinicia a 1. Días en UTC.
func nextStreak(lastCare, now time.Time, current int) int {
	if lastCare.IsZero() || current == 0 {
		return 1
	}

	lastDay := lastCare.UTC().Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)

	switch today.Sub(lastDay) {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 24 * time.Hour:
		return current + 1
	default:
		return 1
	}
}

func (s *Service) notifyCare(ctx context.Context, p pets.Pet, a CareAction, evolved bool, prev pets.Stage, ms []evolution.Milestone) {
	if err := s.notifier.CarePerformed(ctx, notify.CareEvent{
		PetID:       p.ID,
		CoupleID:    p.CoupleID,
		ActorUserID: a.UserID,
		ActionType:  string(a.Type),
		XPAwarded:   a.XPAwarded,
		CoopBonus:   a.CoopBonus,
	}); err != nil {
		s.log.Warn("care notify failed", map[string]any{
			"pet_id": p.ID,
			"error":  err.Error(),
		})
	}

	if !evolved {
		return
	}

	mt := ""
	for _, m := range ms {
		if m.UnlockedStage != "" {
			mt = string(m.Type)
		}
	}
	if err := s.notifier.EvolutionReached(ctx, notify.EvolutionEvent{
		PetID:         p.ID,
		CoupleID:      p.CoupleID,
		PreviousStage: string(prev),
		NewStage:      string(p.Stage),
		MilestoneType: mt,
	}); err != nil {
		s.log.Warn("evolution notify failed", map[string]any{
			"pet_id": p.ID,
			"error":  err.Error(),
		})
	}
}
