package minigames

import (
	"context"
	"errors"
	"strings"
	"time"

	"couple-pet-care/internal/domain/couples"
	"couple-pet-care/internal/domain/evolution"
	"couple-pet-care/internal/domain/pets"
	"couple-pet-care/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrSealed       = errors.New("session already completed")
)

// XPDivisor: cada 10 puntos de score final alimentan 1 XP al pipeline.
const XPDivisor = 10

// awardRetries: reintentos internos ante conflicto de versión al acreditar
// XP (la sesión ya quedó sellada, así que no hay doble acreditación).
const awardRetries = 3

type Service struct {
	pets      *pets.Service
	couples   *couples.Service
	repo      Repository
	evolution *evolution.Service
	log       logger.Logger
	now       func() time.Time
}

func NewService(petsSvc *pets.Service, couplesSvc *couples.Service, repo Repository, evoSvc *evolution.Service, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		pets:      petsSvc,
		couples:   couplesSvc,
		repo:      repo,
		evolution: evoSvc,
		log:       log,
		now:       time.Now,
	}
}

type StartInput struct {
	GameType GameType
	IsCoop   bool
}

// Start crea la sesión. En co-op el partner queda como participante desde
// el inicio; su delta de sincronización llega recién al completar.
func (s *Service) Start(ctx context.Context, petID, userID string, in StartInput) (Session, error) {
	petID = strings.TrimSpace(petID)
	userID = strings.TrimSpace(userID)
	if petID == "" || userID == "" {
		return Session{}, ErrInvalidInput
	}
	if !ValidGameType(in.GameType) {
		return Session{}, ErrInvalidInput
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Session{}, ErrNotFound
	}

	c, err := s.couples.GetByID(ctx, p.CoupleID)
	if err != nil || !c.HasMember(userID) {
		return Session{}, ErrUnauthorized
	}

	participants := []string{userID}
	if in.IsCoop {
		if partner := c.PartnerOf(userID); partner != "" {
			participants = append(participants, partner)
		}
	}

	sess := Session{
		ID:           uuid.NewString(),
		PetID:        petID,
		GameType:     in.GameType,
		Participants: participants,
		IsCoop:       in.IsCoop,
		StartedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

type CompleteInput struct {
	RawScore    int
	Accuracy    int
	ActionCount int

	// Delta entre la unión de ambos partners; nil en partidas solo.
	// Llega out-of-band desde la capa de mensajería, no se reinventa acá.
	SyncDeltaMs *int
}

type CompleteResult struct {
	Session   Session
	XPAwarded int
	Evolved   bool
	Pet       pets.Pet
}

// Complete valida plausibilidad, calcula el score final, sella la sesión y
// alimenta el XP de bonus al pipeline del pet (con evolución incluida).
// Una sesión implausible se descarta entera, nunca se recorta.
func (s *Service) Complete(ctx context.Context, sessionID, userID string, in CompleteInput) (CompleteResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	userID = strings.TrimSpace(userID)
	if sessionID == "" || userID == "" {
		return CompleteResult{}, ErrInvalidInput
	}
	if in.RawScore < 0 || in.Accuracy < 0 || in.Accuracy > 100 {
		return CompleteResult{}, ErrInvalidInput
	}

	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return CompleteResult{}, ErrNotFound
	}
	if !isParticipant(sess, userID) {
		return CompleteResult{}, ErrUnauthorized
	}
	if sess.Sealed() {
		if sess.XPCredited {
			return CompleteResult{}, ErrSealed
		}
		// Sellada pero sin acreditar: un Complete anterior falló después del
		// sellado. Se reintenta la acreditación con el score congelado; el
		// input del cliente se ignora.
		return s.creditXP(ctx, sess)
	}

	now := s.now()
	duration := now.Sub(sess.StartedAt)

	if err := Validate(sess.GameType, duration, in.ActionCount); err != nil {
		// Sesión descartada: no queda score, no queda registro.
		if derr := s.repo.Discard(ctx, sessionID); derr != nil {
			s.log.Warn("discard session failed", map[string]any{
				"session_id": sessionID,
				"error":      derr.Error(),
			})
		}
		return CompleteResult{}, err
	}

	final := Score(in.RawScore, in.Accuracy, sess.IsCoop, in.SyncDeltaMs)

	sess.RawScore = in.RawScore
	sess.Accuracy = in.Accuracy
	sess.FinalScore = final
	sess.Rank = RankFor(final)
	sess.CompletedAt = &now

	// Sellar primero: garantiza que un doble-complete no acredite XP dos veces.
	if err := s.repo.Seal(ctx, sess); err != nil {
		return CompleteResult{}, err
	}

	return s.creditXP(ctx, sess)
}

// creditXP acredita el XP de una sesión ya sellada y marca el crédito.
// Idempotente por el flag XPCredited: si la acreditación falla, la sesión
// queda sellada pero recuperable y el XP no se pierde.
func (s *Service) creditXP(ctx context.Context, sess Session) (CompleteResult, error) {
	xp := sess.FinalScore / XPDivisor

	var pet pets.Pet
	var ev *evolution.Event
	var err error
	for attempt := 0; ; attempt++ {
		pet, ev, err = s.evolution.AwardXP(ctx, sess.PetID, xp)
		if err == nil || !errors.Is(err, pets.ErrConflict) || attempt >= awardRetries {
			break
		}
	}
	if err != nil {
		return CompleteResult{}, err
	}

	if merr := s.repo.MarkXPCredited(ctx, sess.ID); merr != nil {
		s.log.Warn("mark xp credited failed", map[string]any{
			"session_id": sess.ID,
			"error":      merr.Error(),
		})
	}
	sess.XPCredited = true

	return CompleteResult{
		Session:   sess,
		XPAwarded: xp,
		Evolved:   ev != nil,
		Pet:       pet,
	}, nil
}

func (s *Service) ListByPet(ctx context.Context, petID, userID string, limit int) ([]Session, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, ErrNotFound
	}

	c, err := s.couples.GetByID(ctx, p.CoupleID)
	if err != nil || !c.HasMember(userID) {
		return nil, ErrUnauthorized
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByPet(ctx, petID, limit)
}

func isParticipant(sess Session, userID string) bool {
	for _, p := range sess.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
