package couples

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyPaired = errors.New("already paired")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Pair crea la pareja entre el usuario actual y su partner.
// Un usuario solo puede pertenecer a una pareja activa a la vez.
func (s *Service) Pair(ctx context.Context, userID, partnerUserID string) (Couple, error) {
	userID = strings.TrimSpace(userID)
	partnerUserID = strings.TrimSpace(partnerUserID)

	if userID == "" || partnerUserID == "" {
		return Couple{}, ErrInvalidInput
	}
	if userID == partnerUserID {
		return Couple{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByMember(ctx, userID); err == nil {
		return Couple{}, ErrAlreadyPaired
	}
	if _, err := s.repo.GetByMember(ctx, partnerUserID); err == nil {
		return Couple{}, ErrAlreadyPaired
	}

	c := Couple{
		ID:        uuid.NewString(),
		UserAID:   userID,
		UserBID:   partnerUserID,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Couple{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Couple, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Couple{}, ErrInvalidInput
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Couple{}, ErrNotFound
	}
	return c, nil
}

// CoupleOf devuelve la pareja activa del usuario.
func (s *Service) CoupleOf(ctx context.Context, userID string) (Couple, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Couple{}, ErrInvalidInput
	}
	c, err := s.repo.GetByMember(ctx, userID)
	if err != nil {
		return Couple{}, ErrNotFound
	}
	return c, nil
}
