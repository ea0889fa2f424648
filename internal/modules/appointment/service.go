package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmavisitas/internal/domain"
	"farmavisitas/internal/repository"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("appointment not found")
)

type Repository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id string) error
	FindByDate(ctx context.Context, fecha string) ([]domain.Appointment, error)
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	PendingReminders(ctx context.Context, fecha string) ([]domain.Appointment, error)
	MarkNotified(ctx context.Context, id string) error
}

// ClientResolver fills the denormalized client name on creation.
type ClientResolver interface {
	ResolveClientByID(id string) (domain.Client, bool)
}

type Service struct {
	repo    Repository
	clients ClientResolver
}

func NewService(repo Repository, clients ClientResolver) *Service {
	return &Service{repo: repo, clients: clients}
}

func (s *Service) Create(ctx context.Context, a *domain.Appointment) error {
	if a.Fecha == "" || a.Hora == "" {
		return ErrValidation
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.ClienteNombre == "" && a.ClienteID != "" && s.clients != nil {
		if c, ok := s.clients.ResolveClientByID(a.ClienteID); ok {
			a.ClienteNombre = c.FullName()
		}
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return ErrValidation
		}
		return err
	}
	return nil
}

func (s *Service) Update(ctx context.Context, a *domain.Appointment) error {
	if a.ID == "" || a.Fecha == "" || a.Hora == "" {
		return ErrValidation
	}

	prev, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	a.CreatedAt = prev.CreatedAt
	// Rescheduling re-arms the reminder.
	if a.Fecha != prev.Fecha || a.Hora != prev.Hora {
		a.Notificado = false
	}

	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByDate(ctx context.Context, fecha string) ([]domain.Appointment, error) {
	return s.repo.FindByDate(ctx, fecha)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.repo.ListAll(ctx)
}
