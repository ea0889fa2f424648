package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmavisitas/internal/domain"
	"farmavisitas/internal/pkg/sheets"
	"farmavisitas/internal/pkg/validator"
	"farmavisitas/internal/repository"
)

// Service holds the in-memory client and medicine catalogs: the source of
// truth for "who can be visited" and "what can be sold" during a session.
// The maps are refreshed by bulk replace from the repositories or from
// the remote mirror; mutators write through to the store and then patch
// the maps.
type Service struct {
	clientsRepo ClientRepository
	medsRepo    MedicineRepository
	tables      TableReader // nil when no mirror is configured

	mu        sync.RWMutex
	clients   map[string]domain.Client
	byName    map[string]string // lowercase "nombre apellido" -> id
	medicines map[string]domain.Medicine
}

func NewService(clientsRepo ClientRepository, medsRepo MedicineRepository, tables TableReader) *Service {
	return &Service{
		clientsRepo: clientsRepo,
		medsRepo:    medsRepo,
		tables:      tables,
		clients:     make(map[string]domain.Client),
		byName:      make(map[string]string),
		medicines:   make(map[string]domain.Medicine),
	}
}

// Reload replaces both catalogs from the store in one sweep.
func (s *Service) Reload(ctx context.Context) error {
	clients, err := s.clientsRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	meds, err := s.medsRepo.List(ctx, "")
	if err != nil {
		return err
	}
	s.replaceAll(clients, meds)
	return nil
}

// ReloadFromSheets replaces both catalogs from the remote mirror instead
// of the local store. An undecodable row aborts the refresh; the current
// maps stay in place.
func (s *Service) ReloadFromSheets(ctx context.Context) error {
	if s.tables == nil {
		return ErrRemoteUnavailable
	}

	crows, err := s.tables.GetValues(ctx, sheets.SheetClientes+"!A2:I")
	if err != nil {
		return err
	}
	clients := make([]domain.Client, 0, len(crows))
	for _, row := range crows {
		c := decodeClientRow(row)
		if c.ID == "" {
			continue
		}
		clients = append(clients, c)
	}

	mrows, err := s.tables.GetValues(ctx, sheets.SheetMedicamentos+"!A2:J")
	if err != nil {
		return err
	}
	meds := make([]domain.Medicine, 0, len(mrows))
	for _, row := range mrows {
		m, err := decodeMedicineRow(row)
		if err != nil {
			return err
		}
		if m.ID == "" {
			continue
		}
		meds = append(meds, m)
	}

	s.replaceAll(clients, meds)
	return nil
}

func (s *Service) replaceAll(clients []domain.Client, meds []domain.Medicine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = make(map[string]domain.Client, len(clients))
	s.byName = make(map[string]string, len(clients))
	for _, c := range clients {
		s.clients[c.ID] = c
		s.byName[strings.ToLower(c.FullName())] = c.ID
	}
	s.medicines = make(map[string]domain.Medicine, len(meds))
	for _, m := range meds {
		s.medicines[m.ID] = m
	}
}

// ResolveClientByID returns an active client by id.
func (s *Service) ResolveClientByID(id string) (domain.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok || !c.Activo {
		return domain.Client{}, false
	}
	return c, true
}

// ResolveClientByName matches the denormalized "nombre apellido" form,
// case-insensitive, exact.
func (s *Service) ResolveClientByName(name string) (domain.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.Client{}, false
	}
	c, ok := s.clients[id]
	if !ok || !c.Activo {
		return domain.Client{}, false
	}
	return c, true
}

func (s *Service) MedicineByID(id string) (domain.Medicine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medicines[id]
	return m, ok
}

func (s *Service) CreateClient(ctx context.Context, c *domain.Client) error {
	if fields := validator.Validate(c); fields != nil {
		return ErrValidation
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Activo = true

	if err := s.clientsRepo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return ErrDuplicate
		}
		return err
	}

	s.mu.Lock()
	s.clients[c.ID] = *c
	s.byName[strings.ToLower(c.FullName())] = c.ID
	s.mu.Unlock()
	return nil
}

func (s *Service) UpdateClient(ctx context.Context, c *domain.Client) error {
	if c.ID == "" {
		return ErrValidation
	}
	if fields := validator.Validate(c); fields != nil {
		return ErrValidation
	}

	prev, err := s.clientsRepo.GetByID(ctx, c.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	c.Activo = prev.Activo
	c.CreatedAt = prev.CreatedAt

	if err := s.clientsRepo.Update(ctx, c); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.byName, strings.ToLower(prev.FullName()))
	s.clients[c.ID] = *c
	s.byName[strings.ToLower(c.FullName())] = c.ID
	s.mu.Unlock()
	return nil
}

func (s *Service) DeactivateClient(ctx context.Context, id string) error {
	if err := s.clientsRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if c, ok := s.clients[id]; ok {
		c.Activo = false
		s.clients[id] = c
	}
	s.mu.Unlock()
	return nil
}

func (s *Service) ListClients(ctx context.Context, search string) ([]domain.Client, error) {
	return s.clientsRepo.ListActive(ctx, search)
}

func (s *Service) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.clientsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) CreateMedicine(ctx context.Context, m *domain.Medicine) error {
	if fields := validator.Validate(m); fields != nil {
		return ErrValidation
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	if err := s.medsRepo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return ErrDuplicate
		}
		return err
	}

	s.mu.Lock()
	s.medicines[m.ID] = *m
	s.mu.Unlock()
	return nil
}

func (s *Service) UpdateMedicine(ctx context.Context, m *domain.Medicine) error {
	if m.ID == "" {
		return ErrValidation
	}
	if fields := validator.Validate(m); fields != nil {
		return ErrValidation
	}

	if _, err := s.medsRepo.GetByID(ctx, m.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.medsRepo.Update(ctx, m); err != nil {
		return err
	}

	s.mu.Lock()
	s.medicines[m.ID] = *m
	s.mu.Unlock()
	return nil
}

func (s *Service) DeleteMedicine(ctx context.Context, id string) error {
	if err := s.medsRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.medicines, id)
	s.mu.Unlock()
	return nil
}

func (s *Service) ListMedicines(ctx context.Context, search string) ([]domain.Medicine, error) {
	return s.medsRepo.List(ctx, search)
}

func (s *Service) GetMedicine(ctx context.Context, id string) (*domain.Medicine, error) {
	m, err := s.medsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
