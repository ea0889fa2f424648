package visit

import (
	"context"
	"log"
	"sync"
	"time"

	"farmavisitas/internal/domain"
)

const mirrorTimeout = 30 * time.Second

// Service tracks active visit sessions and commits finalized ones. One
// active session per client: starting a second visit for the same client
// before closing the first is rejected.
type Service struct {
	visits  VisitRepository
	catalog Catalog
	mirror  Mirror

	mu       sync.Mutex
	sessions map[string]*Session // session id -> session
	byClient map[string]string   // client id -> session id
	now      func() time.Time
}

func NewService(visits VisitRepository, catalog Catalog, mirror Mirror) *Service {
	return &Service{
		visits:   visits,
		catalog:  catalog,
		mirror:   mirror,
		sessions: make(map[string]*Session),
		byClient: make(map[string]string),
		now:      time.Now,
	}
}

// Start resolves the client (id first, denormalized name fallback) and
// opens a session.
func (s *Service) Start(clienteID, nombreMedico, gira string) (*Session, error) {
	var client domain.Client
	var ok bool
	if clienteID != "" {
		client, ok = s.catalog.ResolveClientByID(clienteID)
	}
	if !ok && nombreMedico != "" {
		client, ok = s.catalog.ResolveClientByName(nombreMedico)
	}
	if !ok {
		return nil, ErrClientResolution
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byClient[client.ID]; exists {
		return nil, ErrSessionActive
	}

	sess := NewSession(client, gira, s.now())
	s.sessions[sess.ID] = sess
	s.byClient[client.ID] = sess.ID
	return sess.Snapshot(), nil
}

func (s *Service) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Snapshot(), nil
}

func (s *Service) SetPriceTier(sessionID string, tier domain.PriceTier) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := sess.SetPriceTier(tier); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

func (s *Service) AddItem(sessionID, medicineID string, qty int) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	med, ok := s.catalog.MedicineByID(medicineID)
	if !ok {
		return nil, ErrMedicineNotFound
	}
	if err := sess.AddItem(med, qty); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

func (s *Service) UpdateQuantity(sessionID, medicineID string, delta int) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := sess.UpdateQuantity(medicineID, delta); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// BonusPreview returns the advisory bonus text for a medicine at a
// quantity under the session's current tier.
func (s *Service) BonusPreview(sessionID, medicineID string, qty int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	med, ok := s.catalog.MedicineByID(medicineID)
	if !ok {
		return "", ErrMedicineNotFound
	}
	return ComputeBonus(med, qty, sess.Tier), nil
}

// Finalize commits the session: the Visit (with its Sale when the cart
// is non-empty) is persisted in one transaction, the session is
// retired, and the mirror write goes out in the background.
func (s *Service) Finalize(ctx context.Context, sessionID, notas string) (*domain.Visit, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	v, err := sess.Finalize(notas, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	// The session stays registered but terminal while the write is in
	// flight, so concurrent mutations are still rejected. A store
	// failure re-arms it instead of destroying the captured cart.
	if err := s.visits.CreateCompleted(ctx, v); err != nil {
		s.mu.Lock()
		sess.State = StateInProgress
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	delete(s.byClient, sess.Client.ID)
	s.mu.Unlock()

	s.mirrorAsync(*v)
	return v, nil
}

// Abandon retires the session with no side effects at all.
func (s *Service) Abandon(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if err := sess.Abandon(); err != nil {
		return err
	}
	delete(s.sessions, sessionID)
	delete(s.byClient, sess.Client.ID)
	return nil
}

func (s *Service) VisitsByDate(ctx context.Context, fecha string) ([]domain.Visit, error) {
	return s.visits.FindByDate(ctx, fecha)
}

func (s *Service) VisitsByRange(ctx context.Context, desde, hasta string) ([]domain.Visit, error) {
	return s.visits.FindByRange(ctx, desde, hasta)
}

func (s *Service) mirrorAsync(v domain.Visit) {
	if s.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.MirrorVisit(ctx, v); err != nil {
			log.Printf("visit: mirror of %s failed: %v", v.ID, err)
		}
	}()
}
