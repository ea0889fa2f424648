package planning

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmavisitas/internal/domain"
)

const mirrorTimeout = 30 * time.Second

// Service is the planning board. All mutations are local-first: the store
// write happens synchronously, the remote mirror runs on a goroutine and
// its failure never rolls the local state back.
type Service struct {
	plans   PlanRepository
	clients ClientResolver
	visits  VisitFinder
	mirror  Mirror
}

func NewService(plans PlanRepository, clients ClientResolver, visits VisitFinder, mirror Mirror) *Service {
	return &Service{plans: plans, clients: clients, visits: visits, mirror: mirror}
}

func validateEntry(p *domain.PlanEntry) error {
	// Range checks only. The triple is never validated against a real
	// calendar: dia=31/mes=2 passes, matching the capture screens.
	if p.Dia < 1 || p.Dia > 31 || p.Mes < 1 || p.Mes > 12 || p.Anio < 2000 {
		return ErrValidation
	}
	if p.NombreMedico == "" && p.ClienteID == "" {
		return ErrValidation
	}
	return nil
}

// Query returns entries matching dia/mes/anio exactly.
func (s *Service) Query(ctx context.Context, dia, mes, anio int) ([]domain.PlanEntry, error) {
	return s.plans.FindByDate(ctx, dia, mes, anio)
}

func (s *Service) Add(ctx context.Context, p *domain.PlanEntry) error {
	if err := validateEntry(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Gira == "" {
		p.Gira = "General"
	}

	if err := s.plans.Create(ctx, p); err != nil {
		return err
	}

	s.mirrorEntryAsync(*p)
	return nil
}

func (s *Service) Update(ctx context.Context, p *domain.PlanEntry) error {
	if p.ID == "" {
		return ErrValidation
	}
	if err := validateEntry(p); err != nil {
		return err
	}

	prev, err := s.plans.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	p.CreatedAt = prev.CreatedAt

	if err := s.plans.Update(ctx, p); err != nil {
		return err
	}

	s.mirrorEntryAsync(*p)
	return nil
}

// Remove deletes locally, then rewrites the whole remote range from the
// surviving collection. Clear-and-rewrite trades write amplification for
// not having to track remote row offsets.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.plans.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.plans.Delete(ctx, id); err != nil {
		return err
	}

	survivors, err := s.plans.ListAll(ctx)
	if err != nil {
		// Local delete already happened; skip the mirror rather than fail.
		log.Printf("planning: list after remove failed, mirror skipped: %v", err)
		return nil
	}

	s.rewriteRemoteAsync(survivors)
	return nil
}

// GenerateWeek expands a tour template across Monday..Friday of the week
// that contains the given start date, creating one entry per template
// slot per day.
func (s *Service) GenerateWeek(ctx context.Context, start time.Time, gira string, slots []WeekSlot) ([]domain.PlanEntry, error) {
	if len(slots) == 0 {
		return nil, ErrValidation
	}

	// Walk back to Monday.
	monday := start
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	created := make([]domain.PlanEntry, 0, len(slots))
	for _, slot := range slots {
		if slot.Weekday < 1 || slot.Weekday > 5 {
			return nil, ErrValidation
		}
		day := monday.AddDate(0, 0, slot.Weekday-1)

		entry := domain.PlanEntry{
			ID:           uuid.NewString(),
			Gira:         gira,
			Dia:          day.Day(),
			Mes:          int(day.Month()),
			Anio:         day.Year(),
			Horario:      slot.Horario,
			Direccion:    slot.Direccion,
			NombreMedico: slot.NombreMedico,
			ClienteID:    slot.ClienteID,
		}
		if entry.Gira == "" {
			entry.Gira = "General"
		}
		if err := validateEntry(&entry); err != nil {
			return nil, err
		}
		if err := s.plans.Create(ctx, &entry); err != nil {
			return nil, err
		}
		created = append(created, entry)
	}

	for _, e := range created {
		s.mirrorEntryAsync(e)
	}
	return created, nil
}

// WeekSlot is one template position: Weekday 1 = Monday .. 5 = Friday.
type WeekSlot struct {
	Weekday      int    `json:"weekday" binding:"required"`
	Horario      string `json:"horario"`
	Direccion    string `json:"direccion"`
	NombreMedico string `json:"nombre_medico"`
	ClienteID    string `json:"cliente_id"`
}

// ResolveTargetsForToday joins today's plan entries to live clients:
// clienteId first, exact full-name match as fallback. Entries resolving
// to nothing are stale history, not errors, and are dropped. Targets the
// rep already completed a visit for today are dropped too.
func (s *Service) ResolveTargetsForToday(ctx context.Context, now time.Time) ([]domain.VisitTarget, error) {
	entries, err := s.plans.FindByDate(ctx, now.Day(), int(now.Month()), now.Year())
	if err != nil {
		return nil, err
	}

	targets := resolveTargets(entries, s.clients)

	visits, err := s.visits.FindByDate(ctx, domain.DateKey(now))
	if err != nil {
		return nil, err
	}
	return DeduplicateAgainstCompletedVisits(targets, visits, domain.DateKey(now)), nil
}

func resolveTargets(entries []domain.PlanEntry, clients ClientResolver) []domain.VisitTarget {
	targets := make([]domain.VisitTarget, 0, len(entries))
	for _, e := range entries {
		if e.ClienteID != "" {
			if c, ok := clients.ResolveClientByID(e.ClienteID); ok {
				targets = append(targets, domain.VisitTarget{Entry: e, Client: c})
				continue
			}
		}
		if c, ok := clients.ResolveClientByName(e.NombreMedico); ok {
			targets = append(targets, domain.VisitTarget{Entry: e, Client: c})
		}
	}
	return targets
}

// DeduplicateAgainstCompletedVisits drops targets whose client already has
// a completed visit on the given date. The plan entries themselves are
// untouched; only the actionable list shrinks.
func DeduplicateAgainstCompletedVisits(targets []domain.VisitTarget, visits []domain.Visit, fecha string) []domain.VisitTarget {
	done := make(map[string]bool)
	for _, v := range visits {
		if v.Completada && v.Fecha == fecha {
			done[v.ClienteID] = true
		}
	}

	out := make([]domain.VisitTarget, 0, len(targets))
	for _, t := range targets {
		if done[t.Client.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *Service) mirrorEntryAsync(entry domain.PlanEntry) {
	if s.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.MirrorPlan(ctx, entry); err != nil {
			log.Printf("planning: mirror entry %s failed: %v", entry.ID, err)
		}
	}()
}

func (s *Service) rewriteRemoteAsync(entries []domain.PlanEntry) {
	if s.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.RewritePlans(ctx, entries); err != nil {
			log.Printf("planning: remote rewrite of %d entries failed: %v", len(entries), err)
		}
	}()
}
