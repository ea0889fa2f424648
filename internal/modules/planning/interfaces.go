package planning

import (
	"context"

	"farmavisitas/internal/domain"
)

type PlanRepository interface {
	Create(ctx context.Context, p *domain.PlanEntry) error
	GetByID(ctx context.Context, id string) (*domain.PlanEntry, error)
	Update(ctx context.Context, p *domain.PlanEntry) error
	Delete(ctx context.Context, id string) error
	FindByDate(ctx context.Context, dia, mes, anio int) ([]domain.PlanEntry, error)
	ListAll(ctx context.Context) ([]domain.PlanEntry, error)
}

// ClientResolver is the client catalog view the board needs: resolve a
// plan entry to a live client by id or by denormalized full name.
type ClientResolver interface {
	ResolveClientByID(id string) (domain.Client, bool)
	ResolveClientByName(name string) (domain.Client, bool)
}

// VisitFinder supplies the completed visits used to drop already-visited
// targets from today's actionable list.
type VisitFinder interface {
	FindByDate(ctx context.Context, fecha string) ([]domain.Visit, error)
}

// Mirror is the best-effort remote side. MirrorPlan appends or updates a
// single row; RewritePlans clears the remote range and rewrites the full
// surviving collection (the protocol has no row delete).
type Mirror interface {
	MirrorPlan(ctx context.Context, entry domain.PlanEntry) error
	RewritePlans(ctx context.Context, entries []domain.PlanEntry) error
}
