package visit

import (
	"context"

	"farmavisitas/internal/domain"
)

type VisitRepository interface {
	CreateCompleted(ctx context.Context, v *domain.Visit) error
	GetByID(ctx context.Context, id string) (*domain.Visit, error)
	FindByDate(ctx context.Context, fecha string) ([]domain.Visit, error)
	FindByRange(ctx context.Context, desde, hasta string) ([]domain.Visit, error)
}

// Catalog is the slice of the catalog service a session needs: resolving
// the client to visit and the medicines entering the cart.
type Catalog interface {
	ResolveClientByID(id string) (domain.Client, bool)
	ResolveClientByName(name string) (domain.Client, bool)
	MedicineByID(id string) (domain.Medicine, bool)
}

// Mirror pushes a finalized visit (and its sale) to the remote store,
// best effort.
type Mirror interface {
	MirrorVisit(ctx context.Context, v domain.Visit) error
}
