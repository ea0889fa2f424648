package catalog

import (
	"context"

	"farmavisitas/internal/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Deactivate(ctx context.Context, id string) error
	ListActive(ctx context.Context, search string) ([]domain.Client, error)
	ListAll(ctx context.Context) ([]domain.Client, error)
}

// TableReader is the read side of the remote mirror, used when the
// catalogs are refreshed from the sheet instead of the local store.
type TableReader interface {
	GetValues(ctx context.Context, rangeSpec string) ([][]string, error)
}

type MedicineRepository interface {
	Create(ctx context.Context, m *domain.Medicine) error
	GetByID(ctx context.Context, id string) (*domain.Medicine, error)
	Update(ctx context.Context, m *domain.Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string) ([]domain.Medicine, error)
}
