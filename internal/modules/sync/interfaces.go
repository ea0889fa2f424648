package sync

import (
	"context"

	"farmavisitas/internal/domain"
)

// TableClient is the remote tabular protocol the coordinator drives.
type TableClient interface {
	GetValues(ctx context.Context, rangeSpec string) ([][]string, error)
	AppendValues(ctx context.Context, rangeSpec string, rows [][]string) error
	UpdateValues(ctx context.Context, rangeSpec string, rows [][]string) error
	ClearValues(ctx context.Context, rangeSpec string) error
}

type ClientSource interface {
	ListAll(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
}

type MedicineSource interface {
	List(ctx context.Context, search string) ([]domain.Medicine, error)
	GetByID(ctx context.Context, id string) (*domain.Medicine, error)
}

type VisitSource interface {
	ListAll(ctx context.Context) ([]domain.Visit, error)
	GetByID(ctx context.Context, id string) (*domain.Visit, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSaleByID(ctx context.Context, id string) (*domain.Sale, error)
}

type AppointmentSource interface {
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
}

type PlanSource interface {
	ListAll(ctx context.Context) ([]domain.PlanEntry, error)
	GetByID(ctx context.Context, id string) (*domain.PlanEntry, error)
}

// StatusRecorder keeps the last mirror outcome per entity.
type StatusRecorder interface {
	Record(ctx context.Context, s domain.SyncStatus) error
	ListFailed(ctx context.Context) ([]domain.SyncStatus, error)
}
