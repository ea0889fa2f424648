package repository

import (
	"context"
	"errors"
	"time"

	"farmavisitas/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrDuplicateID = errors.New("duplicate id")

// isDuplicate maps driver-specific unique-violation errors.
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

type clientModel struct {
	ID           string    `gorm:"column:id;primaryKey;size:64"`
	Colegiado    string    `gorm:"column:colegiado"`
	Especialidad string    `gorm:"column:especialidad"`
	Nombre       string    `gorm:"column:nombre"`
	Apellido     string    `gorm:"column:apellido"`
	Direccion    string    `gorm:"column:direccion"`
	Municipio    string    `gorm:"column:municipio"`
	Departamento string    `gorm:"column:departamento"`
	Telefono     string    `gorm:"column:telefono"`
	Activo       bool      `gorm:"column:activo"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (clientModel) TableName() string { return "clientes" }

func toDomainClient(m clientModel) *domain.Client {
	return &domain.Client{
		ID:           m.ID,
		Colegiado:    m.Colegiado,
		Especialidad: m.Especialidad,
		Nombre:       m.Nombre,
		Apellido:     m.Apellido,
		Direccion:    m.Direccion,
		Municipio:    m.Municipio,
		Departamento: m.Departamento,
		Telefono:     m.Telefono,
		Activo:       m.Activo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toClientModel(c *domain.Client) clientModel {
	return clientModel{
		ID:           c.ID,
		Colegiado:    c.Colegiado,
		Especialidad: c.Especialidad,
		Nombre:       c.Nombre,
		Apellido:     c.Apellido,
		Direccion:    c.Direccion,
		Municipio:    c.Municipio,
		Departamento: c.Departamento,
		Telefono:     c.Telefono,
		Activo:       c.Activo,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	m := toClientModel(c)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return ErrDuplicateID
		}
		return tx.Error
	}
	*c = *toDomainClient(m)
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var m clientModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainClient(m), nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	m := toClientModel(c)
	return r.db.WithContext(ctx).Save(&m).Error
}

// Deactivate soft-deletes; planning never hard-deletes clients.
func (r *ClientRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&clientModel{}).
		Where("id = ?", id).
		Update("activo", false).Error
}

// ListActive returns active clients, optionally filtered by a substring on
// nombre/apellido/especialidad.
func (r *ClientRepository) ListActive(ctx context.Context, search string) ([]domain.Client, error) {
	q := r.db.WithContext(ctx).Where("activo = ?", true)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("nombre LIKE ? OR apellido LIKE ? OR especialidad LIKE ?", like, like, like)
	}

	var rows []clientModel
	if err := q.Order("apellido, nombre").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Client, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainClient(m))
	}
	return out, nil
}

// ListAll returns every client regardless of activo, for catalog reloads
// and the full-collection mirror.
func (r *ClientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	var rows []clientModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainClient(m))
	}
	return out, nil
}
