package repository

import (
	"context"
	"time"

	"farmavisitas/internal/domain"

	"gorm.io/gorm"
)

type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

type medicineModel struct {
	ID                string    `gorm:"column:id;primaryKey;size:64"`
	Nombre            string    `gorm:"column:nombre"`
	Presentacion      string    `gorm:"column:presentacion"`
	PrecioPublico     float64   `gorm:"column:precio_publico"`
	PrecioFarmacia    float64   `gorm:"column:precio_farmacia"`
	PrecioMedico      float64   `gorm:"column:precio_medico"`
	Bonificacion2a9   string    `gorm:"column:bonificacion_2a9"`
	Bonificacion10Mas string    `gorm:"column:bonificacion_10mas"`
	Stock             int       `gorm:"column:stock"`
	Oferta            bool      `gorm:"column:oferta"`
	DescripcionOferta string    `gorm:"column:descripcion_oferta"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (medicineModel) TableName() string { return "medicamentos" }

func toDomainMedicine(m medicineModel) *domain.Medicine {
	return &domain.Medicine{
		ID:                m.ID,
		Nombre:            m.Nombre,
		Presentacion:      m.Presentacion,
		PrecioPublico:     m.PrecioPublico,
		PrecioFarmacia:    m.PrecioFarmacia,
		PrecioMedico:      m.PrecioMedico,
		Bonificacion2a9:   m.Bonificacion2a9,
		Bonificacion10Mas: m.Bonificacion10Mas,
		Stock:             m.Stock,
		Oferta:            m.Oferta,
		DescripcionOferta: m.DescripcionOferta,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toMedicineModel(d *domain.Medicine) medicineModel {
	return medicineModel{
		ID:                d.ID,
		Nombre:            d.Nombre,
		Presentacion:      d.Presentacion,
		PrecioPublico:     d.PrecioPublico,
		PrecioFarmacia:    d.PrecioFarmacia,
		PrecioMedico:      d.PrecioMedico,
		Bonificacion2a9:   d.Bonificacion2a9,
		Bonificacion10Mas: d.Bonificacion10Mas,
		Stock:             d.Stock,
		Oferta:            d.Oferta,
		DescripcionOferta: d.DescripcionOferta,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (r *MedicineRepository) Create(ctx context.Context, m *domain.Medicine) error {
	row := toMedicineModel(m)
	tx := r.db.WithContext(ctx).Create(&row)
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return ErrDuplicateID
		}
		return tx.Error
	}
	*m = *toDomainMedicine(row)
	return nil
}

func (r *MedicineRepository) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	var row medicineModel
	tx := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMedicine(row), nil
}

func (r *MedicineRepository) Update(ctx context.Context, m *domain.Medicine) error {
	row := toMedicineModel(m)
	return r.db.WithContext(ctx).Save(&row).Error
}

func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&medicineModel{}, "id = ?", id).Error
}

func (r *MedicineRepository) List(ctx context.Context, search string) ([]domain.Medicine, error) {
	q := r.db.WithContext(ctx)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("nombre LIKE ? OR presentacion LIKE ?", like, like)
	}

	var rows []medicineModel
	if err := q.Order("nombre").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Medicine, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toDomainMedicine(row))
	}
	return out, nil
}
