package repository

import (
	"context"
	"time"

	"farmavisitas/internal/domain"

	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

type planModel struct {
	ID           string    `gorm:"column:id;primaryKey;size:64"`
	Gira         string    `gorm:"column:gira"`
	Dia          int       `gorm:"column:dia;index:idx_plan_fecha"`
	Mes          int       `gorm:"column:mes;index:idx_plan_fecha"`
	Anio         int       `gorm:"column:anio;index:idx_plan_fecha"`
	Horario      string    `gorm:"column:horario"`
	Direccion    string    `gorm:"column:direccion"`
	NombreMedico string    `gorm:"column:nombre_medico"`
	ClienteID    string    `gorm:"column:cliente_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (planModel) TableName() string { return "planificaciones" }

func toDomainPlan(m planModel) *domain.PlanEntry {
	return &domain.PlanEntry{
		ID:           m.ID,
		Gira:         m.Gira,
		Dia:          m.Dia,
		Mes:          m.Mes,
		Anio:         m.Anio,
		Horario:      m.Horario,
		Direccion:    m.Direccion,
		NombreMedico: m.NombreMedico,
		ClienteID:    m.ClienteID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toPlanModel(p *domain.PlanEntry) planModel {
	return planModel{
		ID:           p.ID,
		Gira:         p.Gira,
		Dia:          p.Dia,
		Mes:          p.Mes,
		Anio:         p.Anio,
		Horario:      p.Horario,
		Direccion:    p.Direccion,
		NombreMedico: p.NombreMedico,
		ClienteID:    p.ClienteID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *PlanRepository) Create(ctx context.Context, p *domain.PlanEntry) error {
	m := toPlanModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return ErrDuplicateID
		}
		return tx.Error
	}
	*p = *toDomainPlan(m)
	return nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id string) (*domain.PlanEntry, error) {
	var m planModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPlan(m), nil
}

func (r *PlanRepository) Update(ctx context.Context, p *domain.PlanEntry) error {
	m := toPlanModel(p)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&planModel{}, "id = ?", id).Error
}

// FindByDate returns entries matching the exact dia/mes/anio triple.
// Duplicates per client and date are allowed, so no dedup here.
func (r *PlanRepository) FindByDate(ctx context.Context, dia, mes, anio int) ([]domain.PlanEntry, error) {
	var rows []planModel
	tx := r.db.WithContext(ctx).
		Where("dia = ? AND mes = ? AND anio = ?", dia, mes, anio).
		Order("horario").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.PlanEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPlan(m))
	}
	return out, nil
}

func (r *PlanRepository) ListAll(ctx context.Context) ([]domain.PlanEntry, error) {
	var rows []planModel
	if err := r.db.WithContext(ctx).Order("anio, mes, dia, horario").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PlanEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPlan(m))
	}
	return out, nil
}
