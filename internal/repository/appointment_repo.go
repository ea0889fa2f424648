package repository

import (
	"context"
	"time"

	"farmavisitas/internal/domain"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type appointmentModel struct {
	ID            string    `gorm:"column:id;primaryKey;size:64"`
	ClienteID     string    `gorm:"column:cliente_id"`
	ClienteNombre string    `gorm:"column:cliente_nombre"`
	Fecha         string    `gorm:"column:fecha;index"`
	Hora          string    `gorm:"column:hora"`
	Motivo        string    `gorm:"column:motivo"`
	Recordatorio  bool      `gorm:"column:recordatorio"`
	Notificado    bool      `gorm:"column:notificado"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (appointmentModel) TableName() string { return "citas" }

func toDomainAppointment(m appointmentModel) *domain.Appointment {
	return &domain.Appointment{
		ID:            m.ID,
		ClienteID:     m.ClienteID,
		ClienteNombre: m.ClienteNombre,
		Fecha:         m.Fecha,
		Hora:          m.Hora,
		Motivo:        m.Motivo,
		Recordatorio:  m.Recordatorio,
		Notificado:    m.Notificado,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toAppointmentModel(a *domain.Appointment) appointmentModel {
	return appointmentModel{
		ID:            a.ID,
		ClienteID:     a.ClienteID,
		ClienteNombre: a.ClienteNombre,
		Fecha:         a.Fecha,
		Hora:          a.Hora,
		Motivo:        a.Motivo,
		Recordatorio:  a.Recordatorio,
		Notificado:    a.Notificado,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	m := toAppointmentModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return ErrDuplicateID
		}
		return tx.Error
	}
	*a = *toDomainAppointment(m)
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var m appointmentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return toDomainAppointment(m), nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	m := toAppointmentModel(a)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&appointmentModel{}, "id = ?", id).Error
}

func (r *AppointmentRepository) FindByDate(ctx context.Context, fecha string) ([]domain.Appointment, error) {
	var rows []appointmentModel
	if err := r.db.WithContext(ctx).
		Where("fecha = ?", fecha).
		Order("hora").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	var rows []appointmentModel
	if err := r.db.WithContext(ctx).Order("fecha, hora").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

// PendingReminders returns today's un-notified appointments with the
// reminder flag set.
func (r *AppointmentRepository) PendingReminders(ctx context.Context, fecha string) ([]domain.Appointment, error) {
	var rows []appointmentModel
	if err := r.db.WithContext(ctx).
		Where("fecha = ? AND recordatorio = ? AND notificado = ?", fecha, true, false).
		Order("hora").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m))
	}
	return out, nil
}

// MarkNotified flips notificado so a reminder only fires once.
func (r *AppointmentRepository) MarkNotified(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&appointmentModel{}).
		Where("id = ?", id).
		Update("notificado", true).Error
}
