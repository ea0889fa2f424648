package repository

import (
	"context"
	"errors"
	"time"

	"farmavisitas/internal/domain"

	"gorm.io/gorm"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

type visitModel struct {
	ID            string    `gorm:"column:id;primaryKey;size:64"`
	ClienteID     string    `gorm:"column:cliente_id;index"`
	ClienteNombre string    `gorm:"column:cliente_nombre"`
	Fecha         string    `gorm:"column:fecha;index"`
	Hora          string    `gorm:"column:hora"`
	Gira          string    `gorm:"column:gira"`
	Notas         string    `gorm:"column:notas;type:text"`
	Completada    bool      `gorm:"column:completada"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (visitModel) TableName() string { return "visitas" }

type saleModel struct {
	ID       string  `gorm:"column:id;primaryKey;size:64"`
	VisitaID string  `gorm:"column:visita_id;index"`
	Fecha    string  `gorm:"column:fecha"`
	Total    float64 `gorm:"column:total"`
}

func (saleModel) TableName() string { return "ventas" }

type saleItemModel struct {
	ID                int64   `gorm:"column:id;primaryKey;autoIncrement"`
	VentaID           string  `gorm:"column:venta_id;index"`
	Posicion          int     `gorm:"column:posicion"`
	MedicamentoID     string  `gorm:"column:medicamento_id"`
	MedicamentoNombre string  `gorm:"column:medicamento_nombre"`
	Cantidad          int     `gorm:"column:cantidad"`
	Precio            float64 `gorm:"column:precio"`
	Subtotal          float64 `gorm:"column:subtotal"`
}

func (saleItemModel) TableName() string { return "venta_items" }

func toDomainVisit(m visitModel) *domain.Visit {
	return &domain.Visit{
		ID:            m.ID,
		ClienteID:     m.ClienteID,
		ClienteNombre: m.ClienteNombre,
		Fecha:         m.Fecha,
		Hora:          m.Hora,
		Gira:          m.Gira,
		Notas:         m.Notas,
		Completada:    m.Completada,
		CreatedAt:     m.CreatedAt,
	}
}

// CreateCompleted persists a finalized visit and, when present, its sale
// with all line items in one transaction. A visit never reaches this
// repository half-built.
func (r *VisitRepository) CreateCompleted(ctx context.Context, v *domain.Visit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vm := visitModel{
			ID:            v.ID,
			ClienteID:     v.ClienteID,
			ClienteNombre: v.ClienteNombre,
			Fecha:         v.Fecha,
			Hora:          v.Hora,
			Gira:          v.Gira,
			Notas:         v.Notas,
			Completada:    v.Completada,
			CreatedAt:     v.CreatedAt,
		}
		if err := tx.Create(&vm).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicateID
			}
			return err
		}

		if v.Venta == nil {
			return nil
		}

		sm := saleModel{
			ID:       v.Venta.ID,
			VisitaID: v.ID,
			Fecha:    v.Venta.Fecha,
			Total:    v.Venta.Total,
		}
		if err := tx.Create(&sm).Error; err != nil {
			return err
		}

		for i, it := range v.Venta.Items {
			im := saleItemModel{
				VentaID:           v.Venta.ID,
				Posicion:          i,
				MedicamentoID:     it.MedicamentoID,
				MedicamentoNombre: it.MedicamentoNombre,
				Cantidad:          it.Cantidad,
				Precio:            it.Precio,
				Subtotal:          it.Subtotal,
			}
			if err := tx.Create(&im).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *VisitRepository) GetByID(ctx context.Context, id string) (*domain.Visit, error) {
	var m visitModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	v := toDomainVisit(m)
	if err := r.attachSale(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VisitRepository) attachSale(ctx context.Context, v *domain.Visit) error {
	var sm saleModel
	err := r.db.WithContext(ctx).First(&sm, "visita_id = ?", v.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var items []saleItemModel
	if err := r.db.WithContext(ctx).
		Where("venta_id = ?", sm.ID).
		Order("posicion").
		Find(&items).Error; err != nil {
		return err
	}

	sale := &domain.Sale{ID: sm.ID, VisitaID: sm.VisitaID, Fecha: sm.Fecha, Total: sm.Total}
	for _, it := range items {
		sale.Items = append(sale.Items, domain.SaleItem{
			MedicamentoID:     it.MedicamentoID,
			MedicamentoNombre: it.MedicamentoNombre,
			Cantidad:          it.Cantidad,
			Precio:            it.Precio,
			Subtotal:          it.Subtotal,
		})
	}
	v.Venta = sale
	return nil
}

// FindByDate returns visits for one YYYY-MM-DD day, sales attached.
func (r *VisitRepository) FindByDate(ctx context.Context, fecha string) ([]domain.Visit, error) {
	var rows []visitModel
	if err := r.db.WithContext(ctx).
		Where("fecha = ?", fecha).
		Order("hora").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withSales(ctx, rows)
}

// FindByRange returns visits with fecha in [desde, hasta], inclusive.
// YYYY-MM-DD sorts lexicographically, so a string BETWEEN is correct.
func (r *VisitRepository) FindByRange(ctx context.Context, desde, hasta string) ([]domain.Visit, error) {
	var rows []visitModel
	if err := r.db.WithContext(ctx).
		Where("fecha BETWEEN ? AND ?", desde, hasta).
		Order("fecha, hora").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withSales(ctx, rows)
}

func (r *VisitRepository) ListAll(ctx context.Context) ([]domain.Visit, error) {
	var rows []visitModel
	if err := r.db.WithContext(ctx).Order("fecha, hora").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withSales(ctx, rows)
}

func (r *VisitRepository) withSales(ctx context.Context, rows []visitModel) ([]domain.Visit, error) {
	out := make([]domain.Visit, 0, len(rows))
	for _, m := range rows {
		v := toDomainVisit(m)
		if err := r.attachSale(ctx, v); err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// ListSales returns every sale flat, for the mirror and reports.
func (r *VisitRepository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sms []saleModel
	if err := r.db.WithContext(ctx).Order("fecha, id").Find(&sms).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Sale, 0, len(sms))
	for _, sm := range sms {
		var items []saleItemModel
		if err := r.db.WithContext(ctx).
			Where("venta_id = ?", sm.ID).
			Order("posicion").
			Find(&items).Error; err != nil {
			return nil, err
		}
		s := domain.Sale{ID: sm.ID, VisitaID: sm.VisitaID, Fecha: sm.Fecha, Total: sm.Total}
		for _, it := range items {
			s.Items = append(s.Items, domain.SaleItem{
				MedicamentoID:     it.MedicamentoID,
				MedicamentoNombre: it.MedicamentoNombre,
				Cantidad:          it.Cantidad,
				Precio:            it.Precio,
				Subtotal:          it.Subtotal,
			})
		}
		out = append(out, s)
	}
	return out, nil
}

// GetSaleByID resolves one sale plus its parent visit id, for single-record sync.
func (r *VisitRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	var sm saleModel
	if err := r.db.WithContext(ctx).First(&sm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	var items []saleItemModel
	if err := r.db.WithContext(ctx).
		Where("venta_id = ?", sm.ID).
		Order("posicion").
		Find(&items).Error; err != nil {
		return nil, err
	}
	s := &domain.Sale{ID: sm.ID, VisitaID: sm.VisitaID, Fecha: sm.Fecha, Total: sm.Total}
	for _, it := range items {
		s.Items = append(s.Items, domain.SaleItem{
			MedicamentoID:     it.MedicamentoID,
			MedicamentoNombre: it.MedicamentoNombre,
			Cantidad:          it.Cantidad,
			Precio:            it.Precio,
			Subtotal:          it.Subtotal,
		})
	}
	return s, nil
}
