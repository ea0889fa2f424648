package repository

import (
	"context"
	"time"

	"farmavisitas/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncStatusRepository struct {
	db *gorm.DB
}

func NewSyncStatusRepository(db *gorm.DB) *SyncStatusRepository {
	return &SyncStatusRepository{db: db}
}

type syncStatusModel struct {
	Collection  string    `gorm:"column:collection;primaryKey;size:32"`
	EntityID    string    `gorm:"column:entity_id;primaryKey;size:64"`
	Outcome     string    `gorm:"column:outcome"`
	Detail      string    `gorm:"column:detail"`
	AttemptedAt time.Time `gorm:"column:attempted_at"`
}

func (syncStatusModel) TableName() string { return "sync_status" }

// Record upserts the last attempt for (collection, entity).
func (r *SyncStatusRepository) Record(ctx context.Context, s domain.SyncStatus) error {
	m := syncStatusModel{
		Collection:  s.Collection,
		EntityID:    s.EntityID,
		Outcome:     string(s.Outcome),
		Detail:      s.Detail,
		AttemptedAt: s.AttemptedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "entity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"outcome", "detail", "attempted_at"}),
		}).
		Create(&m).Error
}

// ListFailed returns entities whose last mirror attempt failed.
func (r *SyncStatusRepository) ListFailed(ctx context.Context) ([]domain.SyncStatus, error) {
	var rows []syncStatusModel
	if err := r.db.WithContext(ctx).
		Where("outcome = ?", string(domain.SyncFailed)).
		Order("attempted_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.SyncStatus, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.SyncStatus{
			Collection:  m.Collection,
			EntityID:    m.EntityID,
			Outcome:     domain.SyncOutcome(m.Outcome),
			Detail:      m.Detail,
			AttemptedAt: m.AttemptedAt,
		})
	}
	return out, nil
}
