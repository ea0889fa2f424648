package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the repositories own.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&clientModel{},
		&medicineModel{},
		&planModel{},
		&visitModel{},
		&saleModel{},
		&saleItemModel{},
		&appointmentModel{},
		&syncStatusModel{},
	)
}
