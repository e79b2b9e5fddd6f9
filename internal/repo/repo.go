package repo

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// forUpdate adds a row lock where the dialect has one; sqlite serializes writers anyway.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// ensureProfile creates a bare profile row so owner/author references hold even
// before the profile sync has seen the user.
func ensureProfile(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Profile{ID: userID}).Error
}
