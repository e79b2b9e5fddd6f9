package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

// CreateCart inserts the cart and then its items in one transaction.
func (r *GormRepo) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProfile(tx, cart.OwnerID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(cart).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
			cart.Items[i].Position = i
		}
		return tx.Omit(clause.Associations).Create(&cart.Items).Error
	})
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *GormRepo) GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Owner").
		Preload("Items", orderedItems).
		Where("id = ?", id).
		Take(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) ListCartsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Cart, error) {
	var carts []models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Owner").
		Preload("Items", orderedItems).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *GormRepo) CartExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CartItemIDs returns the ids of the cart's items in display order.
func (r *GormRepo) CartItemIDs(ctx context.Context, cartID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("cart_id = ?", cartID).
		Order("position ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepo) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
