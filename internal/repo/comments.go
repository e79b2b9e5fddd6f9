package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

// AddComment appends c to its item and loads the author for the response.
func (r *GormRepo) AddComment(ctx context.Context, cartID uuid.UUID, c *models.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTarget(tx, cartID, models.ItemTarget(c.ItemID)); err != nil {
			return err
		}
		if err := ensureProfile(tx, c.UserID); err != nil {
			return err
		}
		if err := tx.Omit("Author").Create(c).Error; err != nil {
			return err
		}
		var author models.Profile
		if err := tx.Where("id = ?", c.UserID).Take(&author).Error; err != nil {
			return err
		}
		c.Author = &author
		return nil
	})
}

// ListComments returns the item's comments newest first.
func (r *GormRepo) ListComments(ctx context.Context, cartID, itemID uuid.UUID) ([]models.Comment, error) {
	db := r.DB.WithContext(ctx)
	if err := ensureTarget(db, cartID, models.ItemTarget(itemID)); err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := db.
		Preload("Author").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

type cartCommentCount struct {
	CartID uuid.UUID
	N      int64
}

// CountCartComments counts comments across each cart's items.
func (r *GormRepo) CountCartComments(ctx context.Context, cartIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(cartIDs))
	if len(cartIDs) == 0 {
		return out, nil
	}
	var rows []cartCommentCount
	if err := r.DB.WithContext(ctx).
		Table("comments").
		Select("items.cart_id AS cart_id, COUNT(*) AS n").
		Joins("JOIN items ON items.id = comments.item_id").
		Where("items.cart_id IN ?", cartIDs).
		Group("items.cart_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CartID] = row.N
	}
	return out, nil
}
