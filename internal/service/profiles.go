package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/repo"
)

type ProfileService struct {
	Repo *repo.GormRepo
}

// Sync stores what the session says about the user so their name and picture
// can be shown next to their carts and comments.
func (s *ProfileService) Sync(ctx context.Context, p models.Profile) error {
	if p.ID == uuid.Nil {
		return ErrUnauthorized
	}
	if err := s.Repo.UpsertProfile(ctx, &p); err != nil {
		return fmt.Errorf("sync profile: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
