package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/spark_cart/internal/models"
)

// errVoteRace means a concurrent toggle inserted the row between our read and insert.
var errVoteRace = errors.New("concurrent vote insert")

// VoteCount is one row of a grouped vote count.
type VoteCount struct {
	TargetType models.TargetType
	TargetID   uuid.UUID
	Kind       models.VoteKind
	N          int64
}

// ToggleVote applies the toggle decision for the user's vote on target inside a
// single transaction. The returned vote is nil when the toggle removed it.
// gorm.ErrRecordNotFound is returned when the target is not part of cartID.
func (r *GormRepo) ToggleVote(ctx context.Context, userID, cartID uuid.UUID, target models.Target, kind models.VoteKind) (models.ToggleResult, *models.Vote, error) {
	res, vote, err := r.toggleVote(ctx, userID, cartID, target, kind)
	if errors.Is(err, errVoteRace) {
		// the winner's row is committed now, so the retry sees it
		return r.toggleVote(ctx, userID, cartID, target, kind)
	}
	return res, vote, err
}

func (r *GormRepo) toggleVote(ctx context.Context, userID, cartID uuid.UUID, target models.Target, kind models.VoteKind) (models.ToggleResult, *models.Vote, error) {
	var (
		result models.ToggleResult
		out    *models.Vote
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTarget(tx, cartID, target); err != nil {
			return err
		}

		var existing models.Vote
		err := forUpdate(tx).
			Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
			Take(&existing).Error
		var current *models.Vote
		switch {
		case err == nil:
			current = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		result = models.DecideToggle(current, kind)
		switch result {
		case models.Added:
			v := models.Vote{
				UserID:     userID,
				TargetType: target.Type,
				TargetID:   target.ID,
				CartID:     cartID,
				Kind:       kind,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&v)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errVoteRace
			}
			out = &v
		case models.Removed:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case models.Switched:
			if err := tx.Model(&existing).Update("kind", kind).Error; err != nil {
				return err
			}
			existing.Kind = kind
			out = &existing
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return result, out, nil
}

func ensureTarget(tx *gorm.DB, cartID uuid.UUID, target models.Target) error {
	var n int64
	q := tx.Model(&models.Item{}).Where("id = ? AND cart_id = ?", target.ID, cartID)
	if target.Type == models.TargetCart {
		if target.ID != cartID {
			return gorm.ErrRecordNotFound
		}
		q = tx.Model(&models.Cart{}).Where("id = ?", cartID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountVotes groups the votes on one target by kind.
func (r *GormRepo) CountVotes(ctx context.Context, target models.Target) ([]VoteCount, error) {
	var rows []VoteCount
	if err := r.DB.WithContext(ctx).Model(&models.Vote{}).
		Select("target_type, target_id, kind, COUNT(*) AS n").
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Group("target_type, target_id, kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountCartVotes groups every vote belonging to the given carts by target and kind.
func (r *GormRepo) CountCartVotes(ctx context.Context, cartIDs []uuid.UUID) ([]VoteCount, error) {
	if len(cartIDs) == 0 {
		return nil, nil
	}
	var rows []VoteCount
	if err := r.DB.WithContext(ctx).Model(&models.Vote{}).
		Select("target_type, target_id, kind, COUNT(*) AS n").
		Where("cart_id IN ?", cartIDs).
		Group("target_type, target_id, kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) UserVotes(ctx context.Context, userID, cartID uuid.UUID) ([]models.Vote, error) {
	var votes []models.Vote
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND cart_id = ?", userID, cartID).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}
