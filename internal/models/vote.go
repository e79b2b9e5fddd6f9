package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetType names what a vote is cast on; it also names the kind family.
type TargetType string

const (
	TargetItem TargetType = "item"
	TargetCart TargetType = "cart"
)

func (t TargetType) Valid() bool {
	return t == TargetItem || t == TargetCart
}

type VoteKind string

const (
	KindUp   VoteKind = "up"
	KindDown VoteKind = "down"
	KindYes  VoteKind = "yes"
	KindNo   VoteKind = "no"
)

// Family returns the target type the kind belongs to, or "" for unknown kinds.
func (k VoteKind) Family() TargetType {
	switch k {
	case KindUp, KindDown:
		return TargetItem
	case KindYes, KindNo:
		return TargetCart
	}
	return ""
}

// Primary reports whether k is counted on the positive side of its family.
func (k VoteKind) Primary() bool {
	return k == KindUp || k == KindYes
}

// Target identifies one votable thing.
type Target struct {
	Type TargetType `json:"target_type"`
	ID   uuid.UUID  `json:"target_id"`
}

func ItemTarget(id uuid.UUID) Target { return Target{Type: TargetItem, ID: id} }
func CartTarget(id uuid.UUID) Target { return Target{Type: TargetCart, ID: id} }

// Vote is unique per (user, target) so at most one polarity of a family exists.
type Vote struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"                                     json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_target,priority:1" json:"user_id"`
	TargetType TargetType `gorm:"size:8;not null;uniqueIndex:idx_votes_user_target,priority:2;index:idx_votes_target,priority:1" json:"target_type"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_target,priority:3;index:idx_votes_target,priority:2" json:"target_id"`
	CartID     uuid.UUID  `gorm:"type:uuid;not null;index"                                 json:"cart_id"`
	Kind       VoteKind   `gorm:"size:8;not null"                                          json:"vote_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (Vote) TableName() string {
	return "votes"
}

func (v Vote) Target() Target {
	return Target{Type: v.TargetType, ID: v.TargetID}
}

// ToggleResult is the outcome of a toggle.
type ToggleResult string

const (
	Added    ToggleResult = "added"
	Removed  ToggleResult = "removed"
	Switched ToggleResult = "switched"
)

// DecideToggle maps the user's current vote on a target to the outcome of
// requesting kind: nothing becomes added, the same kind is removed, and the
// other polarity is switched in place.
func DecideToggle(existing *Vote, kind VoteKind) ToggleResult {
	switch {
	case existing == nil:
		return Added
	case existing.Kind == kind:
		return Removed
	default:
		return Switched
	}
}
