package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/repo"
)

const maxCommentLength = 2000

type CommentService struct {
	Repo *repo.GormRepo
}

// AddComment appends a comment to an item of cartID. Comments are never edited.
func (s *CommentService) AddComment(ctx context.Context, userID, cartID, itemID uuid.UUID, content string) (*models.Comment, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content required: %w", ErrValidation)
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, fmt.Errorf("content longer than %d characters: %w", maxCommentLength, ErrValidation)
	}

	c := &models.Comment{ItemID: itemID, UserID: userID, Content: content}
	if err := s.Repo.AddComment(ctx, cartID, c); err != nil {
		return nil, storeErr("add comment", err)
	}
	return c, nil
}

// ListComments returns the item's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, cartID, itemID uuid.UUID) ([]models.Comment, error) {
	comments, err := s.Repo.ListComments(ctx, cartID, itemID)
	if err != nil {
		return nil, storeErr("list comments", err)
	}
	return comments, nil
}
