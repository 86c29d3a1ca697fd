package items

import (
	"context"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
)

// CommentRepository handles comment persistence.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository binds a GORM DB to comment operations.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create persists a new comment row and reloads the author for display.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Author").
		First(comment, "id = ?", comment.ID).Error
}

// ListByItem returns all comments on an item, newest first, authors resolved.
func (r *CommentRepository) ListByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ListByItems batches comment loading for a set of items.
func (r *CommentRepository) ListByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error) {
	grouped := make(map[int64][]models.Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return grouped, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id IN ?", itemIDs).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		grouped[c.ItemID] = append(grouped[c.ItemID], c)
	}
	return grouped, nil
}
