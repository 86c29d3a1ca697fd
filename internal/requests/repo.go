package requests

import (
	"context"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

// Repository handles item request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to item request operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new request row.
func (r *Repository) Create(ctx context.Context, request *models.ItemRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// FindByID loads a request by its id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var request models.ItemRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByRequester returns the user's own requests, oldest first.
func (r *Repository) ListByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	var requests []models.ItemRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at ASC, id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListOthers returns everyone else's requests, newest first, paginated.
func (r *Repository) ListOthers(ctx context.Context, excludeRequesterID int64, page pagination.Page) ([]models.ItemRequest, error) {
	var requests []models.ItemRequest
	err := r.db.WithContext(ctx).
		Where("requester_id <> ?", excludeRequesterID).
		Order("created_at DESC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
