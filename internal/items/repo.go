package items

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	"github.com/lenditapp/lendit-backend/pkg/enums"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

// Repository handles item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads an item by its id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update saves the provided item.
func (r *Repository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// ListByOwner returns the owner's items ordered by the start of their next
// upcoming non-rejected booking, latest first, items without one last. The
// ordering runs in SQL so pagination slices the sorted set, not the reverse.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, now time.Time, page pagination.Page) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select(
			"items.*, (SELECT MIN(b.start_at) FROM bookings b WHERE b.item_id = items.id AND b.status <> ? AND b.start_at > ?) AS next_start",
			enums.BookingStatusRejected, now,
		).
		Where("owner_id = ?", ownerID).
		Order("next_start DESC NULLS LAST, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Search returns available items whose name or description contains the text,
// case-insensitive. LOWER/LIKE keeps the predicate portable across Postgres
// and sqlite.
func (r *Repository) Search(ctx context.Context, text string, page pagination.Page) ([]models.Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByRequestIDs returns every item created in fulfillment of any of the
// given requests, in one batched query.
func (r *Repository) FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]models.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("request_id IN ?", requestIDs).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
