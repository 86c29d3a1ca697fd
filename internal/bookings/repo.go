package bookings

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	"github.com/lenditapp/lendit-backend/pkg/enums"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

// Repository handles booking persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to booking operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new booking row and reloads it with its item and booker
// resolved.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		First(booking, "id = ?", booking.ID).Error
}

// FindByID loads a booking with its item and booker resolved.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDTx loads a booking inside the provided transaction.
func (r *Repository) FindByIDTx(tx *gorm.DB, id int64) (*models.Booking, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var booking models.Booking
	err := tx.
		Preload("Item").
		Preload("Booker").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatusTx persists a status change inside the provided transaction.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, booking *models.Booking, status enums.BookingStatus) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	booking.Status = status
	return tx.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("status", status).Error
}

// ListByBooker returns the user's bookings, state-filtered and paginated in
// the query, newest start first.
func (r *Repository) ListByBooker(ctx context.Context, bookerID int64, state enums.BookingState, now time.Time, page pagination.Page) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Preload("Item").
		Preload("Booker").
		Where("booker_id = ?", bookerID)

	var bookings []models.Booking
	err := applyStateFilter(q, state, now).
		Order("start_at DESC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByItemOwner returns bookings against the owner's items, state-filtered
// and paginated in the query, newest start first.
func (r *Repository) ListByItemOwner(ctx context.Context, ownerID int64, state enums.BookingState, now time.Time, page pagination.Page) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Preload("Item").
		Preload("Booker").
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)

	var bookings []models.Booking
	err := applyStateFilter(q, state, now).
		Order("bookings.start_at DESC, bookings.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func applyStateFilter(q *gorm.DB, state enums.BookingState, now time.Time) *gorm.DB {
	switch state {
	case enums.BookingStateCurrent:
		return q.Where("bookings.start_at <= ? AND bookings.end_at > ?", now, now)
	case enums.BookingStatePast:
		return q.Where("bookings.end_at < ?", now)
	case enums.BookingStateFuture:
		return q.Where("bookings.start_at > ?", now)
	case enums.BookingStateWaiting:
		return q.Where("bookings.status = ?", enums.BookingStatusWaiting)
	case enums.BookingStateRejected:
		return q.Where("bookings.status = ?", enums.BookingStatusRejected)
	default:
		return q
	}
}

// LastPerItem returns, per item, the latest non-rejected booking that has
// already started.
func (r *Repository) LastPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error) {
	return r.boundaryPerItem(ctx, itemIDs, func(q *gorm.DB) *gorm.DB {
		return q.Where("start_at <= ?", now).Order("item_id, start_at DESC")
	})
}

// NextPerItem returns, per item, the earliest non-rejected booking that has
// not started yet.
func (r *Repository) NextPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error) {
	return r.boundaryPerItem(ctx, itemIDs, func(q *gorm.DB) *gorm.DB {
		return q.Where("start_at > ?", now).Order("item_id, start_at ASC")
	})
}

func (r *Repository) boundaryPerItem(ctx context.Context, itemIDs []int64, shape func(*gorm.DB) *gorm.DB) (map[int64]models.Booking, error) {
	result := make(map[int64]models.Booking, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}
	var bookings []models.Booking
	q := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Where("status <> ?", enums.BookingStatusRejected)
	if err := shape(q).Find(&bookings).Error; err != nil {
		return nil, err
	}
	// Rows arrive grouped per item with the boundary booking first.
	for _, b := range bookings {
		if _, ok := result[b.ItemID]; !ok {
			result[b.ItemID] = b
		}
	}
	return result, nil
}

// HasCommenceable reports whether the user has a non-rejected booking of the
// item that has already started. This is the comment eligibility gate.
func (r *Repository) HasCommenceable(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("item_id = ? AND booker_id = ?", itemID, bookerID).
		Where("status <> ?", enums.BookingStatusRejected).
		Where("start_at <= ?", now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
