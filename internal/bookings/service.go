package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	"github.com/lenditapp/lendit-backend/pkg/enums"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id int64) (*models.Booking, error)
	FindByIDTx(tx *gorm.DB, id int64) (*models.Booking, error)
	UpdateStatusTx(tx *gorm.DB, booking *models.Booking, status enums.BookingStatus) error
	ListByBooker(ctx context.Context, bookerID int64, state enums.BookingState, now time.Time, page pagination.Page) ([]models.Booking, error)
	ListByItemOwner(ctx context.Context, ownerID int64, state enums.BookingState, now time.Time, page pagination.Page) ([]models.Booking, error)
}

type itemReader interface {
	FindByID(ctx context.Context, id int64) (*models.Item, error)
}

type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the booking lifecycle.
type Service interface {
	Create(ctx context.Context, bookerID int64, input CreateBookingInput) (*BookingDTO, error)
	Decide(ctx context.Context, ownerID, bookingID int64, approve bool) (*BookingDTO, error)
	GetByID(ctx context.Context, callerID, bookingID int64) (*BookingDTO, error)
	ListForBooker(ctx context.Context, userID int64, state enums.BookingState, page pagination.Page) ([]BookingDTO, error)
	ListForOwner(ctx context.Context, userID int64, state enums.BookingState, page pagination.Page) ([]BookingDTO, error)
}

type service struct {
	repo  bookingRepository
	items itemReader
	users userReader
	tx    txRunner
	now   func() time.Time
}

// NewService builds a booking service with the provided collaborators.
func NewService(repo bookingRepository, items itemReader, users userReader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item reader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:  repo,
		items: items,
		users: users,
		tx:    tx,
		now:   time.Now,
	}, nil
}

// Create validates in a fixed order so callers get deterministic failures:
// time range, then user, then item, then availability, then self-booking.
func (s *service) Create(ctx context.Context, bookerID int64, input CreateBookingInput) (*BookingDTO, error) {
	now := s.now()
	if input.StartAt.IsZero() || input.EndAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end are required")
	}
	if !input.StartAt.Before(input.EndAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start must be strictly before end")
	}
	if input.StartAt.Before(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start must not be in the past")
	}

	if err := s.ensureUser(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "item with id=%d not found", input.ItemID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if !item.Available {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "item is not available for booking")
	}
	if item.OwnerID == bookerID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "owners cannot book their own items")
	}

	booking := &models.Booking{
		StartAt:  input.StartAt,
		EndAt:    input.EndAt,
		ItemID:   item.ID,
		BookerID: bookerID,
		Status:   enums.BookingStatusWaiting,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}
	return FromModel(booking), nil
}

// Decide moves a WAITING booking to APPROVED or REJECTED, exactly once. The
// status check runs before the ownership check so a decided booking always
// answers the same way regardless of who asks.
func (s *service) Decide(ctx context.Context, ownerID, bookingID int64, approve bool) (*BookingDTO, error) {
	var decided *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		booking, err := s.repo.FindByIDTx(tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "booking with id=%d not found", bookingID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		if booking.Status.Decided() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking has already been decided")
		}
		if booking.Item.OwnerID != ownerID {
			// Existence is not leaked to non-owners.
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "booking with id=%d not found", bookingID)
		}

		status := enums.BookingStatusRejected
		if approve {
			status = enums.BookingStatusApproved
		}
		if err := s.repo.UpdateStatusTx(tx, booking, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}
		decided = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(decided), nil
}

func (s *service) GetByID(ctx context.Context, callerID, bookingID int64) (*BookingDTO, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "booking with id=%d not found", bookingID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if callerID != booking.BookerID && callerID != booking.Item.OwnerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the booker or the item owner may view a booking")
	}
	return FromModel(booking), nil
}

func (s *service) ListForBooker(ctx context.Context, userID int64, state enums.BookingState, page pagination.Page) ([]BookingDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListByBooker(ctx, userID, state, s.now(), page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return FromModels(bookings), nil
}

func (s *service) ListForOwner(ctx context.Context, userID int64, state enums.BookingState, page pagination.Page) ([]BookingDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListByItemOwner(ctx, userID, state, s.now(), page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return FromModels(bookings), nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "user with id=%d not found", userID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return nil
}
