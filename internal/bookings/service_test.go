package bookings

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	"github.com/lenditapp/lendit-backend/pkg/enums"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

type stubBookingRepo struct {
	booking   *models.Booking
	bookings  []models.Booking
	findErr   error
	createErr error
	updateErr error

	created       *models.Booking
	updatedStatus enums.BookingStatus

	listState enums.BookingState
	listPage  pagination.Page
}

func (r *stubBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	booking.ID = 1
	booking.Item = models.Item{ID: booking.ItemID, Name: "Drill", OwnerID: 1}
	booking.Booker = models.User{ID: booking.BookerID, Name: "Ada"}
	r.created = booking
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id int64) (*models.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.booking, nil
}

func (r *stubBookingRepo) FindByIDTx(_ *gorm.DB, id int64) (*models.Booking, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.booking, nil
}

func (r *stubBookingRepo) UpdateStatusTx(_ *gorm.DB, booking *models.Booking, status enums.BookingStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	booking.Status = status
	r.updatedStatus = status
	return nil
}

func (r *stubBookingRepo) ListByBooker(_ context.Context, bookerID int64, state enums.BookingState, _ time.Time, page pagination.Page) ([]models.Booking, error) {
	r.listState = state
	r.listPage = page
	return r.bookings, nil
}

func (r *stubBookingRepo) ListByItemOwner(_ context.Context, ownerID int64, state enums.BookingState, _ time.Time, page pagination.Page) ([]models.Booking, error) {
	r.listState = state
	r.listPage = page
	return r.bookings, nil
}

type stubItemReader struct {
	item *models.Item
	err  error
}

func (r stubItemReader) FindByID(_ context.Context, id int64) (*models.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.item, nil
}

type stubUserReader struct {
	err error
}

func (r stubUserReader) FindByID(_ context.Context, id int64) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &models.User{ID: id, Name: "Ada"}, nil
}

// stubTxRunner executes the callback without a real transaction.
type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func availableItem() *models.Item {
	return &models.Item{ID: 10, Name: "Drill", Available: true, OwnerID: 1}
}

func waitingBooking() *models.Booking {
	return &models.Booking{
		ID:       5,
		StartAt:  time.Now().Add(time.Hour),
		EndAt:    time.Now().Add(2 * time.Hour),
		ItemID:   10,
		Item:     *availableItem(),
		BookerID: 2,
		Booker:   models.User{ID: 2, Name: "Grace"},
		Status:   enums.BookingStatusWaiting,
	}
}

func newTestService(repo *stubBookingRepo, items stubItemReader, users stubUserReader) Service {
	svc, err := NewService(repo, items, users, stubTxRunner{})
	if err != nil {
		panic(err)
	}
	return svc
}

func futureRange() (time.Time, time.Time) {
	start := time.Now().Add(time.Hour)
	return start, start.Add(time.Hour)
}

func TestServiceCreate(t *testing.T) {
	repo := &stubBookingRepo{}
	svc := newTestService(repo, stubItemReader{item: availableItem()}, stubUserReader{})

	start, end := futureRange()
	dto, err := svc.Create(context.Background(), 2, CreateBookingInput{ItemID: 10, StartAt: start, EndAt: end})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if dto.Status != enums.BookingStatusWaiting {
		t.Fatalf("new bookings must start WAITING, got %s", dto.Status)
	}
	if dto.Item.Name != "Drill" || dto.Booker.ID != 2 {
		t.Fatalf("expected resolved sub-objects, got %+v", dto)
	}
}

func TestServiceCreateTimeRangeChecks(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, stubItemReader{item: availableItem()}, stubUserReader{})
	now := time.Now()

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"zero start", time.Time{}, now.Add(time.Hour)},
		{"zero end", now.Add(time.Hour), time.Time{}},
		{"start after end", now.Add(2 * time.Hour), now.Add(time.Hour)},
		{"start equals end", now.Add(time.Hour), now.Add(time.Hour)},
		{"start in past", now.Add(-time.Hour), now.Add(time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 2, CreateBookingInput{ItemID: 10, StartAt: tc.start, EndAt: tc.end})
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestServiceCreateTimeRangeCheckedBeforeUserLookup(t *testing.T) {
	// Even with an unknown booker, a bad range must fail as validation first.
	svc := newTestService(&stubBookingRepo{}, stubItemReader{item: availableItem()}, stubUserReader{err: gorm.ErrRecordNotFound})

	start := time.Now().Add(2 * time.Hour)
	_, err := svc.Create(context.Background(), 99, CreateBookingInput{ItemID: 10, StartAt: start, EndAt: start.Add(-time.Hour)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateUnknownUser(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, stubItemReader{item: availableItem()}, stubUserReader{err: gorm.ErrRecordNotFound})

	start, end := futureRange()
	_, err := svc.Create(context.Background(), 99, CreateBookingInput{ItemID: 10, StartAt: start, EndAt: end})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceCreateUnavailableItem(t *testing.T) {
	item := availableItem()
	item.Available = false
	svc := newTestService(&stubBookingRepo{}, stubItemReader{item: item}, stubUserReader{})

	start, end := futureRange()
	_, err := svc.Create(context.Background(), 2, CreateBookingInput{ItemID: 10, StartAt: start, EndAt: end})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateSelfBooking(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, stubItemReader{item: availableItem()}, stubUserReader{})

	start, end := futureRange()
	_, err := svc.Create(context.Background(), 1, CreateBookingInput{ItemID: 10, StartAt: start, EndAt: end})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceDecideApprove(t *testing.T) {
	repo := &stubBookingRepo{booking: waitingBooking()}
	svc := newTestService(repo, stubItemReader{}, stubUserReader{})

	dto, err := svc.Decide(context.Background(), 1, 5, true)
	if err != nil {
		t.Fatalf("decide booking: %v", err)
	}
	if dto.Status != enums.BookingStatusApproved {
		t.Fatalf("expected APPROVED, got %s", dto.Status)
	}
	if repo.updatedStatus != enums.BookingStatusApproved {
		t.Fatalf("expected persisted status APPROVED, got %s", repo.updatedStatus)
	}
}

func TestServiceDecideReject(t *testing.T) {
	repo := &stubBookingRepo{booking: waitingBooking()}
	svc := newTestService(repo, stubItemReader{}, stubUserReader{})

	dto, err := svc.Decide(context.Background(), 1, 5, false)
	if err != nil {
		t.Fatalf("decide booking: %v", err)
	}
	if dto.Status != enums.BookingStatusRejected {
		t.Fatalf("expected REJECTED, got %s", dto.Status)
	}
}

func TestServiceDecideTwiceRejected(t *testing.T) {
	booking := waitingBooking()
	booking.Status = enums.BookingStatusApproved
	repo := &stubBookingRepo{booking: booking}
	svc := newTestService(repo, stubItemReader{}, stubUserReader{})

	_, err := svc.Decide(context.Background(), 1, 5, true)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestServiceDecideByNonOwnerNotFound(t *testing.T) {
	repo := &stubBookingRepo{booking: waitingBooking()}
	svc := newTestService(repo, stubItemReader{}, stubUserReader{})

	_, err := svc.Decide(context.Background(), 42, 5, true)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("non-owner decisions must read as not found, got %v", err)
	}
	if repo.updatedStatus != "" {
		t.Fatal("status must not change on a rejected decision")
	}
}

func TestServiceGetByIDParticipantsOnly(t *testing.T) {
	repo := &stubBookingRepo{booking: waitingBooking()}
	svc := newTestService(repo, stubItemReader{}, stubUserReader{})

	if _, err := svc.GetByID(context.Background(), 2, 5); err != nil {
		t.Fatalf("booker read: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), 1, 5); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	_, err := svc.GetByID(context.Background(), 42, 5)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for strangers, got %v", err)
	}
}

func TestServiceListForBookerPassesFilterAndPage(t *testing.T) {
	repo := &stubBookingRepo{bookings: []models.Booking{*waitingBooking()}}
	svc := newTestService(repo, stubItemReader{}, stubUserReader{})

	page, _ := pagination.New(20, 5)
	dtos, err := svc.ListForBooker(context.Background(), 2, enums.BookingStateWaiting, page)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(dtos) != 1 {
		t.Fatalf("expected one booking, got %d", len(dtos))
	}
	if repo.listState != enums.BookingStateWaiting {
		t.Fatalf("state filter must reach the query, got %s", repo.listState)
	}
	if repo.listPage.Offset() != 20 || repo.listPage.Limit() != 5 {
		t.Fatalf("pagination must reach the query, got %+v", repo.listPage)
	}
}

func TestServiceListForOwnerUnknownUser(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, stubItemReader{}, stubUserReader{err: gorm.ErrRecordNotFound})

	_, err := svc.ListForOwner(context.Background(), 99, enums.BookingStateAll, pagination.Default())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
