package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

type itemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id int64) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	ListByOwner(ctx context.Context, ownerID int64, now time.Time, page pagination.Page) ([]models.Item, error)
	Search(ctx context.Context, text string, page pagination.Page) ([]models.Item, error)
}

type commentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	ListByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error)
}

type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type requestReader interface {
	FindByID(ctx context.Context, id int64) (*models.ItemRequest, error)
}

// bookingReader answers the booking-history questions the catalog needs:
// enrichment of owner views and the comment eligibility gate.
type bookingReader interface {
	LastPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error)
	NextPerItem(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error)
	HasCommenceable(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

// Service exposes item catalog operations.
type Service interface {
	Create(ctx context.Context, ownerID int64, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, callerID, itemID int64, input UpdateItemInput) (*ItemDTO, error)
	GetByID(ctx context.Context, callerID, itemID int64) (*ItemDetailDTO, error)
	ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]ItemDetailDTO, error)
	Search(ctx context.Context, text string, page pagination.Page) ([]ItemDTO, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentDTO, error)
}

type service struct {
	repo     itemRepository
	comments commentRepository
	users    userReader
	requests requestReader
	bookings bookingReader
	now      func() time.Time
}

// NewService builds an item service with the provided collaborators.
func NewService(repo itemRepository, comments commentRepository, users userReader, requests requestReader, bookings bookingReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if comments == nil {
		return nil, fmt.Errorf("comment repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	if requests == nil {
		return nil, fmt.Errorf("request reader required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("booking reader required")
	}
	return &service{
		repo:     repo,
		comments: comments,
		users:    users,
		requests: requests,
		bookings: bookings,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, ownerID int64, input CreateItemInput) (*ItemDTO, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
	}
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description must not be blank")
	}

	if input.RequestID != nil {
		if _, err := s.requests.FindByID(ctx, *input.RequestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "item request with id=%d not found", *input.RequestID)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item request")
		}
	}

	item := &models.Item{
		Name:        name,
		Description: description,
		Available:   input.Available,
		OwnerID:     ownerID,
		RequestID:   input.RequestID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, callerID, itemID int64, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may update an item")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
		}
		item.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description must not be blank")
		}
		item.Description = description
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return FromModel(item), nil
}

func (s *service) GetByID(ctx context.Context, callerID, itemID int64) (*ItemDetailDTO, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}

	detail := &ItemDetailDTO{
		ItemDTO:  *FromModel(item),
		Comments: commentsFromModels(comments),
	}

	// Booking context is private to the owner.
	if callerID == item.OwnerID {
		now := s.now()
		last, err := s.bookings.LastPerItem(ctx, []int64{itemID}, now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load last booking")
		}
		next, err := s.bookings.NextPerItem(ctx, []int64{itemID}, now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load next booking")
		}
		if b, ok := last[itemID]; ok {
			detail.LastBooking = bookingRef(&b)
		}
		if b, ok := next[itemID]; ok {
			detail.NextBooking = bookingRef(&b)
		}
	}
	return detail, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]ItemDetailDTO, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	now := s.now()
	items, err := s.repo.ListByOwner(ctx, ownerID, now, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	if len(items) == 0 {
		return []ItemDetailDTO{}, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	last, err := s.bookings.LastPerItem(ctx, ids, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load last bookings")
	}
	next, err := s.bookings.NextPerItem(ctx, ids, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load next bookings")
	}
	comments, err := s.comments.ListByItems(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}

	details := make([]ItemDetailDTO, 0, len(items))
	for i := range items {
		item := &items[i]
		detail := ItemDetailDTO{
			ItemDTO:  *FromModel(item),
			Comments: commentsFromModels(comments[item.ID]),
		}
		if b, ok := last[item.ID]; ok {
			detail.LastBooking = bookingRef(&b)
		}
		if b, ok := next[item.ID]; ok {
			detail.NextBooking = bookingRef(&b)
		}
		details = append(details, detail)
	}

	// The repository already orders by next-booking start, latest first;
	// enrichment must not disturb it.
	return details, nil
}

func (s *service) Search(ctx context.Context, text string, page pagination.Page) ([]ItemDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []ItemDTO{}, nil
	}
	items, err := s.repo.Search(ctx, text, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search items")
	}
	return FromModels(items), nil
}

func (s *service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment text must not be blank")
	}

	if err := s.ensureUser(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.loadItem(ctx, itemID); err != nil {
		return nil, err
	}

	eligible, err := s.bookings.HasCommenceable(ctx, itemID, authorID, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check booking history")
	}
	if !eligible {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "commenting requires a started booking of this item")
	}

	comment := &models.Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: authorID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	dto := commentFromModel(comment)
	return &dto, nil
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

func (s *service) loadItem(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "item with id=%d not found", itemID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}
