package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

type requestRepository interface {
	Create(ctx context.Context, request *models.ItemRequest) error
	FindByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	ListOthers(ctx context.Context, excludeRequesterID int64, page pagination.Page) ([]models.ItemRequest, error)
}

type itemReader interface {
	FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]models.Item, error)
}

type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Service exposes the request broker.
type Service interface {
	Create(ctx context.Context, userID int64, input CreateRequestInput) (*ItemRequestDTO, error)
	ListOwn(ctx context.Context, userID int64) ([]ItemRequestDTO, error)
	ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]ItemRequestDTO, error)
	GetByID(ctx context.Context, callerID, requestID int64) (*ItemRequestDTO, error)
}

type service struct {
	repo  requestRepository
	items itemReader
	users userReader
}

// NewService builds a request service with the provided collaborators.
func NewService(repo requestRepository, items itemReader, users userReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item reader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user reader required")
	}
	return &service{repo: repo, items: items, users: users}, nil
}

func (s *service) Create(ctx context.Context, userID int64, input CreateRequestInput) (*ItemRequestDTO, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description must not be blank")
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: userID,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item request")
	}
	return FromModel(request, nil), nil
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]ItemRequestDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list item requests")
	}
	return s.enrich(ctx, reqs)
}

func (s *service) ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]ItemRequestDTO, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.ListOthers(ctx, userID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list item requests")
	}
	return s.enrich(ctx, reqs)
}

func (s *service) GetByID(ctx context.Context, callerID, requestID int64) (*ItemRequestDTO, error) {
	if err := s.ensureUser(ctx, callerID); err != nil {
		return nil, err
	}
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "item request with id=%d not found", requestID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item request")
	}

	dtos, err := s.enrich(ctx, []models.ItemRequest{*request})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// enrich attaches the fulfillment set to each request with one batched item
// lookup over the whole identifier set.
func (s *service) enrich(ctx context.Context, reqs []models.ItemRequest) ([]ItemRequestDTO, error) {
	dtos := make([]ItemRequestDTO, 0, len(reqs))
	if len(reqs) == 0 {
		return dtos, nil
	}

	ids := make([]int64, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ID)
	}
	fulfillments, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fulfillment items")
	}

	grouped := make(map[int64][]models.Item, len(reqs))
	for _, item := range fulfillments {
		if item.RequestID == nil {
			continue
		}
		grouped[*item.RequestID] = append(grouped[*item.RequestID], item)
	}

	for i := range reqs {
		dtos = append(dtos, *FromModel(&reqs[i], grouped[reqs[i].ID]))
	}
	return dtos, nil
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
