package users

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/lenditapp/lendit-backend/pkg/db/models"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
)

type stubUserRepo struct {
	user      *models.User
	users     []models.User
	err       error
	createErr error
	updateErr error
	deleteErr error

	created *models.User
	updated *models.User
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	user.ID = 1
	r.created = user
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.user, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.users, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	return r.deleteErr
}

func baseUser() *models.User {
	return &models.User{ID: 42, Name: "Ada", Email: "ada@example.com"}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceCreateNormalizesEmail(t *testing.T) {
	repo := &stubUserRepo{}
	svc, _ := NewService(repo)

	dto, err := svc.Create(context.Background(), CreateUserInput{Name: " Ada ", Email: " Ada@Example.COM "})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if dto.Name != "Ada" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", dto.Email)
	}
}

func TestServiceCreateDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{createErr: errors.New(`duplicate key value violates unique constraint "idx_users_email"`)}
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), CreateUserInput{Name: "Ada", Email: "ada@example.com"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	repo := &stubUserRepo{err: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	_, err := svc.GetByID(context.Background(), 99)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	repo := &stubUserRepo{user: baseUser()}
	svc, _ := NewService(repo)

	name := "Grace"
	dto, err := svc.Update(context.Background(), 42, UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if dto.Name != "Grace" {
		t.Fatalf("expected updated name, got %q", dto.Name)
	}
	if dto.Email != "ada@example.com" {
		t.Fatalf("email must survive a name-only patch, got %q", dto.Email)
	}
}

func TestServiceUpdateBlankEmailRejected(t *testing.T) {
	repo := &stubUserRepo{user: baseUser()}
	svc, _ := NewService(repo)

	blank := "  "
	_, err := svc.Update(context.Background(), 42, UpdateUserInput{Email: &blank})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{
		user:      baseUser(),
		updateErr: errors.New("UNIQUE constraint failed: users.email"),
	}
	svc, _ := NewService(repo)

	email := "taken@example.com"
	_, err := svc.Update(context.Background(), 42, UpdateUserInput{Email: &email})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceDeleteNotFound(t *testing.T) {
	repo := &stubUserRepo{deleteErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), 7)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceList(t *testing.T) {
	repo := &stubUserRepo{users: []models.User{*baseUser()}}
	svc, _ := NewService(repo)

	dtos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(dtos) != 1 || dtos[0].ID != 42 {
		t.Fatalf("unexpected result %v", dtos)
	}
}
