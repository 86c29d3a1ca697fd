package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lenditapp/lendit-backend/api/middleware"
	"github.com/lenditapp/lendit-backend/api/validators"
	"github.com/lenditapp/lendit-backend/pkg/enums"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
)

// checkFn vets one aspect of a request before it is forwarded.
type checkFn func(r *http.Request) error

func requireIdentity(r *http.Request) error {
	raw := strings.TrimSpace(r.Header.Get(middleware.IdentityHeader))
	if raw == "" {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s header is required", middleware.IdentityHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "identity header must be a positive integer").
			WithDetails(map[string]any{"header": middleware.IdentityHeader})
	}
	return nil
}

// peekBody decodes the JSON body into dest and restores r.Body so the proxy
// can still stream it upstream.
func peekBody(r *http.Request, dest any) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return validators.ValidateStruct(dest)
}

type userCreatePayload struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
}

type userUpdatePayload struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type itemCreatePayload struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"request_id,omitempty" validate:"omitempty,gt=0"`
}

type bookingCreatePayload struct {
	ItemID  int64      `json:"item_id" validate:"required,gt=0"`
	StartAt *time.Time `json:"start_at" validate:"required"`
	EndAt   *time.Time `json:"end_at" validate:"required"`
}

type requestCreatePayload struct {
	Description string `json:"description" validate:"required,min=1"`
}

type commentCreatePayload struct {
	Text string `json:"text" validate:"required,min=1"`
}

func checkUserCreate(r *http.Request) error {
	var payload userCreatePayload
	return peekBody(r, &payload)
}

func checkUserUpdate(r *http.Request) error {
	var payload userUpdatePayload
	return peekBody(r, &payload)
}

func checkItemCreate(r *http.Request) error {
	var payload itemCreatePayload
	return peekBody(r, &payload)
}

func checkRequestCreate(r *http.Request) error {
	var payload requestCreatePayload
	if err := peekBody(r, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description must not be blank")
	}
	return nil
}

func checkCommentCreate(r *http.Request) error {
	var payload commentCreatePayload
	if err := peekBody(r, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Text) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "comment text must not be blank")
	}
	return nil
}

// checkBookingCreate rejects bad time ranges before the request ever reaches
// the core server.
func checkBookingCreate(now func() time.Time) checkFn {
	return func(r *http.Request) error {
		var payload bookingCreatePayload
		if err := peekBody(r, &payload); err != nil {
			return err
		}
		start, end := *payload.StartAt, *payload.EndAt
		if !start.Before(end) {
			return pkgerrors.New(pkgerrors.CodeValidation, "start must be strictly before end")
		}
		if start.Before(now()) {
			return pkgerrors.New(pkgerrors.CodeValidation, "start must not be in the past")
		}
		return nil
	}
}

func checkBookingDecision(r *http.Request) error {
	raw := strings.TrimSpace(r.URL.Query().Get("approved"))
	if _, err := strconv.ParseBool(raw); raw == "" || err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "approved query parameter must be true or false")
	}
	return nil
}

func checkState(r *http.Request) error {
	_, err := enums.ParseBookingState(strings.TrimSpace(r.URL.Query().Get("state")))
	return err
}

func checkPage(r *http.Request) error {
	_, err := validators.ParsePage(r)
	return err
}

func checkPathID(r *http.Request) error {
	// The id is the last meaningful path segment on every parameterized route.
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "comment" {
			continue
		}
		id, err := strconv.ParseInt(seg, 10, 64)
		if err != nil || id <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "path identifier must be a positive integer")
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "path identifier must be a positive integer")
}
