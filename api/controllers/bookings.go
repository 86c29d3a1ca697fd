package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lenditapp/lendit-backend/api/middleware"
	"github.com/lenditapp/lendit-backend/api/responses"
	"github.com/lenditapp/lendit-backend/api/validators"
	"github.com/lenditapp/lendit-backend/internal/bookings"
	"github.com/lenditapp/lendit-backend/pkg/enums"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/logger"
	"github.com/lenditapp/lendit-backend/pkg/pagination"
)

type createBookingRequest struct {
	ItemID  int64      `json:"item_id" validate:"required,gt=0"`
	StartAt *time.Time `json:"start_at" validate:"required"`
	EndAt   *time.Time `json:"end_at" validate:"required"`
}

// BookingCreate submits a WAITING booking for an item.
func BookingCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := middleware.RequireCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Create(r.Context(), callerID, bookings.CreateBookingInput{
			ItemID:  payload.ItemID,
			StartAt: *payload.StartAt,
			EndAt:   *payload.EndAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// BookingDecide lets the item owner approve or reject a WAITING booking.
func BookingDecide(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := middleware.RequireCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := bookingContext(r, logg, bookingID)

		raw := strings.TrimSpace(r.URL.Query().Get("approved"))
		approved, parseErr := strconv.ParseBool(raw)
		if raw == "" || parseErr != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "approved query parameter must be true or false"))
			return
		}

		booking, err := svc.Decide(ctx, callerID, bookingID, approved)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// BookingGet returns one booking to its booker or the item owner.
func BookingGet(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := middleware.RequireCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := bookingContext(r, logg, bookingID)

		booking, err := svc.GetByID(ctx, callerID, bookingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// bookingContext tags the request context with the booking id so error logs
// carry it.
func bookingContext(r *http.Request, logg *logger.Logger, bookingID int64) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithBookingID(r.Context(), bookingID)
}

func bookingListParams(r *http.Request) (enums.BookingState, pagination.Page, error) {
	state, err := enums.ParseBookingState(strings.TrimSpace(r.URL.Query().Get("state")))
	if err != nil {
		return "", pagination.Page{}, err
	}
	page, err := validators.ParsePage(r)
	if err != nil {
		return "", pagination.Page{}, err
	}
	return state, page, nil
}

// BookingListForBooker lists the caller's own bookings, filtered and paginated.
func BookingListForBooker(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := middleware.RequireCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, page, err := bookingListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForBooker(r.Context(), callerID, state, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BookingListForOwner lists bookings against the caller's items.
func BookingListForOwner(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, err := middleware.RequireCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, page, err := bookingListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForOwner(r.Context(), callerID, state, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
