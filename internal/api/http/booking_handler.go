package http

import (
	"net/http"
	"time"

	"rentacar-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
	rentalSvc  service.RentalService
	loc        *time.Location
}

func NewBookingHandler(bookingSvc service.BookingService, rentalSvc service.RentalService, loc *time.Location) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, rentalSvc: rentalSvc, loc: loc}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sreq, err := req.toService()
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookingSvc.CreateBooking(r.Context(), ActorFromContext(r.Context()), sreq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapBookingToDTO(b, h.loc))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookingSvc.GetBooking(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapBookingToDTO(b, h.loc))
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookingSvc.ConfirmBooking(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapBookingToDTO(b, h.loc))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.bookingSvc.CancelBooking(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapBookingToDTO(b, h.loc))
}

func (h *BookingHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.GetRentalByBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapRentalToDTO(rental))
}
