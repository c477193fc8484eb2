package http

import (
	"net/http"
	"time"

	"rentacar-backend/internal/service"
)

type CustomerHandler struct {
	customerSvc service.CustomerService
	bookingSvc  service.BookingService
	loc         *time.Location
}

func NewCustomerHandler(customerSvc service.CustomerService, bookingSvc service.BookingService, loc *time.Location) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc, bookingSvc: bookingSvc, loc: loc}
}

func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.customerSvc.Register(r.Context(), ActorFromContext(r.Context()).Origin, req.toService())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapCustomerToDTO(c))
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.customerSvc.GetCustomer(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapCustomerToDTO(c))
}

func (h *CustomerHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookingSvc.ListCustomerBookings(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBookings(bookings, h.loc))
}
