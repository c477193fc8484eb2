package http

import (
	"net/http"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.BookingID <= 0 {
		writeError(w, r, domain.InvalidArgumentf("booking_id is required"))
		return
	}
	if req.Mileage == nil {
		writeError(w, r, domain.InvalidArgumentf("mileage is required"))
		return
	}
	rental, err := h.rentalSvc.Checkout(r.Context(), ActorFromContext(r.Context()), req.BookingID, *req.Mileage, req.Condition)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapRentalToDTO(rental))
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapRentalToDTO(rental))
}

func (h *RentalHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req checkinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Mileage == nil {
		writeError(w, r, domain.InvalidArgumentf("mileage is required"))
		return
	}
	rental, err := h.rentalSvc.Checkin(r.Context(), ActorFromContext(r.Context()), id, *req.Mileage, req.Condition)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapRentalToDTO(rental))
}

func (h *RentalHandler) CreateDamageReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req damageReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	report, rental, err := h.rentalSvc.CreateDamageReport(r.Context(), ActorFromContext(r.Context()), id, service.DamageReportRequest{
		Description: req.Description,
		RepairCost:  domain.Money(req.RepairCostCents),
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, damageReportResponse{
		Report: MapDamageReportToDTO(report),
		Rental: MapRentalToDTO(rental),
	})
}

func (h *RentalHandler) ListDamageReports(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reports, err := h.rentalSvc.ListDamageReports(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]DamageReportDTO, 0, len(reports))
	for i := range reports {
		out = append(out, MapDamageReportToDTO(&reports[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
