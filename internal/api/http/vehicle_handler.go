package http

import (
	"net/http"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

type VehicleHandler struct {
	vehicleSvc      service.VehicleService
	availabilitySvc service.AvailabilityService
	bookingSvc      service.BookingService
	loc             *time.Location
}

func NewVehicleHandler(vehicleSvc service.VehicleService, availabilitySvc service.AvailabilityService, bookingSvc service.BookingService, loc *time.Location) *VehicleHandler {
	return &VehicleHandler{
		vehicleSvc:      vehicleSvc,
		availabilitySvc: availabilitySvc,
		bookingSvc:      bookingSvc,
		loc:             loc,
	}
}

// Search lists bookable vehicles: ?category=&location=&start=&end=
func (h *VehicleHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, err := domain.ParseVehicleCategory(q.Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, end, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	vehicles, err := h.bookingSvc.SearchAvailableVehicles(r.Context(), category, q.Get("location"), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapVehicles(vehicles))
}

// List returns the fleet, filtered by ?category=&location=&status=. ?plate= looks up one vehicle.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if plate := q.Get("plate"); plate != "" {
		v, err := h.vehicleSvc.GetVehicleByPlate(r.Context(), plate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, []VehicleDTO{MapVehicleToDTO(v)})
		return
	}

	filter := repository.VehicleFilter{Location: q.Get("location")}
	if raw := q.Get("category"); raw != "" {
		c, err := domain.ParseVehicleCategory(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Category = c
	}
	if raw := q.Get("status"); raw != "" {
		st, err := domain.ParseVehicleStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Status = st
	}
	vehicles, err := h.vehicleSvc.ListVehicles(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapVehicles(vehicles))
}

func (h *VehicleHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addVehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.vehicleSvc.AddVehicle(r.Context(), ActorFromContext(r.Context()), v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapVehicleToDTO(created))
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.vehicleSvc.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapVehicleToDTO(v))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateVehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.vehicleSvc.UpdateVehicle(r.Context(), ActorFromContext(r.Context()), id, req.toPatch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapVehicleToDTO(v))
}

func (h *VehicleHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setVehicleStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := domain.ParseVehicleStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.vehicleSvc.SetVehicleStatus(r.Context(), ActorFromContext(r.Context()), id, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapVehicleToDTO(v))
}

// Availability answers ?start=&end= for one vehicle and quotes the price when it is free.
func (h *VehicleHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, end, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	available, err := h.availabilitySvc.IsAvailable(r.Context(), id, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := AvailabilityResponse{
		VehicleID: id,
		Start:     start.Format(domain.DateLayout),
		End:       end.Format(domain.DateLayout),
		Available: available,
	}
	if available {
		v, err := h.vehicleSvc.GetVehicle(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		breakdown, err := utils.CalculatePriceWithBreakdown(v.Category, start, end)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Quote = mapQuote(breakdown)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VehicleHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookings, err := h.bookingSvc.ListVehicleBookings(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBookings(bookings, h.loc))
}
