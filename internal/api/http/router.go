package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentacar-backend/internal/config"
)

// Handlers bundles everything the router serves.
type Handlers struct {
	Auth      *AuthHandler
	Customers *CustomerHandler
	Vehicles  *VehicleHandler
	Bookings  *BookingHandler
	Rentals   *RentalHandler
	Audit     *AuditHandler
	Health    *HealthHandler
}

// NewRouter registers every route under /api/v1 with its security name.
// rateLimit may be nil.
func NewRouter(h Handlers, auth *AuthMiddleware, rateLimit mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, AccessLog)
	r.NotFoundHandler = RequestID(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeStatus(w, req, http.StatusNotFound, "NOT_FOUND", "route not found")
	}))
	r.MethodNotAllowedHandler = RequestID(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeStatus(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}))

	r.HandleFunc("/healthz", h.Health.Health).Methods(http.MethodGet).Name(config.RouteHealth)

	api := r.PathPrefix("/api/v1").Subrouter()
	if rateLimit != nil {
		api.Use(rateLimit)
	}
	api.Use(auth.Handler)

	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost).Name(config.RouteLogin)
	api.HandleFunc("/users", h.Auth.CreateUser).Methods(http.MethodPost).Name(config.RouteCreateUser)

	api.HandleFunc("/customers", h.Customers.Register).Methods(http.MethodPost).Name(config.RouteRegisterCustomer)
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customers.GetCustomer).Methods(http.MethodGet).Name(config.RouteGetCustomer)
	api.HandleFunc("/customers/{id:[0-9]+}/bookings", h.Customers.ListBookings).Methods(http.MethodGet).Name(config.RouteListCustomerBookings)

	api.HandleFunc("/vehicles/search", h.Vehicles.Search).Methods(http.MethodGet).Name(config.RouteSearchVehicles)
	api.HandleFunc("/vehicles", h.Vehicles.List).Methods(http.MethodGet).Name(config.RouteListVehicles)
	api.HandleFunc("/vehicles", h.Vehicles.Add).Methods(http.MethodPost).Name(config.RouteAddVehicle)
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Get).Methods(http.MethodGet).Name(config.RouteGetVehicle)
	api.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Update).Methods(http.MethodPut).Name(config.RouteUpdateVehicle)
	api.HandleFunc("/vehicles/{id:[0-9]+}/status", h.Vehicles.SetStatus).Methods(http.MethodPut).Name(config.RouteSetVehicleStatus)
	api.HandleFunc("/vehicles/{id:[0-9]+}/availability", h.Vehicles.Availability).Methods(http.MethodGet).Name(config.RouteVehicleAvailability)
	api.HandleFunc("/vehicles/{id:[0-9]+}/bookings", h.Vehicles.ListBookings).Methods(http.MethodGet).Name(config.RouteListVehicleBookings)

	api.HandleFunc("/bookings", h.Bookings.Create).Methods(http.MethodPost).Name(config.RouteCreateBooking)
	api.HandleFunc("/bookings/{id:[0-9]+}", h.Bookings.Get).Methods(http.MethodGet).Name(config.RouteGetBooking)
	api.HandleFunc("/bookings/{id:[0-9]+}/confirm", h.Bookings.Confirm).Methods(http.MethodPost).Name(config.RouteConfirmBooking)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", h.Bookings.Cancel).Methods(http.MethodPost).Name(config.RouteCancelBooking)
	api.HandleFunc("/bookings/{id:[0-9]+}/rental", h.Bookings.GetRental).Methods(http.MethodGet).Name(config.RouteGetRentalByBooking)

	api.HandleFunc("/rentals/checkout", h.Rentals.Checkout).Methods(http.MethodPost).Name(config.RouteCheckout)
	api.HandleFunc("/rentals/{id:[0-9]+}", h.Rentals.Get).Methods(http.MethodGet).Name(config.RouteGetRental)
	api.HandleFunc("/rentals/{id:[0-9]+}/checkin", h.Rentals.Checkin).Methods(http.MethodPost).Name(config.RouteCheckin)
	api.HandleFunc("/rentals/{id:[0-9]+}/damage-reports", h.Rentals.CreateDamageReport).Methods(http.MethodPost).Name(config.RouteCreateDamageReport)
	api.HandleFunc("/rentals/{id:[0-9]+}/damage-reports", h.Rentals.ListDamageReports).Methods(http.MethodGet).Name(config.RouteListDamageReports)

	api.HandleFunc("/audit-logs", h.Audit.List).Methods(http.MethodGet).Name(config.RouteListAuditLogs)

	return r
}
