package http

import (
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

// Wire DTOs. Dates travel as YYYY-MM-DD, money as integer cents plus a display string.

type VehicleDTO struct {
	ID             int32  `json:"id"`
	LicensePlate   string `json:"license_plate"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	Category       string `json:"category"`
	Mileage        int    `json:"mileage"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	// Listed rate. Prices are quoted from the category rate table.
	DailyRateCents int64  `json:"daily_rate_cents"`
	DailyRate      string `json:"daily_rate"`
}

func MapVehicleToDTO(v *domain.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:             v.ID,
		LicensePlate:   v.LicensePlate,
		Brand:          v.Brand,
		Model:          v.Model,
		Year:           v.Year,
		Category:       string(v.Category),
		Mileage:        v.Mileage,
		Location:       v.Location,
		Status:         string(v.Status),
		DailyRateCents: v.DailyRate.Cents(),
		DailyRate:      v.DailyRate.String(),
	}
}

func mapVehicles(vs []domain.Vehicle) []VehicleDTO {
	out := make([]VehicleDTO, 0, len(vs))
	for i := range vs {
		out = append(out, MapVehicleToDTO(&vs[i]))
	}
	return out
}

type BookingDTO struct {
	ID                   int32      `json:"id"`
	CustomerID           int32      `json:"customer_id"`
	VehicleID            int32      `json:"vehicle_id"`
	PickupDate           string     `json:"pickup_date"`
	ReturnDate           string     `json:"return_date"`
	PickupLocation       string     `json:"pickup_location"`
	ReturnLocation       string     `json:"return_location"`
	TotalPriceCents      int64      `json:"total_price_cents"`
	TotalPrice           string     `json:"total_price"`
	Status               string     `json:"status"`
	CancellationDeadline time.Time  `json:"cancellation_deadline"`
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"`
	CreatedOn            time.Time  `json:"created_on"`
}

func MapBookingToDTO(b *domain.Booking, loc *time.Location) BookingDTO {
	return BookingDTO{
		ID:                   b.ID,
		CustomerID:           b.CustomerID,
		VehicleID:            b.VehicleID,
		PickupDate:           b.PickupDate.Format(domain.DateLayout),
		ReturnDate:           b.ReturnDate.Format(domain.DateLayout),
		PickupLocation:       b.PickupLocation,
		ReturnLocation:       b.ReturnLocation,
		TotalPriceCents:      b.TotalPrice.Cents(),
		TotalPrice:           b.TotalPrice.String(),
		Status:               string(b.Status),
		CancellationDeadline: b.CancellationDeadline(loc),
		CancelledAt:          b.CancelledAt,
		CreatedOn:            b.CreatedOn,
	}
}

func mapBookings(bs []domain.Booking, loc *time.Location) []BookingDTO {
	out := make([]BookingDTO, 0, len(bs))
	for i := range bs {
		out = append(out, MapBookingToDTO(&bs[i], loc))
	}
	return out
}

type RentalDTO struct {
	ID                   int32      `json:"id"`
	BookingID            int32      `json:"booking_id"`
	VehicleID            int32      `json:"vehicle_id"`
	CustomerID           int32      `json:"customer_id"`
	PlannedPickupDate    string     `json:"planned_pickup_date"`
	PlannedReturnDate    string     `json:"planned_return_date"`
	ActualPickupTime     time.Time  `json:"actual_pickup_time"`
	ActualReturnTime     *time.Time `json:"actual_return_time,omitempty"`
	PickupMileage        int        `json:"pickup_mileage"`
	ReturnMileage        *int       `json:"return_mileage,omitempty"`
	DistanceDriven       int        `json:"distance_driven"`
	PickupCondition      string     `json:"pickup_condition"`
	ReturnCondition      string     `json:"return_condition,omitempty"`
	Status               string     `json:"status"`
	AdditionalCostsCents int64      `json:"additional_costs_cents"`
	AdditionalCosts      string     `json:"additional_costs"`
	AdditionalCostsNote  string     `json:"additional_costs_note,omitempty"`
}

func MapRentalToDTO(r *domain.Rental) RentalDTO {
	return RentalDTO{
		ID:                   r.ID,
		BookingID:            r.BookingID,
		VehicleID:            r.VehicleID,
		CustomerID:           r.CustomerID,
		PlannedPickupDate:    r.PlannedPickupDate.Format(domain.DateLayout),
		PlannedReturnDate:    r.PlannedReturnDate.Format(domain.DateLayout),
		ActualPickupTime:     r.ActualPickupTime,
		ActualReturnTime:     r.ActualReturnTime,
		PickupMileage:        r.PickupMileage,
		ReturnMileage:        r.ReturnMileage,
		DistanceDriven:       r.DistanceDriven(),
		PickupCondition:      r.PickupCondition,
		ReturnCondition:      r.ReturnCondition,
		Status:               string(r.Status),
		AdditionalCostsCents: r.AdditionalCosts.Cents(),
		AdditionalCosts:      r.AdditionalCosts.String(),
		AdditionalCostsNote:  r.AdditionalCostsNote,
	}
}

type DamageReportDTO struct {
	ID              int32     `json:"id"`
	RentalID        int32     `json:"rental_id"`
	VehicleID       int32     `json:"vehicle_id"`
	Description     string    `json:"description"`
	RepairCostCents int64     `json:"repair_cost_cents"`
	RepairCost      string    `json:"repair_cost"`
	Notes           string    `json:"notes,omitempty"`
	ReportedBy      string    `json:"reported_by"`
	CreatedOn       time.Time `json:"created_on"`
}

func MapDamageReportToDTO(d *domain.DamageReport) DamageReportDTO {
	return DamageReportDTO{
		ID:              d.ID,
		RentalID:        d.RentalID,
		VehicleID:       d.VehicleID,
		Description:     d.Description,
		RepairCostCents: d.RepairCost.Cents(),
		RepairCost:      d.RepairCost.String(),
		Notes:           d.Notes,
		ReportedBy:      d.ReportedBy,
		CreatedOn:       d.CreatedOn,
	}
}

type CustomerDTO struct {
	ID                  int32  `json:"id"`
	Username            string `json:"username"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	DriverLicenseNumber string `json:"driver_license_number"`
}

func MapCustomerToDTO(c *domain.Customer) CustomerDTO {
	return CustomerDTO{
		ID:                  c.ID,
		Username:            c.Username,
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Email:               c.Email,
		PhoneNumber:         c.PhoneNumber,
		DriverLicenseNumber: c.DriverLicenseNumber,
	}
}

type UserDTO struct {
	ID         int32  `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	CustomerID *int32 `json:"customer_id,omitempty"`
}

func MapUserToDTO(u *domain.User) UserDTO {
	return UserDTO{ID: u.ID, Username: u.Username, Role: string(u.Role), CustomerID: u.CustomerID}
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

func MapLoginResultToResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        MapUserToDTO(res.User),
	}
}

type PriceQuoteDTO struct {
	Days           int    `json:"days"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	TotalCents     int64  `json:"total_cents"`
	Total          string `json:"total"`
}

type AvailabilityResponse struct {
	VehicleID int32          `json:"vehicle_id"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Available bool           `json:"available"`
	Quote     *PriceQuoteDTO `json:"quote,omitempty"`
}

func mapQuote(b utils.PriceBreakdown) *PriceQuoteDTO {
	return &PriceQuoteDTO{
		Days:           b.Days,
		DailyRateCents: b.DailyRate.Cents(),
		TotalCents:     b.Total.Cents(),
		Total:          b.Total.String(),
	}
}

type AuditLogDTO struct {
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
	Username     string    `json:"username"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Details      string    `json:"details,omitempty"`
	Origin       string    `json:"origin,omitempty"`
}

func MapAuditLogToDTO(a *domain.AuditLog) AuditLogDTO {
	return AuditLogDTO{
		EventID:      a.EventID,
		Timestamp:    a.Timestamp,
		Username:     a.Username,
		Action:       string(a.Action),
		ResourceType: a.ResourceType,
		ResourceID:   a.ResourceID,
		Details:      a.Details,
		Origin:       a.Origin,
	}
}

// Requests

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerCustomerRequest struct {
	Username            string `json:"username"`
	Password            string `json:"password"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phone_number"`
	DriverLicenseNumber string `json:"driver_license_number"`
}

func (r registerCustomerRequest) toService() service.RegisterCustomerRequest {
	return service.RegisterCustomerRequest{
		Username:            r.Username,
		Password:            r.Password,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		Email:               r.Email,
		PhoneNumber:         r.PhoneNumber,
		DriverLicenseNumber: r.DriverLicenseNumber,
	}
}

type addVehicleRequest struct {
	LicensePlate   string `json:"license_plate"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	Category       string `json:"category"`
	Mileage        int    `json:"mileage"`
	Location       string `json:"location"`
	DailyRateCents int64  `json:"daily_rate_cents"`
}

func (r addVehicleRequest) toDomain() (*domain.Vehicle, error) {
	category, err := domain.ParseVehicleCategory(r.Category)
	if err != nil {
		return nil, err
	}
	return &domain.Vehicle{
		LicensePlate: r.LicensePlate,
		Brand:        r.Brand,
		Model:        r.Model,
		Year:         r.Year,
		Category:     category,
		Mileage:      r.Mileage,
		Location:     r.Location,
		DailyRate:    domain.Money(r.DailyRateCents),
	}, nil
}

type updateVehicleRequest struct {
	Brand          *string `json:"brand"`
	Model          *string `json:"model"`
	Location       *string `json:"location"`
	Mileage        *int    `json:"mileage"`
	DailyRateCents *int64  `json:"daily_rate_cents"`
}

func (r updateVehicleRequest) toPatch() service.VehiclePatch {
	patch := service.VehiclePatch{
		Brand:    r.Brand,
		Model:    r.Model,
		Location: r.Location,
		Mileage:  r.Mileage,
	}
	if r.DailyRateCents != nil {
		rate := domain.Money(*r.DailyRateCents)
		patch.DailyRate = &rate
	}
	return patch
}

type setVehicleStatusRequest struct {
	Status string `json:"status"`
}

type createBookingRequest struct {
	CustomerID     int32  `json:"customer_id"`
	VehicleID      int32  `json:"vehicle_id"`
	PickupDate     string `json:"pickup_date"`
	ReturnDate     string `json:"return_date"`
	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
}

func (r createBookingRequest) toService() (service.CreateBookingRequest, error) {
	pickup, err := domain.ParseDate(r.PickupDate)
	if err != nil {
		return service.CreateBookingRequest{}, err
	}
	ret, err := domain.ParseDate(r.ReturnDate)
	if err != nil {
		return service.CreateBookingRequest{}, err
	}
	if r.VehicleID <= 0 {
		return service.CreateBookingRequest{}, domain.InvalidArgumentf("vehicle_id is required")
	}
	return service.CreateBookingRequest{
		CustomerID:     r.CustomerID,
		VehicleID:      r.VehicleID,
		PickupDate:     pickup,
		ReturnDate:     ret,
		PickupLocation: r.PickupLocation,
		ReturnLocation: r.ReturnLocation,
	}, nil
}

type checkoutRequest struct {
	BookingID int32  `json:"booking_id"`
	Mileage   *int   `json:"mileage"`
	Condition string `json:"condition"`
}

type checkinRequest struct {
	Mileage   *int   `json:"mileage"`
	Condition string `json:"condition"`
}

type damageReportRequest struct {
	Description     string `json:"description"`
	RepairCostCents int64  `json:"repair_cost_cents"`
	Notes           string `json:"notes"`
}

type damageReportResponse struct {
	Report DamageReportDTO `json:"report"`
	Rental RentalDTO       `json:"rental"`
}
