package domain

import "time"

type AuditAction string

const (
	AuditBookingCreated       AuditAction = "BOOKING_CREATED"
	AuditBookingConfirmed     AuditAction = "BOOKING_CONFIRMED"
	AuditBookingCancelled     AuditAction = "BOOKING_CANCELLED"
	AuditRentalCheckout       AuditAction = "RENTAL_CHECKOUT"
	AuditRentalCheckin        AuditAction = "RENTAL_CHECKIN"
	AuditRentalOverdue        AuditAction = "RENTAL_OVERDUE"
	AuditDamageReportCreated  AuditAction = "DAMAGE_REPORT_CREATED"
	AuditVehicleCreated       AuditAction = "VEHICLE_CREATED"
	AuditVehicleUpdated       AuditAction = "VEHICLE_UPDATED"
	AuditVehicleStatusChanged AuditAction = "VEHICLE_STATUS_CHANGED"
	AuditCustomerRegistered   AuditAction = "CUSTOMER_REGISTERED"
	AuditUserCreated          AuditAction = "USER_CREATED"
	AuditLoginSucceeded       AuditAction = "LOGIN_SUCCEEDED"
	AuditLoginFailed          AuditAction = "LOGIN_FAILED"
)

const (
	ResourceBooking      = "BOOKING"
	ResourceRental       = "RENTAL"
	ResourceDamageReport = "DAMAGE_REPORT"
	ResourceVehicle      = "VEHICLE"
	ResourceCustomer     = "CUSTOMER"
	ResourceUser         = "USER"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	Username   string
	Role       Role
	CustomerID *int32
	Origin     string
}

// SystemActor is used by scheduled jobs.
var SystemActor = Actor{Username: "system", Role: RoleAdmin, Origin: "scheduler"}

// CanActFor reports whether the actor may touch data of the given customer.
func (a Actor) CanActFor(customerID int32) bool {
	if a.Role.IsStaff() {
		return true
	}
	return a.CustomerID != nil && *a.CustomerID == customerID
}

type AuditLog struct {
	EventID      string      `json:"event_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Username     string      `json:"username"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	Details      string      `json:"details"`
	Origin       string      `json:"origin"`
}
