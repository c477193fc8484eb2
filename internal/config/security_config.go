// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Any valid access token
	SecurityStaff                              // EMPLOYEE or ADMIN access token
	SecurityAdmin                              // ADMIN access token
)

// Route names shared by the router and the security table
const (
	RouteHealth               = "Health"
	RouteLogin                = "Login"
	RouteRegisterCustomer     = "RegisterCustomer"
	RouteGetCustomer          = "GetCustomer"
	RouteListCustomerBookings = "ListCustomerBookings"
	RouteSearchVehicles       = "SearchAvailableVehicles"
	RouteListVehicles         = "ListVehicles"
	RouteAddVehicle           = "AddVehicle"
	RouteGetVehicle           = "GetVehicle"
	RouteUpdateVehicle        = "UpdateVehicle"
	RouteSetVehicleStatus     = "SetVehicleStatus"
	RouteVehicleAvailability  = "IsVehicleAvailable"
	RouteListVehicleBookings  = "ListVehicleBookings"
	RouteCreateBooking        = "CreateBooking"
	RouteGetBooking           = "GetBooking"
	RouteConfirmBooking       = "ConfirmBooking"
	RouteCancelBooking        = "CancelBooking"
	RouteCheckout             = "Checkout"
	RouteGetRental            = "GetRental"
	RouteGetRentalByBooking   = "GetRentalByBooking"
	RouteCheckin              = "Checkin"
	RouteCreateDamageReport   = "CreateDamageReport"
	RouteListDamageReports    = "ListDamageReports"
	RouteListAuditLogs        = "ListAuditLogs"
	RouteCreateUser           = "CreateUser"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	RouteHealth:           SecurityPublic,
	RouteLogin:            SecurityPublic,
	RouteRegisterCustomer: SecurityPublic,

	// Any authenticated user; ownership is checked by the services
	RouteGetCustomer:          SecurityAuthenticated,
	RouteListCustomerBookings: SecurityAuthenticated,
	RouteSearchVehicles:       SecurityAuthenticated,
	RouteListVehicles:         SecurityAuthenticated,
	RouteGetVehicle:           SecurityAuthenticated,
	RouteVehicleAvailability:  SecurityAuthenticated,
	RouteCreateBooking:        SecurityAuthenticated,
	RouteGetBooking:           SecurityAuthenticated,
	RouteCancelBooking:        SecurityAuthenticated,

	// Staff
	RouteAddVehicle:          SecurityStaff,
	RouteUpdateVehicle:       SecurityStaff,
	RouteSetVehicleStatus:    SecurityStaff,
	RouteListVehicleBookings: SecurityStaff,
	RouteConfirmBooking:      SecurityStaff,
	RouteCheckout:            SecurityStaff,
	RouteGetRental:           SecurityStaff,
	RouteGetRentalByBooking:  SecurityStaff,
	RouteCheckin:             SecurityStaff,
	RouteCreateDamageReport:  SecurityStaff,
	RouteListDamageReports:   SecurityStaff,

	// Admin
	RouteListAuditLogs: SecurityAdmin,
	RouteCreateUser:    SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
