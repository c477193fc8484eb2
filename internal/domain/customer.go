package domain

type Customer struct {
	Metadata
	Username            string `json:"username"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phone_number"`
	DriverLicenseNumber string `json:"driver_license_number"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
