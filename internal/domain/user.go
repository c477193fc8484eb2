package domain

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// User is a login. Customers are linked to their customer record, staff are not.
type User struct {
	Metadata
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	CustomerID   *int32 `json:"customer_id,omitempty"`
}
