package domain

import "time"

type Role string

const (
	RoleStudent     Role = "STUDENT"
	RoleDiningStaff Role = "DINING_STAFF"
	RoleFacilities  Role = "FACILITIES"
	RoleAdmin       Role = "ADMIN"
)

// User is identified by campus net-id. Authentication is handled upstream;
// this service only needs identity and role for authorization of
// facilities-only actions.
type User struct {
	NetID     string    `json:"net_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedOn time.Time `json:"created_on"`
}
