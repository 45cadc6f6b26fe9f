package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "conductor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// Admin access levels.
const (
	AccessSuperAdmin = "superadmin"
	AccessAdmin      = "admin"
	AccessModerator  = "moderador"
)

type User struct {
	ID        uint
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Profile struct {
	ID        uint
	UserID    uint
	Role      Role
	Phone     string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DriverDetail struct {
	ID            uint
	NationalID    string
	LicenseNumber string
	State         string
	Active        bool
}

type AdminDetail struct {
	ID          uint
	AccessLevel string
	Active      bool
}

// Identity is what the directory resolves for an authenticated user.
type Identity struct {
	UserID   uint
	Email    string
	FullName string
	Role     Role
	Phone    string
	Driver   *DriverDetail
	Admin    *AdminDetail
}

func (i Identity) IsAdmin() bool  { return i.Role == RoleAdmin }
func (i Identity) IsDriver() bool { return i.Role == RoleDriver }

// Account is a user together with its profile, as shown on the profile page.
type Account struct {
	User     User
	Profile  Profile
	Identity Identity
}

type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Phone           string
	Address         string
	City            string
	Role            Role
	NationalID      string
	LicenseNumber   string
}

// DriverSignup carries the driver record created together with a conductor account.
type DriverSignup struct {
	NationalID    string
	LicenseNumber string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
}

// Customer is a customer account as listed to administrators.
type Customer struct {
	ID       uint      `json:"id"`
	FullName string    `json:"nombre"`
	Email    string    `json:"email"`
	Phone    string    `json:"telefono"`
	City     string    `json:"ciudad"`
	Address  string    `json:"direccion"`
	JoinedAt time.Time `json:"fecha_registro"`
	Active   bool      `json:"activo"`
}

type CustomerFilter struct {
	Active *bool
	City   string
	// Search matches names, email and phone.
	Search string
}

// UpdateCustomerInput carries the fields an administrator may change on a
// customer account. Nil fields are left untouched.
type UpdateCustomerInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	City      *string
}
