package rest

import (
	"time"

	"tecnoroute-be/internal/user"
)

type driverInfo struct {
	ID            uint   `json:"id"`
	NationalID    string `json:"cedula"`
	LicenseNumber string `json:"licencia"`
	State         string `json:"estado"`
}

type adminInfo struct {
	ID          uint   `json:"id"`
	AccessLevel string `json:"nivel_acceso"`
}

type userResponse struct {
	ID         uint        `json:"id"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name,omitempty"`
	LastName   string      `json:"last_name,omitempty"`
	FullName   string      `json:"nombre_completo"`
	Role       user.Role   `json:"role"`
	Phone      string      `json:"telefono"`
	Address    string      `json:"direccion,omitempty"`
	City       string      `json:"ciudad,omitempty"`
	DateJoined *time.Time  `json:"date_joined,omitempty"`
	Driver     *driverInfo `json:"conductor_info,omitempty"`
	Admin      *adminInfo  `json:"admin_info,omitempty"`
}

func mapIdentity(id *user.Identity) *userResponse {
	if id == nil {
		return nil
	}

	resp := &userResponse{
		ID:       id.UserID,
		Email:    id.Email,
		FullName: id.FullName,
		Role:     id.Role,
		Phone:    id.Phone,
	}
	if id.Driver != nil {
		resp.Driver = &driverInfo{
			ID:            id.Driver.ID,
			NationalID:    id.Driver.NationalID,
			LicenseNumber: id.Driver.LicenseNumber,
			State:         id.Driver.State,
		}
	}
	if id.Admin != nil {
		resp.Admin = &adminInfo{ID: id.Admin.ID, AccessLevel: id.Admin.AccessLevel}
	}
	return resp
}

func mapAccount(a *user.Account) *userResponse {
	resp := mapIdentity(&a.Identity)
	resp.ID = a.User.ID
	resp.Email = a.User.Email
	resp.FirstName = a.User.FirstName
	resp.LastName = a.User.LastName
	resp.FullName = a.User.FullName()
	resp.Role = a.Profile.Role
	resp.Phone = a.Profile.Phone
	resp.Address = a.Profile.Address
	resp.City = a.Profile.City
	joined := a.User.CreatedAt
	resp.DateJoined = &joined
	return resp
}
