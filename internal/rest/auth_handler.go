package rest

import (
	"fmt"
	"net/http"

	"tecnoroute-be/internal/auth"
	"tecnoroute-be/internal/user"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"telefono"`
	Address         string `json:"direccion"`
	City            string `json:"ciudad"`
	Role            string `json:"role"`
	NationalID      string `json:"cedula"`
	LicenseNumber   string `json:"licencia"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"telefono"`
	Address   *string `json:"direccion"`
	City      *string `json:"ciudad"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

type phoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token, id, err := h.users.Register(c.Request.Context(), actorID(c), user.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		Role:            user.Role(req.Role),
		NationalID:      req.NationalID,
		LicenseNumber:   req.LicenseNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario registrado exitosamente",
		"token":   token,
		"user":    mapIdentity(id),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token, id, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	name := id.FullName
	if name == "" {
		name = id.Email
	}
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    mapIdentity(id),
		"message": fmt.Sprintf("Bienvenido %s", name),
	})
}

// logout only clears the cookie; tokens are stateless.
func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada exitosamente"})
}

func (h *Handler) getProfile(c *gin.Context) {
	account, err := h.users.GetProfile(c.Request.Context(), actorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapAccount(account))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.users.UpdateProfile(c.Request.Context(), actorID(c), user.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Perfil actualizado exitosamente",
		"user":    mapAccount(account),
	})
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), actorID(c), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contraseña cambiada exitosamente"})
}

func (h *Handler) checkEmail(c *gin.Context) {
	var req emailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	available, err := h.users.EmailAvailable(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": !available})
}

func (h *Handler) checkPhone(c *gin.Context) {
	var req phoneRequest
	if !h.bindJSON(c, &req) {
		return
	}

	available, err := h.users.PhoneAvailable(c.Request.Context(), req.Phone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": !available})
}
