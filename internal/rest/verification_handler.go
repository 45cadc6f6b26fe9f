package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type codeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) sendVerificationCode(c *gin.Context) {
	var req codeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.verification.SendVerificationCode(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Código de verificación enviado"})
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req codeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.verification.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Código verificado correctamente", "verified": true})
}

func (h *Handler) emailVerified(c *gin.Context) {
	ok, err := h.verification.IsVerified(c.Request.Context(), c.Query("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": ok})
}

func (h *Handler) requestPasswordReset(c *gin.Context) {
	var req codeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.verification.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Código de recuperación enviado a tu correo"})
}

func (h *Handler) verifyResetCode(c *gin.Context) {
	var req codeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.verification.VerifyResetCode(c.Request.Context(), req.Email, req.Code); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Código verificado correctamente"})
}

func (h *Handler) confirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.verification.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contraseña restablecida exitosamente"})
}
