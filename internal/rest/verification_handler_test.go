package rest

import (
	"context"
	"net/http"
	"testing"

	"tecnoroute-be/internal/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockVerificationService struct{ mock.Mock }

func (m *MockVerificationService) SendVerificationCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockVerificationService) VerifyEmail(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *MockVerificationService) IsVerified(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockVerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockVerificationService) VerifyResetCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *MockVerificationService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	return m.Called(ctx, email, code, newPassword).Error(0)
}

func TestSendVerificationCode(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		svc := new(MockVerificationService)
		r := newTestEngine(NewHandler(Services{Verification: svc}), 0, nil)

		svc.On("SendVerificationCode", mock.Anything, "ana@example.com").Return(nil)

		w := do(r, http.MethodPost, "/auth/send-verification-code/", `{"email":"ana@example.com"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Código de verificación enviado", decode(t, w)["message"])
	})

	t.Run("already registered", func(t *testing.T) {
		svc := new(MockVerificationService)
		r := newTestEngine(NewHandler(Services{Verification: svc}), 0, nil)

		svc.On("SendVerificationCode", mock.Anything, "ana@example.com").Return(verification.ErrEmailRegistered)

		w := do(r, http.MethodPost, "/auth/send-verification-code/", `{"email":"ana@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Este correo ya está registrado", decode(t, w)["error"])
	})
}

func TestVerifyEmail(t *testing.T) {
	svc := new(MockVerificationService)
	r := newTestEngine(NewHandler(Services{Verification: svc}), 0, nil)

	svc.On("VerifyEmail", mock.Anything, "ana@example.com", "123456").Return(nil).Once()
	svc.On("VerifyEmail", mock.Anything, "ana@example.com", "000000").Return(verification.ErrInvalidCode).Once()

	w := do(r, http.MethodPost, "/auth/verify-email/", `{"email":"ana@example.com","code":"123456"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["verified"])

	w = do(r, http.MethodPost, "/auth/verify-email/", `{"email":"ana@example.com","code":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Código inválido o expirado", decode(t, w)["error"])
}

func TestEmailVerified(t *testing.T) {
	svc := new(MockVerificationService)
	r := newTestEngine(NewHandler(Services{Verification: svc}), 0, nil)

	svc.On("IsVerified", mock.Anything, "ana@example.com").Return(true, nil)

	w := do(r, http.MethodGet, "/auth/email-verified/?email=ana@example.com", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["verified"])
}

func TestPasswordResetFlow(t *testing.T) {
	svc := new(MockVerificationService)
	r := newTestEngine(NewHandler(Services{Verification: svc}), 0, nil)

	svc.On("RequestPasswordReset", mock.Anything, "nadie@example.com").Return(verification.ErrUnknownEmail)
	svc.On("VerifyResetCode", mock.Anything, "ana@example.com", "654321").Return(nil)
	svc.On("ConfirmPasswordReset", mock.Anything, "ana@example.com", "654321", "NuevaClave9").Return(nil)

	w := do(r, http.MethodPost, "/auth/password-reset/request/", `{"email":"nadie@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/auth/password-reset/verify/", `{"email":"ana@example.com","code":"654321"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/auth/password-reset/confirm/",
		`{"email":"ana@example.com","code":"654321","new_password":"NuevaClave9"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Contraseña restablecida exitosamente", decode(t, w)["message"])

	svc.AssertExpectations(t)
}
