package verification

import (
	"context"
	"fmt"
	"strings"

	"tecnoroute-be/internal/apperror"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/notify"

	"go.uber.org/zap"
)

const minPasswordLength = 8

// CodeStore is implemented by *Store.
type CodeStore interface {
	IssueEmailCode(ctx context.Context, email string) (string, bool, error)
	CheckEmailCode(ctx context.Context, email, code string) (bool, error)
	IsVerified(ctx context.Context, email string) (bool, error)
	IssueResetCode(ctx context.Context, email string) (string, error)
	CheckResetCode(ctx context.Context, email, code string) (bool, error)
	ConsumeResetCode(ctx context.Context, email, code string) (bool, error)
}

// Accounts is the part of the user service the flows need.
type Accounts interface {
	EmailAvailable(ctx context.Context, email string) (bool, error)
	ResetPassword(ctx context.Context, email, next string) error
}

type Service interface {
	SendVerificationCode(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email, code string) error
	IsVerified(ctx context.Context, email string) (bool, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
}

type service struct {
	store    CodeStore
	accounts Accounts
	mailer   notify.Mailer
}

func NewService(store CodeStore, accounts Accounts, mailer notify.Mailer) Service {
	if mailer == nil {
		mailer = notify.LogMailer{}
	}
	return &service{store: store, accounts: accounts, mailer: mailer}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) SendVerificationCode(ctx context.Context, email string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SendVerificationCode"),
	)

	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	available, err := s.accounts.EmailAvailable(ctx, email)
	if err != nil {
		return err
	}
	if !available {
		return ErrEmailRegistered
	}

	code, reused, err := s.store.IssueEmailCode(ctx, email)
	if err != nil {
		log.Error("failed to store verification code", zap.Error(err))
		return err
	}

	err = s.mailer.Send(ctx, notify.Message{
		To:      email,
		Subject: "Código de Verificación - TecnoRoute",
		Body: fmt.Sprintf(
			"¡Hola!\n\nGracias por registrarte en TecnoRoute.\n\nTu código de verificación es: %s\n\nEste código es válido por 10 minutos.\n\nSi no solicitaste este código, puedes ignorar este email.\n\nSaludos,\nEquipo de TecnoRoute\n",
			code,
		),
	})
	if err != nil {
		log.Error("failed to send verification code", zap.Error(err))
		return apperror.Internal("failed to send verification code", err)
	}

	log.Info("verification code sent", zap.Bool("reused", reused))
	return nil
}

func (s *service) VerifyEmail(ctx context.Context, email, code string) error {
	email, code = normalizeEmail(email), strings.TrimSpace(code)
	if email == "" || code == "" {
		return ErrEmailAndCode
	}

	ok, err := s.store.CheckEmailCode(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

func (s *service) IsVerified(ctx context.Context, email string) (bool, error) {
	return s.store.IsVerified(ctx, normalizeEmail(email))
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RequestPasswordReset"),
	)

	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	available, err := s.accounts.EmailAvailable(ctx, email)
	if err != nil {
		return err
	}
	if available {
		return ErrUnknownEmail
	}

	code, err := s.store.IssueResetCode(ctx, email)
	if err != nil {
		log.Error("failed to store reset code", zap.Error(err))
		return err
	}

	err = s.mailer.Send(ctx, notify.Message{
		To:      email,
		Subject: "Código de Recuperación de Contraseña - TecnoRoute",
		Body: fmt.Sprintf(
			"Hola,\n\nHas solicitado recuperar tu contraseña en TecnoRoute.\n\nTu código de verificación es: %s\n\nEste código es válido por 15 minutos.\n\nSi no solicitaste este código, puedes ignorar este mensaje.\n\nSaludos,\nEquipo TecnoRoute\n",
			code,
		),
	})
	if err != nil {
		log.Error("failed to send reset code", zap.Error(err))
		return apperror.Internal("failed to send reset code", err)
	}
	return nil
}

func (s *service) VerifyResetCode(ctx context.Context, email, code string) error {
	email, code = normalizeEmail(email), strings.TrimSpace(code)
	if email == "" || code == "" {
		return ErrEmailAndCode
	}

	ok, err := s.store.CheckResetCode(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

// ConfirmPasswordReset spends the code only once the new password is stored,
// so a failed update leaves the code usable for a retry.
func (s *service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmPasswordReset"),
	)

	email, code = normalizeEmail(email), strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" {
		return ErrResetFields
	}
	if len([]rune(newPassword)) < minPasswordLength {
		return ErrPasswordTooShort
	}

	ok, err := s.store.CheckResetCode(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	if err := s.accounts.ResetPassword(ctx, email, newPassword); err != nil {
		return err
	}

	spent, err := s.store.ConsumeResetCode(ctx, email, code)
	if err != nil {
		log.Error("failed to spend reset code", zap.Error(err))
	} else if !spent {
		log.Warn("reset code already spent")
	}
	log.Info("password reset completed")
	return nil
}
