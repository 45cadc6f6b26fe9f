package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tecnoroute-be/internal/apperror"
	"tecnoroute-be/internal/db"
	"tecnoroute-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, actorID uint, in RegisterInput) (string, *Identity, error)
	Login(ctx context.Context, email, password string) (string, *Identity, error)
	GetProfile(ctx context.Context, userID uint) (*Account, error)
	UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*Account, error)
	ChangePassword(ctx context.Context, userID uint, current, next string) error
	ResetPassword(ctx context.Context, email, next string) error
	EmailAvailable(ctx context.Context, email string) (bool, error)
	PhoneAvailable(ctx context.Context, phone string) (bool, error)
	DeleteAccount(ctx context.Context, userID uint) error

	ListCustomers(ctx context.Context, actorID uint, f CustomerFilter) ([]*Customer, error)
	ActiveCustomers(ctx context.Context, actorID uint) ([]*Customer, error)
	GetCustomer(ctx context.Context, actorID, id uint) (*Customer, error)
	UpdateCustomer(ctx context.Context, actorID, id uint, in UpdateCustomerInput) (*Customer, error)
	DeactivateCustomer(ctx context.Context, actorID, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register creates an account. Admin accounts can only be created by an admin
// actor; actorID is zero for anonymous sign-ups.
func (s *service) Register(ctx context.Context, actorID uint, in RegisterInput) (string, *Identity, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return "", nil, ErrCredentialsRequired
	}
	if len([]rune(in.Password)) < 6 {
		return "", nil, ErrPasswordTooShort
	}
	if in.Password != in.PasswordConfirm {
		return "", nil, ErrPasswordMismatch
	}
	if in.Role == "" {
		in.Role = RoleCustomer
	}
	if !in.Role.Valid() {
		return "", nil, ErrInvalidRole
	}

	var driver *DriverSignup
	switch in.Role {
	case RoleDriver:
		in.NationalID = strings.TrimSpace(in.NationalID)
		in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
		if in.NationalID == "" {
			return "", nil, ErrNationalIDRequired
		}
		if in.LicenseNumber == "" {
			return "", nil, ErrLicenseRequired
		}
		driver = &DriverSignup{NationalID: in.NationalID, LicenseNumber: in.LicenseNumber}
	case RoleAdmin:
		if err := s.requireAdmin(ctx, actorID); err != nil {
			log.Warn("admin sign-up rejected", zap.Uint("actor_id", actorID))
			return "", nil, err
		}
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, apperror.Internal("failed to hash password", err)
	}

	u, err := s.repo.Create(ctx,
		&User{Email: in.Email, Password: hashed, FirstName: in.FirstName, LastName: in.LastName},
		&Profile{Role: in.Role, Phone: in.Phone, Address: in.Address, City: in.City},
		driver,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			if strings.HasPrefix(db.ConstraintName(err), "drivers_") {
				return "", nil, ErrDriverIdentityTaken
			}
			return "", nil, ErrEmailExists
		}
		log.Error("failed to create user", zap.Error(err))
		return "", nil, err
	}

	identity, err := s.resolve(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := GenerateJWT(u.ID, string(identity.Role), u.Email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("new_user_id", u.ID), zap.Error(err))
		return "", nil, apperror.Internal("failed to generate token", err)
	}

	log.Info("register service completed",
		zap.Uint("new_user_id", u.ID),
		zap.String("role", string(identity.Role)),
	)
	return token, identity, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, ErrCredentialsRequired
	}

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("email not found")
			return "", nil, ErrInvalidCredentials
		}
		log.Error("failed to find user", zap.Error(err))
		return "", nil, err
	}

	if !u.IsActive || !CheckPasswordHash(password, u.Password) {
		log.Info("password not match")
		return "", nil, ErrInvalidCredentials
	}

	identity, err := s.ensureIdentity(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := GenerateJWT(u.ID, string(identity.Role), u.Email)
	if err != nil {
		return "", nil, apperror.Internal("failed to generate token", err)
	}
	return token, identity, nil
}

// GetProfile returns the account, creating a customer profile when missing.
func (s *service) GetProfile(ctx context.Context, userID uint) (*Account, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	p, found, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		p, err = s.repo.CreateProfile(ctx, &Profile{UserID: userID, Role: RoleCustomer})
		if err != nil {
			return nil, err
		}
	}

	identity, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Account{User: *u, Profile: *p, Identity: *identity}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*Account, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProfile"),
	)

	// make sure the profile row exists before updating it
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		in.Email = &email
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return nil, err
		}
	}

	if err := s.repo.UpdateAccount(ctx, userID, in); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		log.Error("failed to update account", zap.Error(err))
		return nil, err
	}

	log.Info("profile updated")
	return s.GetProfile(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if next == "" {
		return ErrNewPasswordRequired
	}
	if err := ValidatePasswordStrength(next); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if !CheckPasswordHash(current, u.Password) {
		return ErrWrongPassword
	}

	return s.setPassword(ctx, u.Email, next)
}

// ResetPassword sets a new password without the current one. Callers must have
// verified a reset code first.
func (s *service) ResetPassword(ctx context.Context, email, next string) error {
	if len([]rune(next)) < 8 {
		return ErrPasswordLength
	}
	return s.setPassword(ctx, email, next)
}

func (s *service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.EmailExists(ctx, strings.TrimSpace(email))
	return !exists, err
}

func (s *service) PhoneAvailable(ctx context.Context, phone string) (bool, error) {
	exists, err := s.repo.PhoneExists(ctx, strings.TrimSpace(phone))
	return !exists, err
}

func (s *service) setPassword(ctx context.Context, email, next string) error {
	hashed, err := HashPassword(next)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, email, hashed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	logger.FromCtx(ctx).Info("password updated", zap.String("layer", "service"))
	return nil
}

func (s *service) requireAdmin(ctx context.Context, actorID uint) error {
	if actorID == 0 {
		return ErrAdminSignup
	}
	identity, found, err := s.repo.Resolve(ctx, actorID)
	if err != nil {
		return err
	}
	if !found || !identity.IsAdmin() {
		return ErrAdminSignup
	}
	return nil
}

func (s *service) resolve(ctx context.Context, userID uint) (*Identity, error) {
	identity, found, err := s.repo.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return &identity, nil
}

// ensureIdentity resolves the identity, creating a default profile for accounts
// that predate profiles.
func (s *service) ensureIdentity(ctx context.Context, userID uint) (*Identity, error) {
	identity, found, err := s.repo.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if found {
		return &identity, nil
	}
	if _, err := s.repo.CreateProfile(ctx, &Profile{UserID: userID, Role: RoleCustomer}); err != nil {
		return nil, err
	}
	return s.resolve(ctx, userID)
}
