// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/domain/service"
	"accounts/internal/domain/taxid"
	"accounts/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	logger   *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// normalizeEmail applies the store-wide email policy: surrounding
// whitespace is dropped and comparison is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register orchestrates the complete registration process: checksum
// validation, uniqueness checks, credential hashing and persistence.
// Hashing happens here, at an explicit call site; the entity never hashes
// anything on assignment.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	normalizedTaxID, ok := taxid.Normalize(input.TaxID)
	if !ok {
		srv.log(ctx).Warn("Registration rejected: invalid tax identifier")

		return nil, domainerrors.ErrInvalidTaxID.WrapMessage("registration failed")
	}

	if !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role " + input.Role.String())
	}

	email := normalizeEmail(input.Email)

	// Fail fast before hashing. The store's conditional insert remains the
	// authoritative uniqueness check, so a race between these lookups and
	// Save still cannot produce duplicates.
	taken, err := srv.userRepo.ExistsByTaxID(ctx, normalizedTaxID)
	if err != nil {
		return nil, srv.registrationStoreFailure(ctx, err, "failed to check tax id uniqueness")
	}
	if taken {
		srv.log(ctx).Warn("Registration rejected: tax identifier already registered")

		return nil, domainerrors.ErrTaxIDAlreadyRegistered.WrapMessage("registration failed")
	}

	taken, err = srv.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, srv.registrationStoreFailure(ctx, err, "failed to check email uniqueness")
	}
	if taken {
		srv.log(ctx).Warn("Registration rejected: email already registered", slog.String("email", email))

		return nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("registration failed")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrRegistrationFailed, "failed to hash password")
	}

	newUser := &entity.User{
		Name:         input.Name,
		TaxID:        normalizedTaxID,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         input.Role,
	}

	if err := srv.userRepo.Save(ctx, newUser); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateTaxID):
			return nil, domainerrors.ErrTaxIDAlreadyRegistered.WrapMessage("registration failed")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("registration failed")
		default:
			return nil, srv.registrationStoreFailure(ctx, err, "failed to persist user")
		}
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Authenticate checks a login attempt. "No such user" and "wrong password"
// are both a plain false; a failing store is an error so callers can tell
// bad credentials from an unavailable backend.
func (srv *userService) Authenticate(ctx context.Context, input usecase.LoginInput) (bool, error) {
	user, err := srv.lookupForLogin(ctx, input.Email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	return srv.hasher.Check(input.Password, user.PasswordHash), nil
}

// FindAuthenticated returns the account matching the credentials, or nil
// when the email is unknown or the password does not match.
func (srv *userService) FindAuthenticated(ctx context.Context, input usecase.LoginInput) (*entity.User, error) {
	user, err := srv.lookupForLogin(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}

// lookupForLogin resolves an email to a stored account. Absence is (nil, nil);
// any other store failure is wrapped as an authentication failure.
func (srv *userService) lookupForLogin(ctx context.Context, email string) (*entity.User, error) {
	user, err := srv.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		srv.log(ctx).Error("Store failure during login lookup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrAuthenticationFailed.WithDetails(err.Error()), "login lookup failed")
	}

	return user, nil
}

// registrationStoreFailure maps a failing store backend to the 503-class
// taxonomy entry so callers can tell an unavailable store from bad input.
func (srv *userService) registrationStoreFailure(ctx context.Context, cause error, msg string) error {
	srv.log(ctx).Error("Store failure during registration", slog.Any("error", cause))

	return errors.Wrap(domainerrors.ErrStoreUnavailable.WithDetails(cause.Error()), msg)
}
