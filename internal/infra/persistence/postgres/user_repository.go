package postgres

import (
	"context"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Save persists a new user. The unique indexes on tax_id and email make the
// insert the authoritative uniqueness check: a concurrent registration that
// slipped past the service's existence pre-check fails here with the
// matching duplicate sentinel.
func (repo *userRepository) Save(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	userM := model.FromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			switch violatedColumn(err) {
			case "email":
				return repository.ErrDuplicateEmail
			default:
				return repository.ErrDuplicateTaxID
			}
		}

		return errors.Wrap(err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByTaxID retrieves a single user by their tax identifier.
func (repo *userRepository) FindByTaxID(ctx context.Context, taxID string) (*entity.User, error) {
	return repo.findOne(ctx, "tax_id = ?", taxID)
}

// ExistsByTaxID reports whether a user with the tax identifier exists.
func (repo *userRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	return repo.exists(ctx, "tax_id = ?", taxID)
}

// ExistsByEmail reports whether a user with the email exists.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return repo.exists(ctx, "email = ?", email)
}

func (repo *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&userM).Error; err != nil {
		// If the error is 'record not found', return the domain-specific sentinel.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return model.ToUserDomain(&userM), nil
}

func (repo *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count users")
	}

	return count > 0, nil
}
