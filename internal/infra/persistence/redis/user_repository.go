package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "user"

// userRepository implements repository.UserRepository on top of Redis.
//
// Layout: the record itself lives at {prefix}:id:{uuid} as JSON; the index
// keys {prefix}:taxid:{digits} and {prefix}:email:{email} hold the record's
// id. Index keys are written with SETNX, so claiming a tax id or email is an
// atomic conditional write — two concurrent registrations for the same
// identifier cannot both succeed.
type userRepository struct {
	client *redis.Client
	prefix string
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(client *redis.Client, prefix string) repository.UserRepository {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &userRepository{client: client, prefix: prefix}
}

func (repo *userRepository) idKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:id:%s", repo.prefix, id)
}

func (repo *userRepository) taxIDKey(taxID string) string {
	return fmt.Sprintf("%s:taxid:%s", repo.prefix, taxID)
}

func (repo *userRepository) emailKey(email string) string {
	return fmt.Sprintf("%s:email:%s", repo.prefix, email)
}

// Save persists a new user. The tax-id index is claimed first, then the
// email index; only after both claims succeed is the record written. If the
// email claim loses, the tax-id claim is released again so the failed
// registration leaves nothing behind.
func (repo *userRepository) Save(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	idValue := user.ID.String()

	claimed, err := repo.client.SetNX(ctx, repo.taxIDKey(user.TaxID), idValue, 0).Result()
	if err != nil {
		return errors.Wrap(err, "failed to claim tax id index")
	}
	if !claimed {
		return repository.ErrDuplicateTaxID
	}

	claimed, err = repo.client.SetNX(ctx, repo.emailKey(user.Email), idValue, 0).Result()
	if err == nil && !claimed {
		err = repository.ErrDuplicateEmail
	}
	if err != nil {
		// Release the tax-id claim; the registration did not happen.
		repo.client.Del(ctx, repo.taxIDKey(user.TaxID))
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return repository.ErrDuplicateEmail
		}

		return errors.Wrap(err, "failed to claim email index")
	}

	data, err := json.Marshal(model.FromUserDomain(user))
	if err != nil {
		return errors.Wrap(err, "failed to marshal user")
	}

	if err := repo.client.Set(ctx, repo.idKey(user.ID), data, 0).Err(); err != nil {
		repo.client.Del(ctx, repo.taxIDKey(user.TaxID), repo.emailKey(user.Email))

		return errors.Wrap(err, "failed to store user record")
	}

	return nil
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.getRecord(ctx, repo.idKey(id))
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findViaIndex(ctx, repo.emailKey(email))
}

// FindByTaxID retrieves a single user by their tax identifier.
func (repo *userRepository) FindByTaxID(ctx context.Context, taxID string) (*entity.User, error) {
	return repo.findViaIndex(ctx, repo.taxIDKey(taxID))
}

// ExistsByTaxID reports whether a user with the tax identifier exists.
func (repo *userRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	return repo.keyExists(ctx, repo.taxIDKey(taxID))
}

// ExistsByEmail reports whether a user with the email exists.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return repo.keyExists(ctx, repo.emailKey(email))
}

func (repo *userRepository) findViaIndex(ctx context.Context, indexKey string) (*entity.User, error) {
	idValue, err := repo.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to read index key")
	}

	id, err := uuid.Parse(idValue)
	if err != nil {
		return nil, errors.Wrap(err, "corrupt index entry")
	}

	return repo.getRecord(ctx, repo.idKey(id))
}

func (repo *userRepository) getRecord(ctx context.Context, key string) (*entity.User, error) {
	data, err := repo.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to read user record")
	}

	var userM model.UserModel
	if err := json.Unmarshal(data, &userM); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal user record")
	}

	return model.ToUserDomain(&userM), nil
}

func (repo *userRepository) keyExists(ctx context.Context, key string) (bool, error) {
	n, err := repo.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to check key existence")
	}

	return n > 0, nil
}
