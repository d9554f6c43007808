package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"accounts/internal/domain/entity"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/model"
)

func setupTestRepository(t *testing.T) repository.UserRepository {
	t.Helper()

	// No TranslateError here: the repository maps duplicates from the raw
	// driver message, which carries the violated column name.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserModel{}))

	return NewUserRepository(db)
}

func newUser() *entity.User {
	return &entity.User{
		Name:         "Ana Souza",
		TaxID:        "59632418042",
		Email:        "ana.souza@example.com",
		PasswordHash: "$2a$10$storedhash",
		Role:         entity.RoleCustomer,
	}
}

func TestSave_AssignsID(t *testing.T) {
	repo := setupTestRepository(t)
	user := newUser()

	err := repo.Save(context.Background(), user)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestSave_KeepsExplicitID(t *testing.T) {
	repo := setupTestRepository(t)
	user := newUser()
	want := uuid.New()
	user.ID = want

	require.NoError(t, repo.Save(context.Background(), user))
	assert.Equal(t, want, user.ID)
}

func TestSave_DuplicateTaxID(t *testing.T) {
	repo := setupTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), newUser()))

	second := newUser()
	second.Email = "other@example.com"

	err := repo.Save(context.Background(), second)
	assert.True(t, errors.Is(err, repository.ErrDuplicateTaxID))
}

func TestSave_DuplicateEmail(t *testing.T) {
	repo := setupTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), newUser()))

	second := newUser()
	second.TaxID = "11144477735"

	err := repo.Save(context.Background(), second)
	assert.True(t, errors.Is(err, repository.ErrDuplicateEmail))
}

func TestFindByID(t *testing.T) {
	repo := setupTestRepository(t)
	user := newUser()
	require.NoError(t, repo.Save(context.Background(), user))

	found, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.Name, found.Name)
	assert.Equal(t, user.TaxID, found.TaxID)
	assert.Equal(t, user.Email, found.Email)
	assert.Equal(t, user.PasswordHash, found.PasswordHash)
	assert.Equal(t, user.Role, found.Role)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestFindByEmail(t *testing.T) {
	repo := setupTestRepository(t)
	user := newUser()
	require.NoError(t, repo.Save(context.Background(), user))

	found, err := repo.FindByEmail(context.Background(), "ana.souza@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestFindByTaxID(t *testing.T) {
	repo := setupTestRepository(t)
	user := newUser()
	require.NoError(t, repo.Save(context.Background(), user))

	found, err := repo.FindByTaxID(context.Background(), "59632418042")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByTaxID(context.Background(), "11144477735")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestExists(t *testing.T) {
	repo := setupTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), newUser()))

	exists, err := repo.ExistsByTaxID(context.Background(), "59632418042")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByTaxID(context.Background(), "11144477735")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(context.Background(), "ana.souza@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
