package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accounts/internal/delivery/http/middleware"
	"accounts/internal/delivery/http/validator"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"
)

// stubUsecase lets each test script the usecase behind the handler.
type stubUsecase struct {
	registerFn func(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error)
	authFn     func(ctx context.Context, input usecase.LoginInput) (bool, error)
	findFn     func(ctx context.Context, input usecase.LoginInput) (*entity.User, error)
}

func (s *stubUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return s.registerFn(ctx, input)
}

func (s *stubUsecase) Authenticate(ctx context.Context, input usecase.LoginInput) (bool, error) {
	return s.authFn(ctx, input)
}

func (s *stubUsecase) FindAuthenticated(ctx context.Context, input usecase.LoginInput) (*entity.User, error) {
	return s.findFn(ctx, input)
}

func newTestServer(uc usecase.UserUsecase) *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	h := NewUserHandler(uc, logger)
	e.POST("/api/users/register", h.Register)
	e.POST("/api/users/login", h.Login)

	return e
}

func doJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

const registerBody = `{
	"name": "Ana Souza",
	"taxId": "596.324.180-42",
	"email": "ana.souza@example.com",
	"password": "s3cret-password",
	"role": "customer"
}`

func TestRegister_Created(t *testing.T) {
	created := &entity.User{
		ID:           uuid.New(),
		Name:         "Ana Souza",
		TaxID:        "59632418042",
		Email:        "ana.souza@example.com",
		PasswordHash: "$2a$10$secret-digest-material",
		Role:         entity.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}
	uc := &stubUsecase{
		registerFn: func(_ context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			assert.Equal(t, "596.324.180-42", input.TaxID)
			assert.Equal(t, entity.RoleCustomer, input.Role)

			return &usecase.RegisterOutput{User: created}, nil
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/register", registerBody)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID    string `json:"id"`
			TaxID string `json:"taxId"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, created.ID.String(), body.Data.ID)
	assert.Equal(t, "59632418042", body.Data.TaxID)
	assert.Equal(t, "customer", body.Data.Role)
}

func TestRegister_ResponseNeverCarriesHash(t *testing.T) {
	created := &entity.User{
		ID:           uuid.New(),
		Name:         "Ana Souza",
		TaxID:        "59632418042",
		Email:        "ana.souza@example.com",
		PasswordHash: "$2a$10$secret-digest-material",
		Role:         entity.RoleCustomer,
	}
	uc := &stubUsecase{
		registerFn: func(_ context.Context, _ usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			return &usecase.RegisterOutput{User: created}, nil
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/register", registerBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	raw := rec.Body.String()
	assert.NotContains(t, raw, "secret-digest-material")
	assert.NotContains(t, raw, "passwordHash")
	assert.NotContains(t, raw, "password")
}

func TestRegister_InvalidTaxID(t *testing.T) {
	uc := &stubUsecase{
		registerFn: func(_ context.Context, _ usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			return nil, domainerrors.ErrInvalidTaxID
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/register", registerBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TAX_ID")
}

func TestRegister_Conflict(t *testing.T) {
	uc := &stubUsecase{
		registerFn: func(_ context.Context, _ usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			return nil, domainerrors.ErrTaxIDAlreadyRegistered
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/register", registerBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "TAX_ID_ALREADY_REGISTERED")
}

func TestRegister_MissingFields(t *testing.T) {
	uc := &stubUsecase{
		registerFn: func(_ context.Context, _ usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			t.Fatal("usecase must not be called for an invalid payload")

			return nil, nil
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/register", `{"name": "Ana Souza"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	uc := &stubUsecase{
		registerFn: func(_ context.Context, _ usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			t.Fatal("usecase must not be called for an invalid payload")

			return nil, nil
		},
	}

	body := `{"name":"Ana","taxId":"59632418042","email":"a@example.com","password":"short","role":"customer"}`
	rec := doJSON(newTestServer(uc), "/api/users/register", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Match(t *testing.T) {
	uc := &stubUsecase{
		authFn: func(_ context.Context, input usecase.LoginInput) (bool, error) {
			assert.Equal(t, "ana.souza@example.com", input.Email)

			return true, nil
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/login",
		`{"email":"ana.souza@example.com","password":"s3cret-password"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    bool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Data)
}

func TestLogin_NoMatch(t *testing.T) {
	uc := &stubUsecase{
		authFn: func(_ context.Context, _ usecase.LoginInput) (bool, error) {
			return false, nil
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/login",
		`{"email":"ana.souza@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data bool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data)
}

func TestLogin_BackendFailure(t *testing.T) {
	uc := &stubUsecase{
		authFn: func(_ context.Context, _ usecase.LoginInput) (bool, error) {
			return false, domainerrors.ErrAuthenticationFailed
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/login",
		`{"email":"ana.souza@example.com","password":"s3cret-password"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogin_MalformedJSON(t *testing.T) {
	uc := &stubUsecase{
		authFn: func(_ context.Context, _ usecase.LoginInput) (bool, error) {
			t.Fatal("usecase must not be called for a malformed payload")

			return false, nil
		},
	}

	rec := doJSON(newTestServer(uc), "/api/users/login", `{"email": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
