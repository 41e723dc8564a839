package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/util"
)

type mockAccountRepo struct {
	findByTokenHashFunc func(ctx context.Context, tokenHash string) (*model.Account, error)
}

func (m *mockAccountRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Account, error) {
	if m.findByTokenHashFunc != nil {
		return m.findByTokenHashFunc(ctx, tokenHash)
	}
	return nil, nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	return nil, nil
}

func (m *mockAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	return nil, nil
}

func (m *mockAccountRepo) UpdateTokenHash(ctx context.Context, id, tokenHash string) error {
	return nil
}

func (m *mockAccountRepo) WithTx(tx *sqlx.Tx) repository.AccountRepository {
	return m
}

func TestAuthMiddleware(t *testing.T) {
	testAccount := &model.Account{
		ID:              "acc-123",
		RateLimitPerMin: 60,
	}
	validToken := "valid-token"
	validTokenHash := util.HashToken(validToken)

	t.Run("allows request with valid bearer token", func(t *testing.T) {
		accountRepo := &mockAccountRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.Account, error) {
				if tokenHash == validTokenHash {
					return testAccount, nil
				}
				return nil, nil
			},
		}

		middleware := NewAuthMiddleware(accountRepo)
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := GetAccount(r.Context())
			require.NotNil(t, account)
			assert.Equal(t, "acc-123", account.ID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects request without token", func(t *testing.T) {
		accountRepo := &mockAccountRepo{}
		middleware := NewAuthMiddleware(accountRepo)
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects request with unknown token", func(t *testing.T) {
		accountRepo := &mockAccountRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.Account, error) {
				return nil, nil
			},
		}
		middleware := NewAuthMiddleware(accountRepo)
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects non-bearer authorization header", func(t *testing.T) {
		accountRepo := &mockAccountRepo{}
		middleware := NewAuthMiddleware(accountRepo)
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns 500 when repository fails", func(t *testing.T) {
		accountRepo := &mockAccountRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.Account, error) {
				return nil, errors.New("connection refused")
			},
		}
		middleware := NewAuthMiddleware(accountRepo)
		handler := middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetAccount(t *testing.T) {
	t.Run("returns nil for empty context", func(t *testing.T) {
		assert.Nil(t, GetAccount(context.Background()))
	})

	t.Run("returns account from context", func(t *testing.T) {
		account := &model.Account{ID: "acc-1"}
		ctx := context.WithValue(context.Background(), AccountContextKey, account)
		assert.Equal(t, account, GetAccount(ctx))
	})
}
