package userservice

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestClient_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("успешный ответ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/internal/users/42", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": 42, "role": "patient", "display_name": "Иван", "is_active": true}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, nopLogger{})

		user, err := client.GetUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, "patient", user.Role)
		assert.Equal(t, "Иван", user.DisplayName)
		assert.True(t, user.IsActive)
	})

	t.Run("404 маппится в ErrUserNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, nopLogger{})

		_, err := client.GetUser(ctx, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("400 маппится в ErrInvalidResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, nopLogger{})

		_, err := client.GetUser(ctx, 42)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("неожиданный статус", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, nopLogger{})

		_, err := client.GetUser(ctx, 42)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("битый JSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id": `)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 5*time.Second, nopLogger{})

		_, err := client.GetUser(ctx, 42)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("недоступный сервис", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", 500*time.Millisecond, nopLogger{})

		_, err := client.GetUser(ctx, 42)
		assert.ErrorIs(t, err, ErrInternal)
	})
}
