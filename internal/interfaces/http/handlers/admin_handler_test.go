package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
)

type userServiceStub struct {
	getFn func(ctx context.Context, id int64) (*entities.User, error)
}

func (s userServiceStub) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return s.getFn(ctx, id)
}

type broadcasterStub struct {
	fn func(ctx context.Context, text string) (int, error)
}

func (s broadcasterStub) Broadcast(ctx context.Context, text string) (int, error) {
	return s.fn(ctx, text)
}

type counterStub struct {
	fn func(ctx context.Context, status entities.OrderStatus) (int64, error)
}

func (s counterStub) CountByStatus(ctx context.Context, status entities.OrderStatus) (int64, error) {
	return s.fn(ctx, status)
}

func TestAdminHandler_GetUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		r := gin.New()
		h := NewAdminHandler(userServiceStub{
			getFn: func(context.Context, int64) (*entities.User, error) {
				return nil, domainerrors.ErrNotFound
			},
		}, nil, nil)
		r.GET("/users/:id", h.GetUser)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/100", nil))

		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		r := gin.New()
		h := NewAdminHandler(userServiceStub{
			getFn: func(_ context.Context, id int64) (*entities.User, error) {
				return &entities.User{ID: id, Status: entities.UserStatusVerified}, nil
			},
		}, nil, nil)
		r.GET("/users/:id", h.GetUser)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/100", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), `"verified"`)
	})
}

func TestAdminHandler_Broadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing message", func(t *testing.T) {
		r := gin.New()
		h := NewAdminHandler(nil, broadcasterStub{
			fn: func(context.Context, string) (int, error) {
				t.Fatal("should not be called")
				return 0, nil
			},
		}, nil)
		r.POST("/broadcast", h.Broadcast)

		req := httptest.NewRequest(http.MethodPost, "/broadcast", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		r := gin.New()
		h := NewAdminHandler(nil, broadcasterStub{
			fn: func(_ context.Context, text string) (int, error) {
				require.Equal(t, "new orders available", text)
				return 2, nil
			},
		}, nil)
		r.POST("/broadcast", h.Broadcast)

		req := httptest.NewRequest(http.MethodPost, "/broadcast", bytes.NewBufferString(`{"message":"new orders available"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), `"sent":2`)
	})
}

func TestAdminHandler_GetStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	h := NewAdminHandler(nil, nil, counterStub{
		fn: func(_ context.Context, status entities.OrderStatus) (int64, error) {
			switch status {
			case entities.OrderStatusPending:
				return 3, nil
			case entities.OrderStatusTaken:
				return 1, nil
			default:
				return 7, nil
			}
		},
	})
	r.GET("/stats", h.GetStats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, fragment := range []string{`"pending":3`, `"taken":1`, `"completed":7`} {
		require.Contains(t, w.Body.String(), fragment)
	}
}
