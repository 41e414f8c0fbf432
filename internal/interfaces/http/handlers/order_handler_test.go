package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"dropmarket.backend/internal/domain/entities"
	domainerrors "dropmarket.backend/internal/domain/errors"
)

type orderServiceStub struct {
	getFn           func(ctx context.Context, orderID int64) (*entities.Order, error)
	listPendingFn   func(ctx context.Context, limit int) ([]*entities.Order, error)
	listActiveFn    func(ctx context.Context, limit int) ([]*entities.Order, error)
	listCompletedFn func(ctx context.Context, limit int) ([]*entities.Order, error)
	completeFn      func(ctx context.Context, orderID int64) (*entities.Order, error)
	restoreFn       func(ctx context.Context, orderID int64) (*entities.Order, error)
}

func (s orderServiceStub) GetByID(ctx context.Context, orderID int64) (*entities.Order, error) {
	return s.getFn(ctx, orderID)
}
func (s orderServiceStub) ListPending(ctx context.Context, limit int) ([]*entities.Order, error) {
	return s.listPendingFn(ctx, limit)
}
func (s orderServiceStub) ListActive(ctx context.Context, limit int) ([]*entities.Order, error) {
	return s.listActiveFn(ctx, limit)
}
func (s orderServiceStub) ListCompleted(ctx context.Context, limit int) ([]*entities.Order, error) {
	return s.listCompletedFn(ctx, limit)
}
func (s orderServiceStub) CompleteByAdmin(ctx context.Context, orderID int64) (*entities.Order, error) {
	return s.completeFn(ctx, orderID)
}
func (s orderServiceStub) Restore(ctx context.Context, orderID int64) (*entities.Order, error) {
	return s.restoreFn(ctx, orderID)
}

func sampleOrder(status entities.OrderStatus) *entities.Order {
	return &entities.Order{
		ID:     1,
		UserID: 100,
		Item:   "Wireless headphones",
		Price:  120,
		Status: status,
		DropID: null.NewInt64(200, status != entities.OrderStatusPending),
	}
}

func TestOrderHandler_ListOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("pending default", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			listPendingFn: func(_ context.Context, limit int) ([]*entities.Order, error) {
				require.Equal(t, 20, limit)
				return []*entities.Order{sampleOrder(entities.OrderStatusPending)}, nil
			},
		})
		r.GET("/orders", h.ListOrders)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), `"orders"`)
	})

	t.Run("active filter", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			listActiveFn: func(context.Context, int) ([]*entities.Order, error) {
				return []*entities.Order{sampleOrder(entities.OrderStatusTaken)}, nil
			},
		})
		r.GET("/orders", h.ListOrders)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?status=active", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("unknown status", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{})
		r.GET("/orders", h.ListOrders)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?status=bogus", nil))

		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid id", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{})
		r.GET("/orders/:id", h.GetOrder)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))

		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			getFn: func(context.Context, int64) (*entities.Order, error) {
				return nil, domainerrors.ErrNotFound
			},
		})
		r.GET("/orders/:id", h.GetOrder)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/5", nil))

		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			getFn: func(_ context.Context, orderID int64) (*entities.Order, error) {
				require.Equal(t, int64(5), orderID)
				return sampleOrder(entities.OrderStatusPending), nil
			},
		})
		r.GET("/orders/:id", h.GetOrder)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/5", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func TestOrderHandler_CompleteOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("already completed", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			completeFn: func(context.Context, int64) (*entities.Order, error) {
				return nil, domainerrors.ErrOrderUnavailable
			},
		})
		r.POST("/orders/:id/complete", h.CompleteOrder)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders/5/complete", nil))

		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			completeFn: func(context.Context, int64) (*entities.Order, error) {
				return sampleOrder(entities.OrderStatusCompleted), nil
			},
		})
		r.POST("/orders/:id/complete", h.CompleteOrder)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders/5/complete", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func TestOrderHandler_RestoreOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			restoreFn: func(context.Context, int64) (*entities.Order, error) {
				return nil, domainerrors.ErrNotFound
			},
		})
		r.POST("/orders/:id/restore", h.RestoreOrder)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders/9/restore", nil))

		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		r := gin.New()
		h := NewOrderHandler(orderServiceStub{
			restoreFn: func(context.Context, int64) (*entities.Order, error) {
				return sampleOrder(entities.OrderStatusPending), nil
			},
		})
		r.POST("/orders/:id/restore", h.RestoreOrder)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders/9/restore", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}
