package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/auth"
	"github.com/Additional-Code/rentcamp/internal/config"
	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/messaging"
	service "github.com/Additional-Code/rentcamp/internal/service/order"
	"github.com/Additional-Code/rentcamp/internal/service/order/mocks"
)

type allowAll struct{}

func (allowAll) Verify(_ context.Context, token string) (auth.Principal, error) {
	if token == "" {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return auth.Principal{Subject: "ops", Admin: true}, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, []byte, []byte, map[string]string) error { return nil }
func (noopPublisher) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}
func (noopPublisher) Topic() string { return "test" }

func setup(t *testing.T) (*echo.Echo, *mocks.MockRepository) {
	t.Helper()
	repository := mocks.NewMockRepository(gomock.NewController(t))
	svc := service.NewService(service.Params{
		Repository: repository,
		Config:     config.Config{},
		Logger:     zap.NewNop(),
		Publisher:  noopPublisher{},
	})

	e := echo.New()
	Register(e, NewHandler(svc), auth.NewAdminMiddleware(allowAll{}))
	return e, repository
}

func serve(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetByID(t *testing.T) {
	e, repository := setup(t)
	repository.EXPECT().GetByID(gomock.Any(), "RC-20240110-XYZ789ABC").Return(&entity.Order{
		ID:          "RC-20240110-XYZ789ABC",
		Status:      "in_use",
		PackageName: "Tenda + Sleeping Bag",
		TotalPrice:  450000,
	}, nil)

	rec := serve(e, http.MethodGet, "/orders/RC-20240110-XYZ789ABC", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Status            string `json:"status"`
			CurrentStep       int    `json:"current_step"`
			TotalPriceDisplay string `json:"total_price_display"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "in_use", body.Data.Status)
	assert.Equal(t, 5, body.Data.CurrentStep)
	assert.Equal(t, "Rp 450.000", body.Data.TotalPriceDisplay)
}

func TestCreate(t *testing.T) {
	e, repository := setup(t)
	repository.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	rec := serve(e, http.MethodPost, "/orders", `{
		"package_name": "Paket Couple Camp",
		"customer_name": "Budi Santoso",
		"address": "Jl. Merdeka No. 123, Jakarta",
		"total_price": 750000,
		"rental_start_date": "2024-01-18",
		"rental_end_date": "2024-01-21"
	}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"payment_pending"`)
}

func TestCreate_BadDate(t *testing.T) {
	e, _ := setup(t)

	rec := serve(e, http.MethodPost, "/orders", `{"rental_start_date":"18/01/2024","rental_end_date":"2024-01-21"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	e, repository := setup(t)
	repository.EXPECT().GetByID(gomock.Any(), "RC-1").Return(&entity.Order{ID: "RC-1", Status: "shipped"}, nil)
	repository.EXPECT().UpdateStatus(gomock.Any(), "RC-1", "shipped", "received", gomock.AssignableToTypeOf(time.Time{})).Return(nil)

	rec := serve(e, http.MethodPatch, "/admin/orders/RC-1/status", `{"status":"received"}`, "token")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"changed_by":"ops"`)
}

func TestUpdateStatus_Unauthorized(t *testing.T) {
	e, _ := setup(t)

	rec := serve(e, http.MethodPatch, "/admin/orders/RC-1/status", `{"status":"received"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateStatus_Backwards(t *testing.T) {
	e, repository := setup(t)
	repository.EXPECT().GetByID(gomock.Any(), "RC-1").Return(&entity.Order{ID: "RC-1", Status: "returned"}, nil)

	rec := serve(e, http.MethodPatch, "/admin/orders/RC-1/status", `{"status":"shipped"}`, "token")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_transition"`)
}
