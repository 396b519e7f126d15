package order

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/rentcamp/internal/auth"
	"github.com/Additional-Code/rentcamp/internal/dto"
	"github.com/Additional-Code/rentcamp/internal/presentation/http/response"
	service "github.com/Additional-Code/rentcamp/internal/service/order"
	"github.com/Additional-Code/rentcamp/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/rentcamp/transport/http/order")

const dateLayout = "2006-01-02"

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance. Status changes require an admin token.
func Register(e *echo.Echo, h *Handler, admin auth.AdminMiddleware) {
	g := e.Group("/orders")
	g.GET("/:id", h.getByID)
	g.POST("", h.create)

	a := e.Group("/admin/orders", echo.MiddlewareFunc(admin))
	a.PATCH("/:id/status", h.updateStatus)
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return b.WithError(errorbank.BadRequest("order id is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.NewOrderResponse(order)).Build()
}

type createPayload struct {
	PackageName     string `json:"package_name"`
	CustomerName    string `json:"customer_name"`
	Address         string `json:"address"`
	TotalPrice      int64  `json:"total_price"`
	RentalStartDate string `json:"rental_start_date"`
	RentalEndDate   string `json:"rental_end_date"`
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload createPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	start, err := time.Parse(dateLayout, payload.RentalStartDate)
	if err != nil {
		return b.WithError(errorbank.BadRequest("rental_start_date must be YYYY-MM-DD", errorbank.WithCause(err))).Build()
	}
	end, err := time.Parse(dateLayout, payload.RentalEndDate)
	if err != nil {
		return b.WithError(errorbank.BadRequest("rental_end_date must be YYYY-MM-DD", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	defer span.End()

	order, err := h.svc.Place(ctx, service.PlaceInput{
		PackageName:     payload.PackageName,
		CustomerName:    payload.CustomerName,
		Address:         payload.Address,
		TotalPrice:      payload.TotalPrice,
		RentalStartDate: start,
		RentalEndDate:   end,
	})
	if err != nil {
		return b.WithError(err).Build()
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	return b.WithStatus(http.StatusCreated).WithData(dto.NewOrderResponse(order)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status.to", payload.Status),
	))
	defer span.End()

	order, err := h.svc.UpdateStatus(ctx, id, payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}

	if p, ok := auth.PrincipalFrom(c); ok {
		b.WithMeta("changed_by", p.Subject)
	}
	return b.WithData(dto.NewOrderResponse(order)).Build()
}
