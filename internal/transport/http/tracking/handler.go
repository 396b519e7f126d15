package tracking

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/rentcamp/internal/auth"
	"github.com/Additional-Code/rentcamp/internal/dto"
	"github.com/Additional-Code/rentcamp/internal/presentation/http/response"
	service "github.com/Additional-Code/rentcamp/internal/service/tracking"
	"github.com/Additional-Code/rentcamp/internal/thread"
	"github.com/Additional-Code/rentcamp/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/rentcamp/transport/http/tracking")

// Handler exposes the tracking page and the support thread.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a tracking Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes. Customers post on /orders, the admin side on /admin/orders.
func Register(e *echo.Echo, h *Handler, admin auth.AdminMiddleware) {
	g := e.Group("/orders/:id")
	g.GET("/tracking", h.track)
	g.GET("/messages", h.messages)
	g.POST("/messages", h.post(thread.SenderCustomer))

	a := e.Group("/admin/orders/:id", echo.MiddlewareFunc(admin))
	a.GET("/messages", h.messages)
	a.POST("/messages", h.post(thread.SenderAdmin))
}

func (h *Handler) track(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.track", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	view, err := h.svc.Track(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewTrackingResponse(view.Order, view.Timeline, view.Current)).Build()
}

func (h *Handler) messages(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.messages", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	msgs, err := h.svc.Messages(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewChatMessagesResponse(msgs)).WithMeta("count", len(msgs)).Build()
}

func (h *Handler) post(sender thread.Sender) echo.HandlerFunc {
	return func(c echo.Context) error {
		b := response.New(c)
		id := c.Param("id")

		var payload struct {
			Body string `json:"body"`
		}
		if err := c.Bind(&payload); err != nil {
			return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
		}

		ctx, span := httpTracer.Start(c.Request().Context(), "orders.postMessage", trace.WithAttributes(
			attribute.String("order.id", id),
			attribute.String("chat.sender", string(sender)),
		))
		defer span.End()

		msg, err := h.svc.Post(ctx, id, sender, payload.Body)
		if err != nil {
			return b.WithError(err).Build()
		}
		return b.WithStatus(http.StatusCreated).WithData(dto.NewChatMessageResponse(msg)).Build()
	}
}
