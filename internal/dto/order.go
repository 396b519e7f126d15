package dto

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Additional-Code/rentcamp/internal/entity"
	"github.com/Additional-Code/rentcamp/internal/lifecycle"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount with Indonesian digit grouping, e.g. "Rp 750.000".
func FormatRupiah(amount int64) string {
	return rupiahPrinter.Sprintf("Rp %d", amount)
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"`
	CurrentStep       int       `json:"current_step"`
	PackageName       string    `json:"package_name"`
	CustomerName      string    `json:"customer_name"`
	Address           string    `json:"address"`
	TotalPrice        int64     `json:"total_price"`
	TotalPriceDisplay string    `json:"total_price_display"`
	OrderDate         time.Time `json:"order_date"`
	RentalStartDate   time.Time `json:"rental_start_date"`
	RentalEndDate     time.Time `json:"rental_end_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewOrderResponse maps an order entity. CurrentStep is -1 for an unrecognised status.
func NewOrderResponse(o *entity.Order) OrderResponse {
	step, ok := lifecycle.Status(o.Status).Index()
	if !ok {
		step = -1
	}
	return OrderResponse{
		ID:                o.ID,
		Status:            o.Status,
		CurrentStep:       step,
		PackageName:       o.PackageName,
		CustomerName:      o.CustomerName,
		Address:           o.Address,
		TotalPrice:        o.TotalPrice,
		TotalPriceDisplay: FormatRupiah(o.TotalPrice),
		OrderDate:         o.OrderDate,
		RentalStartDate:   o.RentalStartDate,
		RentalEndDate:     o.RentalEndDate,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
