package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/rentcamp/internal/database"
	"github.com/Additional-Code/rentcamp/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

var wib = time.FixedZone("WIB", 7*60*60)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Run seeds orders first so the chat messages have an owner.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.Orders(ctx); err != nil {
		return err
	}
	return s.Messages(ctx)
}

// Orders seeds example orders if they are missing.
func (s *Seeder) Orders(ctx context.Context) error {
	samples := SampleOrders()
	for i := range samples {
		_, err := s.db.NewInsert().Model(&samples[i]).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}

// Messages seeds the example support thread if it is missing.
func (s *Seeder) Messages(ctx context.Context) error {
	samples := SampleMessages()
	for i := range samples {
		_, err := s.db.NewInsert().Model(&samples[i]).
			On("CONFLICT (order_id, seq) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded chat messages", zap.Int("count", len(samples)))
	}
	return nil
}

// SampleOrders returns the demo orders.
func SampleOrders() []entity.Order {
	now := time.Now().UTC()
	return []entity.Order{
		{
			ID:              "RC-20240115-ABC123DEF",
			Status:          "shipped",
			PackageName:     "Paket Couple Camp",
			CustomerName:    "Budi Santoso",
			Address:         "Jl. Merdeka No. 45, Bandung, Jawa Barat 40123",
			TotalPrice:      750000,
			OrderDate:       date(2024, time.January, 15),
			RentalStartDate: date(2024, time.January, 18),
			RentalEndDate:   date(2024, time.January, 21),
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "RC-20240110-XYZ789ABC",
			Status:          "in_use",
			PackageName:     "Tenda + Sleeping Bag",
			CustomerName:    "Siti Nurhaliza",
			Address:         "Jl. Sudirman No. 12, Jakarta, DKI Jakarta 12345",
			TotalPrice:      450000,
			OrderDate:       date(2024, time.January, 10),
			RentalStartDate: date(2024, time.January, 12),
			RentalEndDate:   date(2024, time.January, 20),
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
}

// SampleMessages returns the demo support thread of the shipped order.
func SampleMessages() []entity.ChatMessage {
	const orderID = "RC-20240115-ABC123DEF"
	at := func(hour, minute int) time.Time {
		return time.Date(2024, time.January, 15, hour, minute, 0, 0, wib).UTC()
	}
	return []entity.ChatMessage{
		{OrderID: orderID, Seq: 1, Sender: "admin", Body: "Pembayaran Anda telah terverifikasi ✓", SentAt: at(10, 30)},
		{OrderID: orderID, Seq: 2, Sender: "customer", Body: "Terima kasih! Kapan barangnya dikirim?", SentAt: at(10, 35)},
		{OrderID: orderID, Seq: 3, Sender: "admin", Body: "Barang akan dikirim besok pagi. Estimasi tiba 2-3 hari kerja.", SentAt: at(10, 40)},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, wib).UTC()
}
