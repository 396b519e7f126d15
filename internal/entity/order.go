package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order is a single rental transaction as stored in the relational database.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID              string    `bun:"id,pk" json:"id"`
	Status          string    `bun:"status,notnull" json:"status"`
	PackageName     string    `bun:"package_name,notnull" json:"package_name"`
	CustomerName    string    `bun:"customer_name,notnull" json:"customer_name"`
	Address         string    `bun:"address,notnull" json:"address"`
	TotalPrice      int64     `bun:"total_price,notnull" json:"total_price"`
	OrderDate       time.Time `bun:"order_date,notnull" json:"order_date"`
	RentalStartDate time.Time `bun:"rental_start_date,notnull" json:"rental_start_date"`
	RentalEndDate   time.Time `bun:"rental_end_date,notnull" json:"rental_end_date"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}
