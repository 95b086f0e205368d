package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo maestro.
type Product struct {
	ID          string
	Code        string // único
	Name        string
	Description string
	Unit        string // pieza, caja, kg
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
