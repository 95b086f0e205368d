package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta. Cada método alimenta el acumulador de caja
// que le corresponde al registrar el cobro contra el corte abierto.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// ValidPaymentMethod valida el método de pago recibido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// CashMovementTypeForPayment mapea el método de pago al tipo de movimiento
// de caja; cadena vacía si el método no es válido.
func CashMovementTypeForPayment(m string) string {
	switch m {
	case PaymentMethodCash:
		return CashMovementSaleCash
	case PaymentMethodCard:
		return CashMovementSaleCard
	case PaymentMethodTransfer:
		return CashMovementSaleTransfer
	}
	return ""
}

// Estados de la venta. La venta nace completada (el cobro y la salida de
// existencias ocurren en su misma transacción); cancelled es terminal.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// SaleDetail es una línea de la venta (embebida en Sale). Código y nombre se
// desnormalizan al momento de vender: el ticket no cambia si el catálogo
// cambia después.
type SaleDetail struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"` // cantidad * precio unitario
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"` // subtotal - descuento
}

// Sale representa una venta de mostrador en una bodega: descuenta
// existencias y registra su cobro en el corte de caja abierto.
type Sale struct {
	ID               string
	SaleNumber       string // único, generado (VTA-XXXXXXXX)
	WarehouseID      string
	CustomerName     string // opcional, venta de mostrador sin padrón de clientes
	UserID           string
	PaymentMethod    string
	Details          []SaleDetail
	Subtotal         decimal.Decimal // suma de subtotales de línea
	Discount         decimal.Decimal // descuento global, además de los de línea
	Total            decimal.Decimal
	AmountReceived   *decimal.Decimal // solo efectivo
	Change           *decimal.Decimal // recibido - total
	Status           string
	SaleDate         time.Time
	PaymentReference string // folio del voucher o transferencia
	Notes            string
	CancelledBy      string
	CancelledAt      *time.Time
}
