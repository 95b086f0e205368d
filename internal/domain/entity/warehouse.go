package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario
// y opera una caja (multi-bodega).
type Warehouse struct {
	ID        string
	Code      string // ALM-XXXX, único
	Name      string
	Address   string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
