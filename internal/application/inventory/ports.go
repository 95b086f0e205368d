package inventory

import (
	"context"

	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// existencias: la lectura con candado y la escritura del registro son
// indivisibles frente a llamadas concurrentes sobre la misma clave.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
