package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.SequenceGenerator = (*SequenceGenerator)(nil)

// SequenceGenerator genera folios de negocio con secuencias de PostgreSQL:
// monotónicos y únicos aun con emisores concurrentes.
type SequenceGenerator struct {
	q Querier
}

// NewSequenceGenerator construye el generador. Pasar pool o tx (Querier).
func NewSequenceGenerator(q Querier) *SequenceGenerator {
	return &SequenceGenerator{q: q}
}

// NextTransferNumber devuelve el siguiente folio de traspaso (TRF-XXXXXXXX).
func (g *SequenceGenerator) NextTransferNumber(ctx context.Context) (string, error) {
	return g.next(ctx, "transfer_number_seq", "TRF-%08d")
}

// NextSaleNumber devuelve el siguiente folio de venta (VTA-XXXXXXXX).
func (g *SequenceGenerator) NextSaleNumber(ctx context.Context) (string, error) {
	return g.next(ctx, "sale_number_seq", "VTA-%08d")
}

// NextIncidentNumber devuelve el siguiente folio de incidencia (INC-XXXXXXXX).
func (g *SequenceGenerator) NextIncidentNumber(ctx context.Context) (string, error) {
	return g.next(ctx, "incident_number_seq", "INC-%08d")
}

func (g *SequenceGenerator) next(ctx context.Context, seq, format string) (string, error) {
	var n int64
	if err := g.q.QueryRow(ctx, `SELECT nextval('`+seq+`')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next %s: %w", seq, err)
	}
	return fmt.Sprintf(format, n), nil
}
