package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

var _ repository.GoodsInTransitRepository = (*GoodsInTransitRepo)(nil)

// GoodsInTransitRepo implementación sobre PostgreSQL (1:1 con transfers).
type GoodsInTransitRepo struct {
	q Querier
}

// NewGoodsInTransitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsInTransitRepository(q Querier) *GoodsInTransitRepo {
	return &GoodsInTransitRepo{q: q}
}

const transitCols = `transfer_id, current_location, transit_status, latitude, longitude, temperature, notes, updated_by, updated_at`

// Create persiste el registro de tránsito al despachar.
func (r *GoodsInTransitRepo) Create(ctx context.Context, transit *entity.GoodsInTransit) error {
	query := `
		INSERT INTO goods_in_transit (` + transitCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		transit.TransferID, transit.CurrentLocation, transit.TransitStatus,
		transit.Latitude, transit.Longitude, transit.Temperature,
		transit.Notes, transit.UpdatedBy, transit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create goods in transit: %w", err)
	}
	return nil
}

// GetByTransferID obtiene el registro de tránsito de un traspaso; nil si no existe.
func (r *GoodsInTransitRepo) GetByTransferID(ctx context.Context, transferID string) (*entity.GoodsInTransit, error) {
	query := `SELECT ` + transitCols + ` FROM goods_in_transit WHERE transfer_id = $1`
	var g entity.GoodsInTransit
	err := r.q.QueryRow(ctx, query, transferID).Scan(
		&g.TransferID, &g.CurrentLocation, &g.TransitStatus,
		&g.Latitude, &g.Longitude, &g.Temperature,
		&g.Notes, &g.UpdatedBy, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods in transit: %w", err)
	}
	return &g, nil
}

// Update actualiza la posición y estado de tránsito.
func (r *GoodsInTransitRepo) Update(ctx context.Context, transit *entity.GoodsInTransit) error {
	query := `
		UPDATE goods_in_transit SET
			current_location = $2, transit_status = $3, latitude = $4, longitude = $5,
			temperature = $6, notes = $7, updated_by = $8, updated_at = $9
		WHERE transfer_id = $1`
	_, err := r.q.Exec(ctx, query,
		transit.TransferID, transit.CurrentLocation, transit.TransitStatus,
		transit.Latitude, transit.Longitude, transit.Temperature,
		transit.Notes, transit.UpdatedBy, transit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update goods in transit: %w", err)
	}
	return nil
}
