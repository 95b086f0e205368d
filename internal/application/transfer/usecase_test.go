package transfer_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/application/transfer"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	sourceWarehouseID = "aaaaaaaa-0000-0000-0000-000000000001"
	destWarehouseID   = "aaaaaaaa-0000-0000-0000-000000000002"
	productAID        = "bbbbbbbb-0000-0000-0000-000000000001"
	productBID        = "bbbbbbbb-0000-0000-0000-000000000002"
	actorID           = "cccccccc-0000-0000-0000-000000000001"
)

type stockKey struct {
	warehouseID string
	productID   string
}

// txState es el estado compartido por todos los repos fake. El TxRunner lo
// clona al entrar y lo restaura ante error, imitando el rollback: o todas
// las líneas del despacho se aplican, o ninguna.
type txState struct {
	records   map[stockKey]*entity.InventoryRecord
	movements []*entity.StockMovement
	transfers map[string]*entity.Transfer
	transits  map[string]*entity.GoodsInTransit
}

func newTxState() *txState {
	return &txState{
		records:   make(map[stockKey]*entity.InventoryRecord),
		transfers: make(map[string]*entity.Transfer),
		transits:  make(map[string]*entity.GoodsInTransit),
	}
}

func cloneTransfer(tr *entity.Transfer) *entity.Transfer {
	c := *tr
	c.Details = append([]entity.TransferDetail(nil), tr.Details...)
	return &c
}

func (s *txState) clone() *txState {
	c := newTxState()
	for k, v := range s.records {
		rec := *v
		c.records[k] = &rec
	}
	c.movements = append([]*entity.StockMovement(nil), s.movements...)
	for k, v := range s.transfers {
		c.transfers[k] = cloneTransfer(v)
	}
	for k, v := range s.transits {
		tr := *v
		c.transits[k] = &tr
	}
	return c
}

type memRecordRepo struct{ state *txState }

func (r *memRecordRepo) Get(_ context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.state.records[stockKey{warehouseID, productID}]; ok {
		c := *rec
		return &c, nil
	}
	return &entity.InventoryRecord{WarehouseID: warehouseID, ProductID: productID}, nil
}

func (r *memRecordRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, warehouseID, productID)
}

func (r *memRecordRepo) Upsert(_ context.Context, record *entity.InventoryRecord) error {
	c := *record
	r.state.records[stockKey{record.WarehouseID, record.ProductID}] = &c
	return nil
}

func (r *memRecordRepo) ListByWarehouse(_ context.Context, _ string, _, _ int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

func (r *memRecordRepo) ListBelowMinimum(_ context.Context, _ string) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

type memMovementRepo struct{ state *txState }

func (r *memMovementRepo) Append(_ context.Context, movement *entity.StockMovement) error {
	c := *movement
	r.state.movements = append(r.state.movements, &c)
	return nil
}

func (r *memMovementRepo) ListByWarehouse(_ context.Context, _ string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, _ string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *memMovementRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.state.movements {
		if m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memTransferRepo struct{ state *txState }

func (r *memTransferRepo) Create(_ context.Context, tr *entity.Transfer) error {
	r.state.transfers[tr.ID] = cloneTransfer(tr)
	return nil
}

func (r *memTransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	if tr, ok := r.state.transfers[id]; ok {
		return cloneTransfer(tr), nil
	}
	return nil, nil
}

func (r *memTransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *memTransferRepo) Update(_ context.Context, tr *entity.Transfer) error {
	r.state.transfers[tr.ID] = cloneTransfer(tr)
	return nil
}

func (r *memTransferRepo) List(_ context.Context, _, _ string, _, _ int) ([]*entity.Transfer, error) {
	return nil, nil
}

type memTransitRepo struct{ state *txState }

func (r *memTransitRepo) Create(_ context.Context, transit *entity.GoodsInTransit) error {
	c := *transit
	r.state.transits[transit.TransferID] = &c
	return nil
}

func (r *memTransitRepo) GetByTransferID(_ context.Context, transferID string) (*entity.GoodsInTransit, error) {
	if tr, ok := r.state.transits[transferID]; ok {
		c := *tr
		return &c, nil
	}
	return nil, nil
}

func (r *memTransitRepo) Update(_ context.Context, transit *entity.GoodsInTransit) error {
	c := *transit
	r.state.transits[transit.TransferID] = &c
	return nil
}

type memWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *memWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}
func (r *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *memWarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}
func (r *memWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type memProductRepo struct{ products map[string]*entity.Product }

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}
func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *memProductRepo) GetByCode(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}
func (r *memProductRepo) List(_ context.Context, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

// memSeq genera folios consecutivos en memoria.
type memSeq struct{ n int }

func (s *memSeq) NextTransferNumber(_ context.Context) (string, error) {
	s.n++
	return fmt.Sprintf("TRF-%08d", s.n), nil
}

func (s *memSeq) NextSaleNumber(_ context.Context) (string, error) {
	s.n++
	return fmt.Sprintf("VTA-%08d", s.n), nil
}

func (s *memSeq) NextIncidentNumber(_ context.Context) (string, error) {
	s.n++
	return fmt.Sprintf("INC-%08d", s.n), nil
}

// memTxRunner implementa los TxRunner de inventario y traspasos sobre el
// mismo estado, con snapshot-restore como rollback.
type memTxRunner struct {
	mu    sync.Mutex
	state *txState
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	if err := fn(&memRecordRepo{state: r.state}, &memMovementRepo{state: r.state}); err != nil {
		*r.state = *snapshot
		return err
	}
	return nil
}

func (r *memTxRunner) RunTransfer(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	transferRepo repository.TransferRepository,
	transitRepo repository.GoodsInTransitRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	err := fn(
		&memRecordRepo{state: r.state},
		&memMovementRepo{state: r.state},
		&memTransferRepo{state: r.state},
		&memTransitRepo{state: r.state},
	)
	if err != nil {
		*r.state = *snapshot
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type transferFixture struct {
	uc    *transfer.UseCase
	state *txState
}

// newTransferFixture arma dos bodegas activas, dos productos y existencias
// en origen: producto A = 100, producto B = 50.
func newTransferFixture(t *testing.T, cfg transfer.Config) *transferFixture {
	t.Helper()
	state := newTxState()
	state.records[stockKey{sourceWarehouseID, productAID}] = &entity.InventoryRecord{
		WarehouseID:      sourceWarehouseID,
		ProductID:        productAID,
		PhysicalQuantity: dec(t, "100"),
	}
	state.records[stockKey{sourceWarehouseID, productBID}] = &entity.InventoryRecord{
		WarehouseID:      sourceWarehouseID,
		ProductID:        productBID,
		PhysicalQuantity: dec(t, "50"),
	}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		sourceWarehouseID: {ID: sourceWarehouseID, Code: "ALM-0001", Name: "Bodega Central", Status: "active"},
		destWarehouseID:   {ID: destWarehouseID, Code: "ALM-0002", Name: "Sucursal Norte", Status: "active"},
	}}
	products := &memProductRepo{products: map[string]*entity.Product{
		productAID: {ID: productAID, Code: "PRD-A", Name: "Producto A", Status: "active"},
		productBID: {ID: productBID, Code: "PRD-B", Name: "Producto B", Status: "active"},
	}}
	runner := &memTxRunner{state: state}
	recordRepo := &memRecordRepo{state: state}
	stockUC := inventory.NewStockUseCase(runner, recordRepo, &memMovementRepo{state: state}, warehouses, products)
	uc := transfer.NewUseCase(
		runner, stockUC,
		&memTransferRepo{state: state},
		&memTransitRepo{state: state},
		recordRepo,
		warehouses, products,
		&memSeq{},
		cfg,
	)
	return &transferFixture{uc: uc, state: state}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func (f *transferFixture) sourceRecord(t *testing.T, productID string) *entity.InventoryRecord {
	t.Helper()
	rec, ok := f.state.records[stockKey{sourceWarehouseID, productID}]
	require.True(t, ok)
	return rec
}

func (f *transferFixture) create(t *testing.T, details ...transfer.CreateDetailInput) *entity.Transfer {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), transfer.CreateInput{
		SourceWarehouseID:      sourceWarehouseID,
		DestinationWarehouseID: destWarehouseID,
		Reason:                 "reposición sucursal",
		Details:                details,
		UserID:                 actorID,
	})
	require.NoError(t, err)
	return tr
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_Tabla(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{entity.TransferStatusRequested, entity.TransferStatusApproved, true},
		{entity.TransferStatusRequested, entity.TransferStatusRejected, true},
		{entity.TransferStatusRequested, entity.TransferStatusCancelled, true},
		{entity.TransferStatusRequested, entity.TransferStatusDispatched, false},
		{entity.TransferStatusApproved, entity.TransferStatusDispatched, true},
		{entity.TransferStatusApproved, entity.TransferStatusCancelled, true},
		{entity.TransferStatusApproved, entity.TransferStatusReceived, false},
		{entity.TransferStatusDispatched, entity.TransferStatusReceived, true},
		{entity.TransferStatusDispatched, entity.TransferStatusCancelled, false},
		{entity.TransferStatusReceived, entity.TransferStatusCompleted, true},
		{entity.TransferStatusCompleted, entity.TransferStatusCancelled, false},
		{entity.TransferStatusRejected, entity.TransferStatusApproved, false},
		{entity.TransferStatusCancelled, entity.TransferStatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, entity.CanTransition(tc.from, tc.to),
			"transición %s -> %s", tc.from, tc.to)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_QuedaEnRequested(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})

	assert.Equal(t, "TRF-00000001", tr.TransferNumber)
	assert.Equal(t, entity.TransferStatusRequested, tr.Status)
	assert.Equal(t, entity.TransferPriorityNormal, tr.Priority, "sin prioridad explícita se usa normal")
	require.Len(t, tr.Details, 1)
	assert.Equal(t, "PRD-A", tr.Details[0].ProductCode, "el detalle desnormaliza código y nombre")
	assert.Equal(t, "Producto A", tr.Details[0].ProductName)

	// La solicitud no reserva ni mueve existencias.
	rec := f.sourceRecord(t, productAID)
	assert.True(t, rec.PhysicalQuantity.Equal(dec(t, "100")))
	assert.True(t, rec.ReservedQuantity.IsZero())
	assert.Empty(t, f.state.movements)
}

func TestCreate_MismaBodegaInvalida(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})

	_, err := f.uc.Create(context.Background(), transfer.CreateInput{
		SourceWarehouseID:      sourceWarehouseID,
		DestinationWarehouseID: sourceWarehouseID,
		Details:                []transfer.CreateDetailInput{{ProductID: productAID, RequestedQuantity: dec(t, "1")}},
		UserID:                 actorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SinDisponibleFalla(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})

	_, err := f.uc.Create(context.Background(), transfer.CreateInput{
		SourceWarehouseID:      sourceWarehouseID,
		DestinationWarehouseID: destWarehouseID,
		Details:                []transfer.CreateDetailInput{{ProductID: productAID, RequestedQuantity: dec(t, "200")}},
		UserID:                 actorID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

// Ciclo de vida entero con discrepancia en la recepción: el faltante se
// registra con observación y el flujo continúa hasta completed.
func TestFlujoCompleto_ConDiscrepancia(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})

	// requested -> approved
	tr, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, tr.Status)
	require.NotNil(t, tr.ApprovalDate)

	// approved -> dispatched: salida consumada en origen
	tr, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{TrackingNumber: "GUIA-001"})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDispatched, tr.Status)
	require.NotNil(t, tr.Details[0].SentQuantity)
	assert.True(t, tr.Details[0].SentQuantity.Equal(dec(t, "30")), "sin override se envía lo solicitado")

	src := f.sourceRecord(t, productAID)
	assert.True(t, src.PhysicalQuantity.Equal(dec(t, "70")), "el despacho descuenta el físico en origen")
	assert.True(t, src.ReservedQuantity.IsZero(), "la reserva del despacho se consuma en la misma tx")

	require.Len(t, f.state.movements, 2, "despacho = reserva + salida por traspaso")
	assert.Equal(t, entity.MovementTypeReserve, f.state.movements[0].Type)
	assert.Equal(t, entity.MovementTypeTransferOut, f.state.movements[1].Type)

	transit, err := f.uc.GetTransit(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransitStatusInPreparation, transit.TransitStatus)

	// dispatched -> received: llegan 28 de 30, con observación obligatoria
	tr, err = f.uc.Receive(ctx, tr.ID, actorID, transfer.ReceiveInput{
		Lines: []transfer.ReceiveLineInput{{
			ProductID:        productAID,
			ReceivedQuantity: dec(t, "28"),
			Observation:      "dos piezas dañadas en tránsito",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, tr.Status)
	require.NotNil(t, tr.Details[0].Discrepancy)
	assert.True(t, tr.Details[0].Discrepancy.Equal(dec(t, "2")), "discrepancia = enviado - recibido")
	assert.Equal(t, "dos piezas dañadas en tránsito", tr.Details[0].DiscrepancyObservation)

	dst, ok := f.state.records[stockKey{destWarehouseID, productAID}]
	require.True(t, ok, "la recepción crea el registro en destino")
	assert.True(t, dst.PhysicalQuantity.Equal(dec(t, "28")), "al destino entra lo recibido, no lo enviado")

	require.Len(t, f.state.movements, 3)
	assert.Equal(t, entity.MovementTypeTransferIn, f.state.movements[2].Type)

	transit, err = f.uc.GetTransit(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransitStatusDelivered, transit.TransitStatus)

	// received -> completed
	tr, err = f.uc.Complete(ctx, tr.ID, actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	assert.NotNil(t, tr.CompletedDate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dispatch
// ──────────────────────────────────────────────────────────────────────────────

// Despacho multi-línea donde la segunda línea no alcanza: ninguna línea debe
// aplicarse y el traspaso permanece en approved.
func TestDispatch_LineaInsuficienteRevierteTodo(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t,
		transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "80")},
		transfer.CreateDetailInput{ProductID: productBID, RequestedQuantity: dec(t, "40")},
	)
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)

	// Una venta entre aprobación y despacho deja B sin suficiente físico.
	f.state.records[stockKey{sourceWarehouseID, productBID}].PhysicalQuantity = dec(t, "30")

	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	recA := f.sourceRecord(t, productAID)
	assert.True(t, recA.PhysicalQuantity.Equal(dec(t, "100")), "la línea A ya aplicada debe revertirse")
	assert.True(t, recA.ReservedQuantity.IsZero())
	assert.Empty(t, f.state.movements, "un despacho fallido no deja movimientos")

	stored := f.state.transfers[tr.ID]
	assert.Equal(t, entity.TransferStatusApproved, stored.Status, "el traspaso permanece en approved")
	_, ok := f.state.transits[tr.ID]
	assert.False(t, ok, "sin despacho no hay registro de tránsito")
}

func TestDispatch_ParcialDeshabilitado(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{AllowPartialDispatch: false})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{
		Lines: []transfer.DispatchLineInput{{ProductID: productAID, SentQuantity: dec(t, "20")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDispatch_ParcialPermitido(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{AllowPartialDispatch: true})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)

	tr, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{
		Lines: []transfer.DispatchLineInput{{ProductID: productAID, SentQuantity: dec(t, "20")}},
	})
	require.NoError(t, err)
	require.NotNil(t, tr.Details[0].SentQuantity)
	assert.True(t, tr.Details[0].SentQuantity.Equal(dec(t, "20")))

	rec := f.sourceRecord(t, productAID)
	assert.True(t, rec.PhysicalQuantity.Equal(dec(t, "80")), "solo viaja lo enviado; el faltante queda en origen")
}

func TestDispatch_EnviadoMayorAlSolicitado(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{AllowPartialDispatch: true})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{
		Lines: []transfer.DispatchLineInput{{ProductID: productAID, SentQuantity: dec(t, "31")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Una línea de despacho cuyo producto no es parte del traspaso delata un
// error del cliente: debe rechazarse, no ignorarse.
func TestDispatch_LineaDesconocidaInvalida(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)

	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{
		Lines: []transfer.DispatchLineInput{{ProductID: productBID, SentQuantity: dec(t, "10")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	rec := f.sourceRecord(t, productAID)
	assert.True(t, rec.PhysicalQuantity.Equal(dec(t, "100")), "el despacho rechazado no mueve existencias")
	stored := f.state.transfers[tr.ID]
	assert.Equal(t, entity.TransferStatusApproved, stored.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_DiscrepanciaSinObservacionFalla(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{})
	require.NoError(t, err)

	_, err = f.uc.Receive(ctx, tr.ID, actorID, transfer.ReceiveInput{
		Lines: []transfer.ReceiveLineInput{{ProductID: productAID, ReceivedQuantity: dec(t, "28")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput,
		"una discrepancia distinta de cero exige observación")

	stored := f.state.transfers[tr.ID]
	assert.Equal(t, entity.TransferStatusDispatched, stored.Status, "la recepción fallida no avanza el estado")
	_, ok := f.state.records[stockKey{destWarehouseID, productAID}]
	assert.False(t, ok, "nada entra al destino si la recepción se revierte")
}

func TestReceive_LineaDesconocidaInvalida(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "30")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{})
	require.NoError(t, err)

	_, err = f.uc.Receive(ctx, tr.ID, actorID, transfer.ReceiveInput{
		Lines: []transfer.ReceiveLineInput{{ProductID: productBID, ReceivedQuantity: dec(t, "10")}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput,
		"una línea de recepción con producto ajeno al traspaso se rechaza")

	stored := f.state.transfers[tr.ID]
	assert.Equal(t, entity.TransferStatusDispatched, stored.Status)
	_, ok := f.state.records[stockKey{destWarehouseID, productAID}]
	assert.False(t, ok, "la recepción rechazada no entra nada al destino")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_DespuesDeDespachoInvalido(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "10")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{})
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, tr.ID, actorID, "ya no se necesita")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"mercancía ya despachada solo puede recibirse, no cancelarse")
}

func TestCancel_DesdeApprovedNoRetieneExistencias(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "10")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)

	tr, err = f.uc.Cancel(ctx, tr.ID, actorID, "cambio de plan")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, tr.Status)

	rec := f.sourceRecord(t, productAID)
	assert.True(t, rec.ReservedQuantity.IsZero(), "cancelar antes del despacho no deja reservas")
}

func TestReject_EsTerminal(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "10")})
	tr, err := f.uc.Reject(ctx, tr.ID, actorID, "sin transporte disponible")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusRejected, tr.Status)

	_, err = f.uc.Approve(ctx, tr.ID, actorID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tránsito
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateTransit_ActualizaMetadatos(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})
	ctx := context.Background()

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "10")})
	_, err := f.uc.Approve(ctx, tr.ID, actorID, "")
	require.NoError(t, err)
	_, err = f.uc.Dispatch(ctx, tr.ID, actorID, transfer.DispatchInput{})
	require.NoError(t, err)

	lat, lng := 19.4326, -99.1332
	transit, err := f.uc.UpdateTransit(ctx, tr.ID, actorID, transfer.TransitUpdateInput{
		TransitStatus:   entity.TransitStatusInRoute,
		CurrentLocation: "carretera federal 57, km 120",
		Latitude:        &lat,
		Longitude:       &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransitStatusInRoute, transit.TransitStatus)
	assert.Equal(t, "carretera federal 57, km 120", transit.CurrentLocation)

	// La actualización de tránsito no toca el estado del traspaso.
	stored := f.state.transfers[tr.ID]
	assert.Equal(t, entity.TransferStatusDispatched, stored.Status)
}

func TestUpdateTransit_EstadoInvalido(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})

	_, err := f.uc.UpdateTransit(context.Background(), "cualquiera", actorID, transfer.TransitUpdateInput{
		TransitStatus: "volando",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetTransit_SinDespachoNotFound(t *testing.T) {
	f := newTransferFixture(t, transfer.Config{})

	tr := f.create(t, transfer.CreateDetailInput{ProductID: productAID, RequestedQuantity: dec(t, "10")})
	_, err := f.uc.GetTransit(context.Background(), tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
