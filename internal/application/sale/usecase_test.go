package sale_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/finance"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/application/sale"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	warehouseID = "aaaaaaaa-0000-0000-0000-000000000001"
	productAID  = "bbbbbbbb-0000-0000-0000-000000000001"
	productBID  = "bbbbbbbb-0000-0000-0000-000000000002"
	actorID     = "cccccccc-0000-0000-0000-000000000001"
)

type stockKey struct {
	warehouseID string
	productID   string
}

// saleState es el estado compartido por los repos fake. El TxRunner lo clona
// al entrar y lo restaura ante error, imitando el rollback: existencias,
// venta y cobro se aplican juntos o no se aplica nada.
type saleState struct {
	records   map[stockKey]*entity.InventoryRecord
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	cuts      map[string]*entity.CashCut
	cashMoves []*entity.CashMovement
}

func newSaleState() *saleState {
	return &saleState{
		records: make(map[stockKey]*entity.InventoryRecord),
		sales:   make(map[string]*entity.Sale),
		cuts:    make(map[string]*entity.CashCut),
	}
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Details = append([]entity.SaleDetail(nil), s.Details...)
	return &c
}

func (s *saleState) clone() *saleState {
	c := newSaleState()
	for k, v := range s.records {
		rec := *v
		c.records[k] = &rec
	}
	c.movements = append([]*entity.StockMovement(nil), s.movements...)
	for k, v := range s.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range s.cuts {
		cut := *v
		c.cuts[k] = &cut
	}
	c.cashMoves = append([]*entity.CashMovement(nil), s.cashMoves...)
	return c
}

type memRecordRepo struct{ state *saleState }

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

type memMovementRepo struct{ state *saleState }

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

type memSaleRepo struct{ state *saleState }

func (r *memSaleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.state.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if s, ok := r.state.sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, nil
}

func (r *memSaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *memSaleRepo) Update(_ context.Context, s *entity.Sale) error {
	r.state.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *memSaleRepo) ListByWarehouse(_ context.Context, _, _ string, _, _ *time.Time, _, _ int) ([]*entity.Sale, error) {
	return nil, nil
}

type memCutRepo struct{ state *saleState }

func (r *memCutRepo) Create(_ context.Context, cut *entity.CashCut) error {
	c := *cut
	r.state.cuts[cut.ID] = &c
	return nil
}

func (r *memCutRepo) GetByID(_ context.Context, id string) (*entity.CashCut, error) {
	if cut, ok := r.state.cuts[id]; ok {
		c := *cut
		return &c, nil
	}
	return nil, nil
}

func (r *memCutRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashCut, error) {
	return r.GetByID(ctx, id)
}

func (r *memCutRepo) GetOpenByWarehouse(_ context.Context, warehouseID string) (*entity.CashCut, error) {
	for _, cut := range r.state.cuts {
		if cut.WarehouseID == warehouseID && !cut.IsClosed() {
			c := *cut
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCutRepo) GetOpenByWarehouseForUpdate(ctx context.Context, warehouseID string) (*entity.CashCut, error) {
	return r.GetOpenByWarehouse(ctx, warehouseID)
}

func (r *memCutRepo) Update(_ context.Context, cut *entity.CashCut) error {
	c := *cut
	r.state.cuts[cut.ID] = &c
	return nil
}

func (r *memCutRepo) ListByWarehouse(_ context.Context, _ string, _, _ int) ([]*entity.CashCut, error) {
	return nil, nil
}

type memCashMovementRepo struct{ state *saleState }

func (r *memCashMovementRepo) Append(_ context.Context, movement *entity.CashMovement) error {
	c := *movement
	r.state.cashMoves = append(r.state.cashMoves, &c)
	return nil
}

func (r *memCashMovementRepo) ListByCashCut(_ context.Context, cashCutID string) ([]*entity.CashMovement, error) {
	var out []*entity.CashMovement
	for _, m := range r.state.cashMoves {
		if m.CashCutID == cashCutID {
			out = append(out, m)
		}
	}
	return out, nil
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

// memTxRunner implementa los TxRunner de inventario, caja y ventas sobre el
// mismo estado, con snapshot-restore como rollback.
type memTxRunner struct {
	mu    sync.Mutex
	state *saleState
}

func (r *memTxRunner) run(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	if err := fn(); err != nil {
		*r.state = *snapshot
		return err
	}
	return nil
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.run(func() error {
		return fn(&memRecordRepo{state: r.state}, &memMovementRepo{state: r.state})
	})
}

func (r *memTxRunner) RunSale(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
	cutRepo repository.CashCutRepository,
	cashMovRepo repository.CashMovementRepository,
) error) error {
	return r.run(func() error {
		return fn(
			&memRecordRepo{state: r.state},
			&memMovementRepo{state: r.state},
			&memSaleRepo{state: r.state},
			&memCutRepo{state: r.state},
			&memCashMovementRepo{state: r.state},
		)
	})
}

func (r *memTxRunner) RunCash(_ context.Context, fn func(
	cutRepo repository.CashCutRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	return r.run(func() error {
		return fn(&memCutRepo{state: r.state}, &memCashMovementRepo{state: r.state})
	})
}

func (r *memTxRunner) RunExpense(_ context.Context, fn func(
	expenseRepo repository.ExpenseRepository,
	cutRepo repository.CashCutRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	return r.run(func() error {
		return fn(nil, &memCutRepo{state: r.state}, &memCashMovementRepo{state: r.state})
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type saleFixture struct {
	uc     *sale.UseCase
	cashUC *finance.CashCutUseCase
	state  *saleState
}

// newSaleFixture arma una bodega activa con dos productos: A (precio 15,
// 100 en existencia) y B (precio 10, 5 en existencia).
func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	state := newSaleState()
	state.records[stockKey{warehouseID, productAID}] = &entity.InventoryRecord{
		WarehouseID:      warehouseID,
		ProductID:        productAID,
		PhysicalQuantity: dec(t, "100"),
	}
	state.records[stockKey{warehouseID, productBID}] = &entity.InventoryRecord{
		WarehouseID:      warehouseID,
		ProductID:        productBID,
		PhysicalQuantity: dec(t, "5"),
	}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		warehouseID: {ID: warehouseID, Code: "ALM-0001", Name: "Bodega Central", Status: "active"},
	}}
	products := &memProductRepo{products: map[string]*entity.Product{
		productAID: {ID: productAID, Code: "PRD-A", Name: "Producto A", Price: dec(t, "15"), Status: "active"},
		productBID: {ID: productBID, Code: "PRD-B", Name: "Producto B", Price: dec(t, "10"), Status: "active"},
	}}
	runner := &memTxRunner{state: state}
	recordRepo := &memRecordRepo{state: state}
	stockUC := inventory.NewStockUseCase(runner, recordRepo, &memMovementRepo{state: state}, warehouses, products)
	cashUC := finance.NewCashCutUseCase(runner, &memCutRepo{state: state}, &memCashMovementRepo{state: state}, warehouses)
	uc := sale.NewUseCase(
		runner, stockUC, cashUC,
		&memSaleRepo{state: state},
		warehouses, products,
		&memSeq{},
	)
	return &saleFixture{uc: uc, cashUC: cashUC, state: state}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

// openCut abre un corte de caja con fondo inicial de 100.
func (f *saleFixture) openCut(t *testing.T) *entity.CashCut {
	t.Helper()
	cut, err := f.cashUC.Open(context.Background(), warehouseID, actorID, dec(t, "100"))
	require.NoError(t, err)
	return cut
}

func (f *saleFixture) record(t *testing.T, productID string) *entity.InventoryRecord {
	t.Helper()
	rec, ok := f.state.records[stockKey{warehouseID, productID}]
	require.True(t, ok)
	return rec
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_VentaEfectivoCompleta(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	cut := f.openCut(t)

	s, err := f.uc.Create(ctx, sale.CreateInput{
		WarehouseID:    warehouseID,
		PaymentMethod:  entity.PaymentMethodCash,
		Discount:       dec(t, "10"),
		AmountReceived: decPtr(t, "100"),
		Details: []sale.CreateLineInput{
			{ProductID: productAID, Quantity: dec(t, "2")},
			{ProductID: productBID, Quantity: dec(t, "3")},
		},
		UserID: actorID,
	})
	require.NoError(t, err)

	assert.Equal(t, "VTA-00000001", s.SaleNumber)
	assert.Equal(t, entity.SaleStatusCompleted, s.Status)
	require.Len(t, s.Details, 2)
	assert.Equal(t, "PRD-A", s.Details[0].ProductCode, "el detalle desnormaliza código y nombre")
	assert.True(t, s.Details[0].UnitPrice.Equal(dec(t, "15")), "sin precio explícito se usa el de lista")
	assert.True(t, s.Subtotal.Equal(dec(t, "60")), "2x15 + 3x10")
	assert.True(t, s.Total.Equal(dec(t, "50")), "subtotal menos descuento global")
	require.NotNil(t, s.Change)
	assert.True(t, s.Change.Equal(dec(t, "50")), "cambio = recibido - total")

	// Cada línea consuma su salida en la misma transacción.
	assert.True(t, f.record(t, productAID).PhysicalQuantity.Equal(dec(t, "98")))
	assert.True(t, f.record(t, productBID).PhysicalQuantity.Equal(dec(t, "2")))
	assert.True(t, f.record(t, productAID).ReservedQuantity.IsZero())
	require.Len(t, f.state.movements, 4, "por línea: reserva + salida")
	assert.Equal(t, entity.MovementTypeReserve, f.state.movements[0].Type)
	assert.Equal(t, entity.MovementTypeOut, f.state.movements[1].Type)
	assert.Equal(t, entity.ReferenceTypeSale, f.state.movements[1].ReferenceType)
	assert.Equal(t, s.ID, f.state.movements[1].ReferenceID)

	// El cobro queda en el corte abierto: un solo movimiento por venta.
	stored := f.state.cuts[cut.ID]
	assert.True(t, stored.CashSales.Equal(dec(t, "50")))
	assert.Equal(t, 1, stored.TransactionCount)
	require.Len(t, f.state.cashMoves, 1)
	assert.Equal(t, entity.CashMovementSaleCash, f.state.cashMoves[0].Type)
	assert.Equal(t, s.ID, f.state.cashMoves[0].ReferenceID)
}

func TestCreate_TarjetaAlimentaAcumuladorDeTarjeta(t *testing.T) {
	f := newSaleFixture(t)
	cut := f.openCut(t)

	_, err := f.uc.Create(context.Background(), sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodCard,
		Details:       []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "1")}},
		UserID:        actorID,
	})
	require.NoError(t, err)

	stored := f.state.cuts[cut.ID]
	assert.True(t, stored.CardSales.Equal(dec(t, "15")))
	assert.True(t, stored.CashSales.IsZero(), "tarjeta no es efectivo en caja")
	require.Len(t, f.state.cashMoves, 1)
	assert.Equal(t, entity.CashMovementSaleCard, f.state.cashMoves[0].Type)
}

// Sin corte abierto la venta no procede: ni existencias ni venta quedan
// aplicadas.
func TestCreate_SinCorteAbiertoRevierteTodo(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.Create(context.Background(), sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodCash,
		Details:       []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "2")}},
		UserID:        actorID,
	})
	require.ErrorIs(t, err, domain.ErrNoOpenCashCut)

	assert.True(t, f.record(t, productAID).PhysicalQuantity.Equal(dec(t, "100")),
		"la salida ya aplicada debe revertirse")
	assert.Empty(t, f.state.movements)
	assert.Empty(t, f.state.sales)
}

// Venta multi-línea donde la segunda línea no alcanza: ninguna línea debe
// aplicarse.
func TestCreate_LineaInsuficienteRevierteTodo(t *testing.T) {
	f := newSaleFixture(t)
	f.openCut(t)

	_, err := f.uc.Create(context.Background(), sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodCash,
		Details: []sale.CreateLineInput{
			{ProductID: productAID, Quantity: dec(t, "2")},
			{ProductID: productBID, Quantity: dec(t, "6")},
		},
		UserID: actorID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.record(t, productAID).PhysicalQuantity.Equal(dec(t, "100")))
	assert.True(t, f.record(t, productBID).PhysicalQuantity.Equal(dec(t, "5")))
	assert.Empty(t, f.state.movements)
	assert.Empty(t, f.state.sales)
	assert.Empty(t, f.state.cashMoves)
}

func TestCreate_MetodoPagoInvalido(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.Create(context.Background(), sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: "vales",
		Details:       []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "1")}},
		UserID:        actorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_RecibidoMenorAlTotal(t *testing.T) {
	f := newSaleFixture(t)
	f.openCut(t)

	_, err := f.uc.Create(context.Background(), sale.CreateInput{
		WarehouseID:    warehouseID,
		PaymentMethod:  entity.PaymentMethodCash,
		AmountReceived: decPtr(t, "10"),
		Details:        []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "1")}},
		UserID:         actorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_RecibidoConTarjetaInvalido(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.Create(context.Background(), sale.CreateInput{
		WarehouseID:    warehouseID,
		PaymentMethod:  entity.PaymentMethodCard,
		AmountReceived: decPtr(t, "100"),
		Details:        []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "1")}},
		UserID:         actorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el monto recibido solo aplica en efectivo")
}

func TestCreate_DescuentoDeLineaMayorAlSubtotal(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.Create(context.Background(), sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodCash,
		Details: []sale.CreateLineInput{
			{ProductID: productAID, Quantity: dec(t, "1"), Discount: dec(t, "20")},
		},
		UserID: actorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_ReingresaExistenciasSinTocarCaja(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	cut := f.openCut(t)

	s, err := f.uc.Create(ctx, sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodCash,
		Details:       []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "4")}},
		UserID:        actorID,
	})
	require.NoError(t, err)
	require.True(t, f.record(t, productAID).PhysicalQuantity.Equal(dec(t, "96")))

	cancelled, err := f.uc.Cancel(ctx, s.ID, actorID, "cliente se arrepintió")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.Equal(t, actorID, cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancelledAt)

	assert.True(t, f.record(t, productAID).PhysicalQuantity.Equal(dec(t, "100")),
		"la cancelación reingresa lo vendido")
	last := f.state.movements[len(f.state.movements)-1]
	assert.Equal(t, entity.MovementTypeIn, last.Type)
	assert.Equal(t, entity.ReferenceTypeCancelledSale, last.ReferenceType)
	assert.Equal(t, s.ID, last.ReferenceID)

	// El cobro no se revierte: la devolución de efectivo se concilia como
	// diferencia al cerrar el corte.
	stored := f.state.cuts[cut.ID]
	assert.True(t, stored.CashSales.Equal(dec(t, "60")))
	require.Len(t, f.state.cashMoves, 1)
}

func TestCancel_DobleCancelacionFalla(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	f.openCut(t)

	s, err := f.uc.Create(ctx, sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodCash,
		Details:       []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "1")}},
		UserID:        actorID,
	})
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, s.ID, actorID, "")
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, s.ID, actorID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.True(t, f.record(t, productAID).PhysicalQuantity.Equal(dec(t, "100")),
		"cancelar dos veces no reingresa dos veces")
}

func TestCancel_VentaInexistenteNotFound(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.Cancel(context.Background(), "99999999-9999-9999-9999-999999999999", actorID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación al cierre tras ventas
// ──────────────────────────────────────────────────────────────────────────────

// El esperado del corte solo incluye ventas en efectivo; una venta cancelada
// sin devolución registrada aparece como diferencia.
func TestClose_TrasVentasConciliaSoloEfectivo(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	cut := f.openCut(t)

	_, err := f.uc.Create(ctx, sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodCash,
		Details:       []sale.CreateLineInput{{ProductID: productAID, Quantity: dec(t, "2")}},
		UserID:        actorID,
	})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, sale.CreateInput{
		WarehouseID:   warehouseID,
		PaymentMethod: entity.PaymentMethodTransfer,
		Details:       []sale.CreateLineInput{{ProductID: productBID, Quantity: dec(t, "1")}},
		UserID:        actorID,
	})
	require.NoError(t, err)

	closed, err := f.cashUC.Close(ctx, cut.ID, actorID, dec(t, "130"), "")
	require.NoError(t, err)
	require.NotNil(t, closed.ExpectedFinalAmount)
	assert.True(t, closed.ExpectedFinalAmount.Equal(dec(t, "130")),
		"esperado = fondo 100 + efectivo 30; la transferencia no cuenta")
	assert.True(t, closed.Difference.IsZero())
}
