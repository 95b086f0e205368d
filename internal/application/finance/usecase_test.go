package finance_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pro/internal/application/finance"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	warehouseID = "aaaaaaaa-0000-0000-0000-000000000001"
	cashierID   = "cccccccc-0000-0000-0000-000000000001"
	approverID  = "cccccccc-0000-0000-0000-000000000002"
	categoryID  = "dddddddd-0000-0000-0000-000000000001"
)

// finState es el estado compartido por los repos fake; el TxRunner lo clona
// y lo restaura ante error, como el rollback real.
type finState struct {
	cuts       map[string]*entity.CashCut
	cashMoves  []*entity.CashMovement
	expenses   map[string]*entity.OperationalExpense
	categories map[string]*entity.ExpenseCategory
}

func newFinState() *finState {
	return &finState{
		cuts:       make(map[string]*entity.CashCut),
		expenses:   make(map[string]*entity.OperationalExpense),
		categories: make(map[string]*entity.ExpenseCategory),
	}
}

func (s *finState) clone() *finState {
	c := newFinState()
	for k, v := range s.cuts {
		cut := *v
		c.cuts[k] = &cut
	}
	c.cashMoves = append([]*entity.CashMovement(nil), s.cashMoves...)
	for k, v := range s.expenses {
		e := *v
		c.expenses[k] = &e
	}
	for k, v := range s.categories {
		cat := *v
		c.categories[k] = &cat
	}
	return c
}

type memCutRepo struct{ state *finState }

func (r *memCutRepo) Create(_ context.Context, cut *entity.CashCut) error {
	// El repo real respalda la unicidad con un índice parcial; aquí se
	// replica la verificación.
	for _, existing := range r.state.cuts {
		if existing.WarehouseID == cut.WarehouseID && !existing.IsClosed() {
			return domain.ErrCashCutAlreadyOpen
		}
	}
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

func (r *memCutRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ int) ([]*entity.CashCut, error) {
	var out []*entity.CashCut
	for _, cut := range r.state.cuts {
		if cut.WarehouseID == warehouseID {
			c := *cut
			out = append(out, &c)
		}
	}
	return out, nil
}

type memCashMovementRepo struct{ state *finState }

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

type memExpenseRepo struct{ state *finState }

func (r *memExpenseRepo) Create(_ context.Context, expense *entity.OperationalExpense) error {
	c := *expense
	r.state.expenses[expense.ID] = &c
	return nil
}

func (r *memExpenseRepo) GetByID(_ context.Context, id string) (*entity.OperationalExpense, error) {
	if e, ok := r.state.expenses[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, nil
}

func (r *memExpenseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.OperationalExpense, error) {
	return r.GetByID(ctx, id)
}

func (r *memExpenseRepo) Update(_ context.Context, expense *entity.OperationalExpense) error {
	c := *expense
	r.state.expenses[expense.ID] = &c
	return nil
}

func (r *memExpenseRepo) ListByWarehouse(_ context.Context, warehouseID, status string, _, _ int) ([]*entity.OperationalExpense, error) {
	var out []*entity.OperationalExpense
	for _, e := range r.state.expenses {
		if e.WarehouseID == warehouseID && (status == "" || e.Status == status) {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

type memCategoryRepo struct{ state *finState }

func (r *memCategoryRepo) Create(_ context.Context, category *entity.ExpenseCategory) error {
	c := *category
	r.state.categories[category.ID] = &c
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (*entity.ExpenseCategory, error) {
	if cat, ok := r.state.categories[id]; ok {
		c := *cat
		return &c, nil
	}
	return nil, nil
}

func (r *memCategoryRepo) Update(_ context.Context, category *entity.ExpenseCategory) error {
	c := *category
	r.state.categories[category.ID] = &c
	return nil
}

func (r *memCategoryRepo) List(_ context.Context, _, _ int) ([]*entity.ExpenseCategory, error) {
	var out []*entity.ExpenseCategory
	for _, cat := range r.state.categories {
		c := *cat
		out = append(out, &c)
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

type memTxRunner struct {
	mu    sync.Mutex
	state *finState
}

func (r *memTxRunner) RunCash(_ context.Context, fn func(
	cutRepo repository.CashCutRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	if err := fn(&memCutRepo{state: r.state}, &memCashMovementRepo{state: r.state}); err != nil {
		*r.state = *snapshot
		return err
	}
	return nil
}

func (r *memTxRunner) RunExpense(_ context.Context, fn func(
	expenseRepo repository.ExpenseRepository,
	cutRepo repository.CashCutRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.state.clone()
	err := fn(
		&memExpenseRepo{state: r.state},
		&memCutRepo{state: r.state},
		&memCashMovementRepo{state: r.state},
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

type financeFixture struct {
	cashUC    *finance.CashCutUseCase
	expenseUC *finance.ExpenseUseCase
	state     *finState
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	state := newFinState()
	state.categories[categoryID] = &entity.ExpenseCategory{
		ID: categoryID, Name: "Servicios", Code: "SRV", Status: "active",
	}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		warehouseID: {ID: warehouseID, Code: "ALM-0001", Name: "Bodega Central", Status: "active"},
	}}
	runner := &memTxRunner{state: state}
	cashUC := finance.NewCashCutUseCase(runner, &memCutRepo{state: state}, &memCashMovementRepo{state: state}, warehouses)
	expenseUC := finance.NewExpenseUseCase(runner, &memExpenseRepo{state: state}, &memCategoryRepo{state: state}, warehouses)
	return &financeFixture{cashUC: cashUC, expenseUC: expenseUC, state: state}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func (f *financeFixture) open(t *testing.T, amount string) *entity.CashCut {
	t.Helper()
	cut, err := f.cashUC.Open(context.Background(), warehouseID, cashierID, dec(t, amount))
	require.NoError(t, err)
	return cut
}

func (f *financeFixture) registerSale(t *testing.T, cutID, movType, amount string) {
	t.Helper()
	_, err := f.cashUC.RegisterMovement(context.Background(), finance.RegisterMovementInput{
		CashCutID: cutID,
		Type:      movType,
		Amount:    dec(t, amount),
		UserID:    cashierID,
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Corte de caja
// ──────────────────────────────────────────────────────────────────────────────

// Ciclo completo: apertura 100, ventas en efectivo 30 y 45, venta con
// tarjeta 200 (no cuenta como efectivo). Esperado al cierre = 100 + 75 = 175.
func TestCashCut_CicloCompletoConciliado(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	cut := f.open(t, "100")
	f.registerSale(t, cut.ID, entity.CashMovementSaleCash, "30")
	f.registerSale(t, cut.ID, entity.CashMovementSaleCash, "45")
	f.registerSale(t, cut.ID, entity.CashMovementSaleCard, "200")

	closed, err := f.cashUC.Close(ctx, cut.ID, cashierID, dec(t, "175"), "")
	require.NoError(t, err)

	require.NotNil(t, closed.ExpectedFinalAmount)
	assert.True(t, closed.ExpectedFinalAmount.Equal(dec(t, "175")),
		"esperado = apertura + efectivo; la tarjeta no es efectivo en caja")
	require.NotNil(t, closed.Difference)
	assert.True(t, closed.Difference.IsZero(), "caja cuadrada: diferencia cero")
	assert.Equal(t, 3, closed.TransactionCount, "las tres ventas cuentan transacciones")
	assert.True(t, closed.CardSales.Equal(dec(t, "200")), "la tarjeta se rastrea en su propio acumulador")
	assert.True(t, closed.IsClosed())
}

func TestCashCut_FaltanteReportaDiferenciaNegativa(t *testing.T) {
	f := newFinanceFixture(t)

	cut := f.open(t, "100")
	f.registerSale(t, cut.ID, entity.CashMovementSaleCash, "50")

	closed, err := f.cashUC.Close(context.Background(), cut.ID, cashierID, dec(t, "140"), "faltan 10")
	require.NoError(t, err)

	require.NotNil(t, closed.Difference)
	assert.True(t, closed.Difference.Equal(dec(t, "-10")), "diferencia = real - esperado")
}

func TestCashCut_DobleAperturaFalla(t *testing.T) {
	f := newFinanceFixture(t)

	f.open(t, "100")
	_, err := f.cashUC.Open(context.Background(), warehouseID, cashierID, dec(t, "50"))
	assert.ErrorIs(t, err, domain.ErrCashCutAlreadyOpen,
		"a lo sumo un corte abierto por bodega")
}

func TestCashCut_ReabrirTrasCierre(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	cut := f.open(t, "100")
	_, err := f.cashUC.Close(ctx, cut.ID, cashierID, dec(t, "100"), "")
	require.NoError(t, err)

	// Cerrado el anterior, la bodega puede abrir un corte nuevo.
	f.open(t, "80")
}

func TestCashCut_CerrarDosVecesFalla(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	cut := f.open(t, "100")
	_, err := f.cashUC.Close(ctx, cut.ID, cashierID, dec(t, "100"), "")
	require.NoError(t, err)

	_, err = f.cashUC.Close(ctx, cut.ID, cashierID, dec(t, "100"), "")
	assert.ErrorIs(t, err, domain.ErrCashCutClosed, "el cierre es irreversible")
}

func TestCashCut_MovimientoSobreCorteCerradoFalla(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	cut := f.open(t, "100")
	_, err := f.cashUC.Close(ctx, cut.ID, cashierID, dec(t, "100"), "")
	require.NoError(t, err)

	_, err = f.cashUC.RegisterMovement(ctx, finance.RegisterMovementInput{
		CashCutID: cut.ID,
		Type:      entity.CashMovementSaleCash,
		Amount:    dec(t, "10"),
		UserID:    cashierID,
	})
	require.ErrorIs(t, err, domain.ErrCashCutClosed)
	assert.Empty(t, f.state.cashMoves, "un movimiento rechazado no se adjunta")
}

func TestCashCut_TipoDeMovimientoInvalido(t *testing.T) {
	f := newFinanceFixture(t)

	cut := f.open(t, "100")
	_, err := f.cashUC.RegisterMovement(context.Background(), finance.RegisterMovementInput{
		CashCutID: cut.ID,
		Type:      "propina",
		Amount:    dec(t, "10"),
		UserID:    cashierID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCashCut_CurrentOpenSinCorte(t *testing.T) {
	f := newFinanceFixture(t)

	_, err := f.cashUC.CurrentOpen(context.Background(), warehouseID)
	assert.ErrorIs(t, err, domain.ErrNoOpenCashCut)
}

// ──────────────────────────────────────────────────────────────────────────────
// Gastos operativos
// ──────────────────────────────────────────────────────────────────────────────

func (f *financeFixture) createExpense(t *testing.T, amount string) *entity.OperationalExpense {
	t.Helper()
	expense, err := f.expenseUC.Create(context.Background(), finance.CreateExpenseInput{
		WarehouseID: warehouseID,
		CategoryID:  categoryID,
		Description: "recibo de luz",
		Amount:      dec(t, amount),
		UserID:      cashierID,
	})
	require.NoError(t, err)
	return expense
}

// La aprobación resuelve el gasto y registra exactamente un movimiento de
// caja contra el corte abierto, en la misma transacción.
func TestExpense_AprobarRegistraUnMovimiento(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	cut := f.open(t, "100")
	f.registerSale(t, cut.ID, entity.CashMovementSaleCash, "60")
	expense := f.createExpense(t, "40")
	assert.Equal(t, entity.ExpenseStatusPending, expense.Status)

	approved, err := f.expenseUC.Approve(ctx, expense.ID, approverID, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusApproved, approved.Status)
	assert.Equal(t, approverID, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovalDate)

	var expenseMoves []*entity.CashMovement
	for _, m := range f.state.cashMoves {
		if m.Type == entity.CashMovementExpense {
			expenseMoves = append(expenseMoves, m)
		}
	}
	require.Len(t, expenseMoves, 1, "exactamente un movimiento de caja por aprobación")
	assert.Equal(t, expense.ID, expenseMoves[0].ReferenceID)
	assert.True(t, expenseMoves[0].Amount.Equal(dec(t, "40")))

	stored := f.state.cuts[cut.ID]
	assert.True(t, stored.TotalExpenses.Equal(dec(t, "40")))

	// El gasto aprobado descuenta del efectivo esperado al cierre.
	closed, err := f.cashUC.Close(ctx, cut.ID, cashierID, dec(t, "120"), "")
	require.NoError(t, err)
	assert.True(t, closed.ExpectedFinalAmount.Equal(dec(t, "120")), "esperado = 100 + 60 - 40")
	assert.True(t, closed.Difference.IsZero())
}

func TestExpense_AprobarNoPendienteFalla(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	f.open(t, "100")
	expense := f.createExpense(t, "40")
	_, err := f.expenseUC.Approve(ctx, expense.ID, approverID, "")
	require.NoError(t, err)

	_, err = f.expenseUC.Approve(ctx, expense.ID, approverID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidExpenseState, "un gasto ya resuelto no puede reaprobarse")
}

func TestExpense_AprobarSinCorteAbiertoFalla(t *testing.T) {
	f := newFinanceFixture(t)

	expense := f.createExpense(t, "40")
	_, err := f.expenseUC.Approve(context.Background(), expense.ID, approverID, "")
	require.ErrorIs(t, err, domain.ErrNoOpenCashCut)

	// Sin corte la aprobación se revierte entera: el gasto sigue pendiente.
	stored := f.state.expenses[expense.ID]
	assert.Equal(t, entity.ExpenseStatusPending, stored.Status)
	assert.Empty(t, f.state.cashMoves)
}

func TestExpense_RechazoEsTerminalSinEfectoEnCaja(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	cut := f.open(t, "100")
	expense := f.createExpense(t, "40")

	rejected, err := f.expenseUC.Reject(ctx, expense.ID, approverID, "sin comprobante")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusRejected, rejected.Status)
	assert.Equal(t, "sin comprobante", rejected.Notes)

	assert.Empty(t, f.state.cashMoves, "el rechazo no toca el libro de caja")
	stored := f.state.cuts[cut.ID]
	assert.True(t, stored.TotalExpenses.IsZero())

	_, err = f.expenseUC.Approve(ctx, expense.ID, approverID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidExpenseState)
}

func TestExpense_CategoriaInactivaFalla(t *testing.T) {
	f := newFinanceFixture(t)
	f.state.categories[categoryID].Status = "inactive"

	_, err := f.expenseUC.Create(context.Background(), finance.CreateExpenseInput{
		WarehouseID: warehouseID,
		CategoryID:  categoryID,
		Description: "recibo de luz",
		Amount:      dec(t, "40"),
		UserID:      cashierID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExpense_MontoNoPositivo(t *testing.T) {
	f := newFinanceFixture(t)

	_, err := f.expenseUC.Create(context.Background(), finance.CreateExpenseInput{
		WarehouseID: warehouseID,
		CategoryID:  categoryID,
		Description: "recibo de luz",
		Amount:      decimal.Zero,
		UserID:      cashierID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
