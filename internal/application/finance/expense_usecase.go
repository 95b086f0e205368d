package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pro/internal/domain"
	"github.com/tu-usuario/almacen-pro/internal/domain/entity"
	"github.com/tu-usuario/almacen-pro/internal/domain/repository"
)

// ExpenseUseCase maneja el flujo de aprobación de gastos operativos:
// pending -> approved | rejected. La aprobación registra el movimiento de
// caja contra el corte abierto de la bodega del gasto, en la misma
// transacción que resuelve el gasto.
type ExpenseUseCase struct {
	txRunner      TxRunner
	expenseRepo   repository.ExpenseRepository // lecturas fuera de tx
	categoryRepo  repository.ExpenseCategoryRepository
	warehouseRepo repository.WarehouseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(
	txRunner TxRunner,
	expenseRepo repository.ExpenseRepository,
	categoryRepo repository.ExpenseCategoryRepository,
	warehouseRepo repository.WarehouseRepository,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txRunner:      txRunner,
		expenseRepo:   expenseRepo,
		categoryRepo:  categoryRepo,
		warehouseRepo: warehouseRepo,
	}
}

// CreateExpenseInput alta de gasto operativo (queda pendiente de aprobación).
type CreateExpenseInput struct {
	WarehouseID   string
	CategoryID    string
	Description   string
	Amount        decimal.Decimal
	ExpenseDate   *time.Time
	ReceiptNumber string
	Supplier      string
	Notes         string
	UserID        string
}

// Create registra el gasto en pending. La categoría debe existir y estar
// activa.
func (uc *ExpenseUseCase) Create(ctx context.Context, in CreateExpenseInput) (*entity.OperationalExpense, error) {
	if in.WarehouseID == "" || in.CategoryID == "" || in.Description == "" || in.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil || wh == nil || wh.Status != "active" {
		return nil, domain.ErrNotFound
	}
	category, err := uc.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil || category == nil {
		return nil, domain.ErrNotFound
	}
	if category.Status != "active" {
		return nil, domain.ErrInvalidInput
	}
	expenseDate := time.Now()
	if in.ExpenseDate != nil {
		expenseDate = *in.ExpenseDate
	}
	expense := &entity.OperationalExpense{
		ID:            uuid.New().String(),
		WarehouseID:   in.WarehouseID,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		Amount:        in.Amount,
		ExpenseDate:   expenseDate,
		Status:        entity.ExpenseStatusPending,
		ReceiptNumber: in.ReceiptNumber,
		Supplier:      in.Supplier,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
		CreatedBy:     in.UserID,
	}
	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Approve pasa pending -> approved: fija aprobador y fecha, y registra
// exactamente un movimiento de caja contra el corte abierto de la bodega.
// Falla con ErrInvalidExpenseState si el gasto no está pendiente y con
// ErrNoOpenCashCut si la bodega no tiene corte abierto.
func (uc *ExpenseUseCase) Approve(ctx context.Context, expenseID, approverID, observations string) (*entity.OperationalExpense, error) {
	if expenseID == "" || approverID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.OperationalExpense
	err := uc.txRunner.RunExpense(ctx, func(
		expenseRepo repository.ExpenseRepository,
		cutRepo repository.CashCutRepository,
		movRepo repository.CashMovementRepository,
	) error {
		expense, err := expenseRepo.GetByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		if expense == nil {
			return domain.ErrNotFound
		}
		if expense.Status != entity.ExpenseStatusPending {
			return domain.ErrInvalidExpenseState
		}
		cut, err := cutRepo.GetOpenByWarehouseForUpdate(ctx, expense.WarehouseID)
		if err != nil {
			return err
		}
		if cut == nil {
			return domain.ErrNoOpenCashCut
		}
		now := time.Now()
		expense.Status = entity.ExpenseStatusApproved
		expense.ApprovedBy = approverID
		expense.ApprovalDate = &now
		if observations != "" {
			expense.Notes = observations
		}
		if err := expenseRepo.Update(ctx, expense); err != nil {
			return err
		}
		applyToAccumulators(cut, entity.CashMovementExpense, expense.Amount)
		if err := cutRepo.Update(ctx, cut); err != nil {
			return err
		}
		if err := movRepo.Append(ctx, &entity.CashMovement{
			ID:            uuid.New().String(),
			CashCutID:     cut.ID,
			WarehouseID:   cut.WarehouseID,
			Type:          entity.CashMovementExpense,
			Amount:        expense.Amount,
			ReferenceID:   expense.ID,
			ReferenceType: "expense",
			Notes:         expense.Description,
			CreatedAt:     now,
			CreatedBy:     approverID,
		}); err != nil {
			return err
		}
		result = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject pasa pending -> rejected (terminal, sin efecto en el libro de caja).
func (uc *ExpenseUseCase) Reject(ctx context.Context, expenseID, approverID, reason string) (*entity.OperationalExpense, error) {
	if expenseID == "" || approverID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.OperationalExpense
	err := uc.txRunner.RunExpense(ctx, func(
		expenseRepo repository.ExpenseRepository,
		_ repository.CashCutRepository,
		_ repository.CashMovementRepository,
	) error {
		expense, err := expenseRepo.GetByIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		if expense == nil {
			return domain.ErrNotFound
		}
		if expense.Status != entity.ExpenseStatusPending {
			return domain.ErrInvalidExpenseState
		}
		now := time.Now()
		expense.Status = entity.ExpenseStatusRejected
		expense.ApprovedBy = approverID
		expense.ApprovalDate = &now
		if reason != "" {
			expense.Notes = reason
		}
		result = expense
		return expenseRepo.Update(ctx, expense)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID devuelve el gasto.
func (uc *ExpenseUseCase) GetByID(ctx context.Context, expenseID string) (*entity.OperationalExpense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	return expense, nil
}

// ListByWarehouse devuelve gastos filtrados por bodega y estado.
func (uc *ExpenseUseCase) ListByWarehouse(ctx context.Context, warehouseID, status string, limit, offset int) ([]*entity.OperationalExpense, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.expenseRepo.ListByWarehouse(ctx, warehouseID, status, limit, offset)
}

// CreateCategory alta de categoría de gasto.
func (uc *ExpenseUseCase) CreateCategory(ctx context.Context, name, code, description string) (*entity.ExpenseCategory, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.ExpenseCategory{
		ID:          uuid.New().String(),
		Name:        name,
		Code:        code,
		Description: description,
		Status:      "active",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories devuelve las categorías de gasto.
func (uc *ExpenseUseCase) ListCategories(ctx context.Context, limit, offset int) ([]*entity.ExpenseCategory, error) {
	return uc.categoryRepo.List(ctx, limit, offset)
}
