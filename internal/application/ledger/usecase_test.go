package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: repos + TxRunner. El runner simula el rollback guardando
// una copia del estado antes de fn y restaurándola si fn falla, para poder
// verificar la semántica todo-o-nada del motor.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	balances map[string]*entity.Stock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{balances: make(map[string]*entity.Stock)}
}

func (r *fakeStockRepo) Get(productID string) (*entity.Stock, error) {
	s, ok := r.balances[productID]
	if !ok {
		return nil, nil
	}
	copia := *s
	return &copia, nil
}

func (r *fakeStockRepo) GetForUpdate(productID string) (*entity.Stock, error) {
	return r.Get(productID)
}

func (r *fakeStockRepo) Create(productID string) error {
	r.balances[productID] = &entity.Stock{ProductID: productID, Quantity: 0, UpdatedAt: time.Now()}
	return nil
}

func (r *fakeStockRepo) Update(stock *entity.Stock) error {
	copia := *stock
	r.balances[stock.ProductID] = &copia
	return nil
}

func (r *fakeStockRepo) List() ([]*entity.StockLevel, error) { return nil, nil }

type fakeMovementRepo struct {
	movements []*entity.StockMovement
	createErr error
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if r.createErr != nil {
		return r.createErr
	}
	copia := *m
	r.movements = append(r.movements, &copia)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			copia := *m
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) List(repository.MovementFilters) ([]*entity.StockMovement, error) {
	return r.movements, nil
}

type fakeTxRunner struct {
	stockRepo *fakeStockRepo
	movRepo   *fakeMovementRepo
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	// Snapshot para simular rollback
	prevBalances := make(map[string]*entity.Stock, len(t.stockRepo.balances))
	for k, v := range t.stockRepo.balances {
		copia := *v
		prevBalances[k] = &copia
	}
	prevMovs := len(t.movRepo.movements)

	if err := fn(t.stockRepo, t.movRepo); err != nil {
		t.stockRepo.balances = prevBalances
		t.movRepo.movements = t.movRepo.movements[:prevMovs]
		return err
	}
	return nil
}

// newLedgerFixture arma el caso de uso con un producto con saldo inicial dado.
func newLedgerFixture(t *testing.T, productID string, initial int64) (*ledger.ApplyMovementUseCase, *fakeStockRepo, *fakeMovementRepo) {
	t.Helper()
	stockRepo := newFakeStockRepo()
	movRepo := &fakeMovementRepo{}
	require.NoError(t, stockRepo.Create(productID))
	if initial != 0 {
		require.NoError(t, stockRepo.Update(&entity.Stock{ProductID: productID, Quantity: initial, UpdatedAt: time.Now()}))
	}
	uc := ledger.NewApplyMovementUseCase(&fakeTxRunner{stockRepo: stockRepo, movRepo: movRepo})
	return uc, stockRepo, movRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios del motor de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SalidaDescuentaSaldo(t *testing.T) {
	uc, stockRepo, movRepo := newLedgerFixture(t, "p1", 10)

	mov, err := uc.ApplyMovement(context.Background(), ledger.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 4,
	})

	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementTypeOUT, mov.Type)
	assert.Equal(t, int64(4), mov.Quantity, "el movimiento guarda la cantidad en positivo; el signo lo da el tipo")
	assert.NotEmpty(t, mov.ID)

	stock, err := stockRepo.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), stock.Quantity)
	assert.Len(t, movRepo.movements, 1)
}

func TestApplyMovement_EntradaSumaSaldo(t *testing.T) {
	uc, stockRepo, _ := newLedgerFixture(t, "p1", 0)

	_, err := uc.ApplyMovement(context.Background(), ledger.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 5,
	})

	require.NoError(t, err)
	stock, err := stockRepo.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock.Quantity)
}

func TestApplyMovement_SalidaInsuficiente_TodoONada(t *testing.T) {
	uc, stockRepo, movRepo := newLedgerFixture(t, "p1", 6)

	mov, err := uc.ApplyMovement(context.Background(), ledger.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 10,
	})

	require.Error(t, err)
	assert.Nil(t, mov)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.ErrorAs(t, err, &detail, "el error debe exponer disponible y solicitado")
	assert.Equal(t, int64(6), detail.Available)
	assert.Equal(t, int64(10), detail.Requested)

	// Sin efectos parciales: saldo intacto y ledger sin registros
	stock, getErr := stockRepo.Get("p1")
	require.NoError(t, getErr)
	assert.Equal(t, int64(6), stock.Quantity)
	assert.Empty(t, movRepo.movements)
}

func TestApplyMovement_SaldoInexistente(t *testing.T) {
	stockRepo := newFakeStockRepo()
	movRepo := &fakeMovementRepo{}
	uc := ledger.NewApplyMovementUseCase(&fakeTxRunner{stockRepo: stockRepo, movRepo: movRepo})

	_, err := uc.ApplyMovement(context.Background(), ledger.MovementInput{
		ProductID: "fantasma", Type: entity.MovementTypeIN, Quantity: 1,
	})

	assert.ErrorIs(t, err, domain.ErrBalanceNotFound)
	assert.Empty(t, movRepo.movements)
}

func TestApplyMovement_EntradaInvalida(t *testing.T) {
	uc, _, _ := newLedgerFixture(t, "p1", 10)

	cases := []struct {
		name  string
		input ledger.MovementInput
	}{
		{"cantidad cero", ledger.MovementInput{ProductID: "p1", Type: entity.MovementTypeIN, Quantity: 0}},
		{"cantidad negativa", ledger.MovementInput{ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: -3}},
		{"tipo desconocido", ledger.MovementInput{ProductID: "p1", Type: "TRANSFER", Quantity: 1}},
		{"producto vacío", ledger.MovementInput{ProductID: "", Type: entity.MovementTypeIN, Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ApplyMovement(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// TestApplyMovement_SumaDeMovimientos: para cualquier secuencia aceptada de
// entradas/salidas, el saldo final es el inicial + entradas - salidas.
func TestApplyMovement_SumaDeMovimientos(t *testing.T) {
	uc, stockRepo, movRepo := newLedgerFixture(t, "p1", 100)

	seq := []struct {
		tipo string
		qty  int64
	}{
		{entity.MovementTypeIN, 20},
		{entity.MovementTypeOUT, 50},
		{entity.MovementTypeIN, 5},
		{entity.MovementTypeOUT, 30},
		{entity.MovementTypeIN, 1},
	}
	expected := int64(100)
	for _, step := range seq {
		_, err := uc.ApplyMovement(context.Background(), ledger.MovementInput{
			ProductID: "p1", Type: step.tipo, Quantity: step.qty,
		})
		require.NoError(t, err)
		if step.tipo == entity.MovementTypeIN {
			expected += step.qty
		} else {
			expected -= step.qty
		}
	}

	stock, err := stockRepo.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, expected, stock.Quantity)
	assert.Len(t, movRepo.movements, len(seq), "un registro en el ledger por movimiento aceptado")
}

// TestApplyMovement_FalloEnLedger_RevierteSaldo: si el insert del movimiento
// falla, el update del saldo no debe quedar visible (misma transacción).
func TestApplyMovement_FalloEnLedger_RevierteSaldo(t *testing.T) {
	uc, stockRepo, movRepo := newLedgerFixture(t, "p1", 10)
	movRepo.createErr = errors.New("tx abortada")

	_, err := uc.ApplyMovement(context.Background(), ledger.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeOUT, Quantity: 3,
	})

	require.Error(t, err)
	stock, getErr := stockRepo.Get("p1")
	require.NoError(t, getErr)
	assert.Equal(t, int64(10), stock.Quantity, "el rollback debe restaurar el saldo")
}
