package inventory

// Fakes en memoria de los puertos de persistencia. El runner de transacciones
// clona el estado, ejecuta fn sobre el clon y solo lo confirma si fn retorna
// nil, imitando la semántica commit/rollback de la implementación real. El
// lock se sostiene durante toda la transacción, de modo que dos movimientos
// concurrentes se serializan igual que con el row lock de PostgreSQL.

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jvidalc/stock-core/internal/domain"
	"github.com/jvidalc/stock-core/internal/domain/entity"
	"github.com/jvidalc/stock-core/internal/domain/repository"
)

type memStore struct {
	mu         sync.Mutex
	stock      map[entity.StockKey]entity.Stock
	movements  []*entity.Movement
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	users      map[string]entity.User
	grants     map[string]bool // userID|warehouseID
}

func newMemStore() *memStore {
	return &memStore{
		stock:      make(map[entity.StockKey]entity.Stock),
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		users:      make(map[string]entity.User),
		grants:     make(map[string]bool),
	}
}

func grantKey(userID, warehouseID string) string { return userID + "|" + warehouseID }

// applyDelta replica la semántica del update condicional: delta positivo crea
// la fila si no existe; delta negativo exige quantity + delta >= reserved y no
// materializa filas ausentes.
func applyDelta(stock map[entity.StockKey]entity.Stock, key entity.StockKey, delta int64) (*entity.Stock, error) {
	s, ok := stock[key]
	if delta < 0 {
		var available int64
		if ok {
			available = s.Available()
		}
		if !ok || s.Quantity+delta < s.ReservedQty {
			return nil, &domain.InsufficientStockError{Requested: -delta, Available: available}
		}
	} else if !ok {
		s = entity.Stock{WarehouseID: key.WarehouseID, ProductID: key.ProductID, VariantID: key.VariantID}
	}
	s.Quantity += delta
	s.UpdatedAt = time.Now()
	stock[key] = s
	cp := s
	return &cp, nil
}

// --- runner transaccional -------------------------------------------------

type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := &txState{
		stock:    make(map[entity.StockKey]entity.Stock, len(r.store.stock)),
		products: make(map[string]entity.Product, len(r.store.products)),
	}
	for k, v := range r.store.stock {
		tx.stock[k] = v
	}
	for k, v := range r.store.products {
		tx.products[k] = v
	}

	if err := fn(&txMovementRepo{tx}, &txStockRepo{tx}, &txProductRepo{tx}); err != nil {
		return err
	}

	r.store.stock = tx.stock
	r.store.products = tx.products
	r.store.movements = append(r.store.movements, tx.movements...)
	return nil
}

type txState struct {
	stock     map[entity.StockKey]entity.Stock
	movements []*entity.Movement
	products  map[string]entity.Product
}

type txStockRepo struct{ tx *txState }

func (r *txStockRepo) Get(_ context.Context, key entity.StockKey) (*entity.Stock, error) {
	if s, ok := r.tx.stock[key]; ok {
		cp := s
		return &cp, nil
	}
	return nil, nil
}

func (r *txStockRepo) ApplyDelta(_ context.Context, key entity.StockKey, delta int64) (*entity.Stock, error) {
	return applyDelta(r.tx.stock, key, delta)
}

func (r *txStockRepo) Reserve(_ context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	s, ok := r.tx.stock[key]
	if !ok || s.Available() < qty {
		var available int64
		if ok {
			available = s.Available()
		}
		return nil, &domain.InsufficientStockError{Requested: qty, Available: available}
	}
	s.ReservedQty += qty
	r.tx.stock[key] = s
	cp := s
	return &cp, nil
}

func (r *txStockRepo) Release(_ context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	s, ok := r.tx.stock[key]
	if !ok || s.ReservedQty < qty {
		return nil, domain.ErrConflict
	}
	s.ReservedQty -= qty
	r.tx.stock[key] = s
	cp := s
	return &cp, nil
}

func (r *txStockRepo) ListByWarehouse(context.Context, string, int, int) ([]*entity.Stock, error) {
	return nil, nil
}

func (r *txStockRepo) Summary(_ context.Context, warehouseID string) (*repository.StockSummary, error) {
	return &repository.StockSummary{WarehouseID: warehouseID}, nil
}

func (r *txStockRepo) LowStock(context.Context, string) ([]repository.LowStockItem, error) {
	return nil, nil
}

type txMovementRepo struct{ tx *txState }

func (r *txMovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	cp := *movement
	r.tx.movements = append(r.tx.movements, &cp)
	return nil
}

func (r *txMovementRepo) GetByID(context.Context, string) (*entity.Movement, error) {
	return nil, nil
}

func (r *txMovementRepo) ListByWarehouse(context.Context, string, *time.Time, *time.Time, int, int) ([]*entity.Movement, error) {
	return nil, nil
}

func (r *txMovementRepo) ListByProduct(context.Context, string, *time.Time, *time.Time, int, int) ([]*entity.Movement, error) {
	return nil, nil
}

type txProductRepo struct{ tx *txState }

func (r *txProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.tx.products[product.ID] = *product
	return nil
}

func (r *txProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.tx.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *txProductRepo) GetBySKU(context.Context, string) (*entity.Product, error) {
	return nil, nil
}

func (r *txProductRepo) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *txProductRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	p, ok := r.tx.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	r.tx.products[id] = p
	return nil
}

// --- repos atados al pool (lecturas fuera de transacción) ------------------

type memStockRepo struct{ store *memStore }

func (r *memStockRepo) Get(_ context.Context, key entity.StockKey) (*entity.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if s, ok := r.store.stock[key]; ok {
		cp := s
		return &cp, nil
	}
	return nil, nil
}

func (r *memStockRepo) ApplyDelta(_ context.Context, key entity.StockKey, delta int64) (*entity.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return applyDelta(r.store.stock, key, delta)
}

func (r *memStockRepo) Reserve(_ context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&txStockRepo{&txState{stock: r.store.stock}}).Reserve(context.Background(), key, qty)
}

func (r *memStockRepo) Release(_ context.Context, key entity.StockKey, qty int64) (*entity.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return (&txStockRepo{&txState{stock: r.store.stock}}).Release(context.Background(), key, qty)
}

func (r *memStockRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ int) ([]*entity.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Stock
	for _, s := range r.store.stock {
		if s.WarehouseID == warehouseID {
			cp := s
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *memStockRepo) Summary(_ context.Context, warehouseID string) (*repository.StockSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	summary := repository.StockSummary{WarehouseID: warehouseID}
	for _, s := range r.store.stock {
		if s.WarehouseID != warehouseID {
			continue
		}
		if s.Quantity > 0 {
			summary.TotalItems++
		}
		summary.TotalQuantity += s.Quantity
		summary.TotalReserved += s.ReservedQty
		if p, ok := r.store.products[s.ProductID]; ok && p.MinStock > 0 && s.Quantity < p.MinStock {
			summary.LowStockCount++
		}
	}
	return &summary, nil
}

func (r *memStockRepo) LowStock(context.Context, string) ([]repository.LowStockItem, error) {
	return nil, nil
}

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *memProductRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	r.store.products[id] = p
	return nil
}

type memWarehouseRepo struct{ store *memStore }

func (r *memWarehouseRepo) Create(_ context.Context, warehouse *entity.Warehouse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if w, ok := r.store.warehouses[id]; ok {
		cp := w
		return &cp, nil
	}
	return nil, nil
}

func (r *memWarehouseRepo) List(context.Context) ([]*entity.Warehouse, error) {
	return nil, nil
}

func (r *memWarehouseRepo) SetActive(_ context.Context, id string, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return domain.ErrNotFound
	}
	w.Active = active
	r.store.warehouses[id] = w
	return nil
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(context.Context, int, int) ([]*entity.User, error) {
	return nil, nil
}

func (r *memUserRepo) HasWarehouseGrant(_ context.Context, userID, warehouseID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.grants[grantKey(userID, warehouseID)], nil
}

func (r *memUserRepo) GrantWarehouse(_ context.Context, userID, warehouseID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.grants[grantKey(userID, warehouseID)] = true
	return nil
}

func (r *memUserRepo) RevokeWarehouse(_ context.Context, userID, warehouseID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.grants, grantKey(userID, warehouseID))
	return nil
}
