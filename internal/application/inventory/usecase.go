package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jvidalc/stock-core/internal/application/dto"
	"github.com/jvidalc/stock-core/internal/domain"
	"github.com/jvidalc/stock-core/internal/domain/access"
	"github.com/jvidalc/stock-core/internal/domain/entity"
	domaininv "github.com/jvidalc/stock-core/internal/domain/inventory"
	"github.com/jvidalc/stock-core/internal/domain/repository"
	"github.com/jvidalc/stock-core/pkg/logger"
	"github.com/jvidalc/stock-core/pkg/metrics"
	"github.com/jvidalc/stock-core/pkg/validator"
)

// MovementUseCase es el procesador de movimientos: valida el request, aplica el
// control de acceso, hace el pre-chequeo de disponibilidad (advisory) y ejecuta
// la mutación de stock más el registro en el libro como una única transacción.
//
// El pre-chequeo fuera de la transacción solo sirve para rechazar rápido; la
// garantía real contra carreras es el update condicional de StockRepository
// dentro de la tx: dos decrementos concurrentes sobre la misma fila se
// serializan en el row lock y el perdedor ve la cantidad ya decrementada.
type MovementUseCase struct {
	txRunner      TxRunner
	stockRepo     repository.StockRepository // atado al pool; solo lecturas advisory
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	userRepo      repository.UserRepository
	log           *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		userRepo:      userRepo,
		log:           log,
	}
}

// ApplyIn registra una entrada: delta = +qty en la bodega destino.
// Si UnitCost viene, recalcula el costo promedio ponderado del producto.
func (uc *MovementUseCase) ApplyIn(ctx context.Context, in dto.ApplyInRequest) (*entity.Movement, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return uc.reject(entity.MovementTypeIN, &domain.ValidationError{Reason: validator.Describe(errs)})
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return uc.reject(entity.MovementTypeIN, &domain.ValidationError{Field: "unit_cost", Reason: "no puede ser negativo"})
	}
	mov := &entity.Movement{
		Type:          entity.MovementTypeIN,
		Quantity:      in.Quantity,
		ProductID:     in.ProductID,
		VariantID:     in.VariantID,
		ToWarehouseID: in.ToWarehouseID,
		Reference:     in.Meta.Reference,
		Notes:         in.Meta.Notes,
		CreatedBy:     in.ActorID,
	}
	return uc.register(ctx, mov, in.UnitCost)
}

// ApplyOut registra una salida: delta = −qty en la bodega origen.
// Falla con InsufficientStockError si la cantidad resultante quedaría negativa.
func (uc *MovementUseCase) ApplyOut(ctx context.Context, in dto.ApplyOutRequest) (*entity.Movement, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return uc.reject(entity.MovementTypeOUT, &domain.ValidationError{Reason: validator.Describe(errs)})
	}
	mov := &entity.Movement{
		Type:            entity.MovementTypeOUT,
		Quantity:        in.Quantity,
		ProductID:       in.ProductID,
		VariantID:       in.VariantID,
		FromWarehouseID: in.FromWarehouseID,
		Reference:       in.Meta.Reference,
		Notes:           in.Meta.Notes,
		CreatedBy:       in.ActorID,
	}
	return uc.register(ctx, mov, nil)
}

// ApplyTransfer registra un traslado: −qty en origen y +qty en destino como
// unidad todo-o-nada. Origen y destino deben diferir.
func (uc *MovementUseCase) ApplyTransfer(ctx context.Context, in dto.ApplyTransferRequest) (*entity.Movement, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return uc.reject(entity.MovementTypeTRANSFER, &domain.ValidationError{Reason: validator.Describe(errs)})
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return uc.reject(entity.MovementTypeTRANSFER, &domain.ValidationError{Field: "to_warehouse_id", Reason: "origen y destino deben diferir"})
	}
	mov := &entity.Movement{
		Type:            entity.MovementTypeTRANSFER,
		Quantity:        in.Quantity,
		ProductID:       in.ProductID,
		VariantID:       in.VariantID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Reference:       in.Meta.Reference,
		Notes:           in.Meta.Notes,
		CreatedBy:       in.ActorID,
	}
	return uc.register(ctx, mov, nil)
}

// ApplyAdjustment registra un ajuste con delta con signo sobre una bodega.
// El libro guarda el delta firmado, de modo que la suma de deltas reconstruye
// el stock sin razonamiento auxiliar.
func (uc *MovementUseCase) ApplyAdjustment(ctx context.Context, in dto.ApplyAdjustmentRequest) (*entity.Movement, error) {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return uc.reject(entity.MovementTypeADJUSTMENT, &domain.ValidationError{Reason: validator.Describe(errs)})
	}
	if in.Delta == 0 {
		return uc.reject(entity.MovementTypeADJUSTMENT, &domain.ValidationError{Field: "delta", Reason: "no puede ser cero"})
	}
	mov := &entity.Movement{
		Type:          entity.MovementTypeADJUSTMENT,
		Quantity:      in.Delta,
		ProductID:     in.ProductID,
		VariantID:     in.VariantID,
		ToWarehouseID: in.WarehouseID,
		Reference:     in.Meta.Reference,
		Notes:         in.Meta.Notes,
		CreatedBy:     in.ActorID,
	}
	return uc.register(ctx, mov, nil)
}

// register ejecuta el camino común: admisión (rol + grants), referencias
// (producto y bodegas), pre-chequeo advisory y la transacción atómica.
// Los chequeos previos cortocircuitan sin abrir transacción.
func (uc *MovementUseCase) register(ctx context.Context, mov *entity.Movement, unitCost *decimal.Decimal) (*entity.Movement, error) {
	if err := uc.admit(ctx, mov); err != nil {
		return uc.reject(mov.Type, err)
	}

	product, err := uc.productRepo.GetByID(ctx, mov.ProductID)
	if err != nil {
		return uc.reject(mov.Type, err)
	}
	if product == nil {
		return uc.reject(mov.Type, domain.ErrNotFound)
	}
	if err := uc.checkWarehouses(ctx, mov); err != nil {
		return uc.reject(mov.Type, err)
	}

	// Pre-chequeo de disponibilidad, solo advisory: produce rechazos rápidos
	// sin abrir transacción. El chequeo autoritativo ocurre dentro de la tx.
	for _, d := range mov.Deltas() {
		if d.Delta >= 0 {
			continue
		}
		if err := uc.checkAvailability(ctx, d.Key, -d.Delta); err != nil {
			return uc.reject(mov.Type, err)
		}
	}

	now := time.Now()
	mov.ID = uuid.New().String()
	mov.CreatedAt = now
	if unitCost != nil {
		mov.UnitCost = *unitCost
	} else {
		mov.UnitCost = product.Cost
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		for _, d := range mov.Deltas() {
			stock, err := stockRepo.ApplyDelta(ctx, d.Key, d.Delta)
			if err != nil {
				return err
			}
			// Costo promedio ponderado sobre la cantidad previa al delta.
			if mov.Type == entity.MovementTypeIN && unitCost != nil {
				prevQty := stock.Quantity - d.Delta
				newCost := domaininv.CostCalculator(prevQty, product.Cost, d.Delta, *unitCost)
				if err := productRepo.UpdateCost(ctx, product.ID, newCost); err != nil {
					return err
				}
			}
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return uc.reject(mov.Type, err)
	}

	metrics.MovementsApplied.WithLabelValues(mov.Type).Inc()
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("type", mov.Type).
		Int64("quantity", mov.Quantity).
		Str("product_id", mov.ProductID).
		Str("from_warehouse", mov.FromWarehouseID).
		Str("to_warehouse", mov.ToWarehouseID).
		Msg("movimiento registrado")
	return mov, nil
}

// admit aplica la tabla de capacidades y el grant de escritura por bodega.
func (uc *MovementUseCase) admit(ctx context.Context, mov *entity.Movement) error {
	actor, err := uc.userRepo.GetByID(ctx, mov.CreatedBy)
	if err != nil {
		return err
	}
	if actor == nil {
		return domain.ErrUserNotFound
	}
	if actor.Status != "active" {
		return domain.ErrForbidden
	}
	role := access.Role(actor.Role)
	if !access.CanCreate(mov.Type, role) {
		return domain.ErrForbidden
	}
	for _, whID := range touchedWarehouses(mov) {
		hasGrant := false
		if role != access.RoleAdmin && role != access.RoleManager {
			hasGrant, err = uc.userRepo.HasWarehouseGrant(ctx, actor.ID, whID)
			if err != nil {
				return err
			}
		}
		if !access.CanWriteWarehouse(role, hasGrant) {
			return domain.ErrForbidden
		}
	}
	return nil
}

// checkWarehouses valida que las bodegas referenciadas existan y estén activas.
func (uc *MovementUseCase) checkWarehouses(ctx context.Context, mov *entity.Movement) error {
	for _, whID := range touchedWarehouses(mov) {
		wh, err := uc.warehouseRepo.GetByID(ctx, whID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		if !wh.Active {
			return domain.ErrWarehouseInactive
		}
	}
	return nil
}

// checkAvailability compara la cantidad disponible (quantity - reserved) contra
// lo solicitado. Ausencia de fila cuenta como disponible cero; no se materializa
// ninguna fila en este camino.
func (uc *MovementUseCase) checkAvailability(ctx context.Context, key entity.StockKey, need int64) error {
	stock, err := uc.stockRepo.Get(ctx, key)
	if err != nil {
		return err
	}
	var available int64
	if stock != nil {
		available = stock.Available()
	}
	if available < need {
		return &domain.InsufficientStockError{Requested: need, Available: available}
	}
	return nil
}

// reject registra el rechazo en métricas y log, y lo propaga tipado al caller.
func (uc *MovementUseCase) reject(movType string, err error) (*entity.Movement, error) {
	metrics.MovementsRejected.WithLabelValues(movType, rejectReason(err)).Inc()
	uc.log.Warn().Err(err).Str("type", movType).Msg("movimiento rechazado")
	return nil, err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrWarehouseInactive):
		return "validation"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUserNotFound):
		return "permission"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func touchedWarehouses(mov *entity.Movement) []string {
	var ids []string
	if mov.FromWarehouseID != "" {
		ids = append(ids, mov.FromWarehouseID)
	}
	if mov.ToWarehouseID != "" {
		ids = append(ids, mov.ToWarehouseID)
	}
	return ids
}
