package orders

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/angelmondragon/ims-backend/pkg/auth"
	"github.com/angelmondragon/ims-backend/pkg/db/models"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ims-backend/pkg/errors"
	"github.com/angelmondragon/ims-backend/pkg/logger"
	"github.com/angelmondragon/ims-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	defaultTxTimeout = 10 * time.Second
	tracerName       = "github.com/angelmondragon/ims-backend/internal/orders"
)

// Service exposes order placement, cancellation and read-back.
type Service interface {
	ListOrders(ctx context.Context, actor auth.Context, userID uuid.UUID) ([]SaleDTO, error)
	GetOrder(ctx context.Context, actor auth.Context, orderID uuid.UUID) (*SaleDTO, error)
	PlaceOrder(ctx context.Context, actor auth.Context, input PlaceOrderInput) (*SaleDTO, error)
	CancelOrder(ctx context.Context, actor auth.Context, orderID uuid.UUID) (*SaleDTO, error)
}

// Options tunes the order service. Zero values fall back to defaults.
type Options struct {
	TxTimeout time.Duration
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
	Tracer    trace.Tracer
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory InventoryStore
	users     UserLookup
	txTimeout time.Duration
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
	tracer    trace.Tracer
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, inventory InventoryStore, users UserLookup, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	if users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if opts.TxTimeout <= 0 {
		opts.TxTimeout = defaultTxTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.New(logger.Options{ServiceName: "orders", Output: io.Discard})
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	return &service{
		repo:      repo,
		tx:        tx,
		inventory: inventory,
		users:     users,
		txTimeout: opts.TxTimeout,
		metrics:   opts.Metrics,
		logg:      opts.Logger,
		tracer:    opts.Tracer,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, actor auth.Context, userID uuid.UUID) ([]SaleDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !actor.CanActFor(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot list orders of another user")
	}

	rows, err := s.repo.ListSalesByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return salesFromModels(rows), nil
}

func (s *service) GetOrder(ctx context.Context, actor auth.Context, orderID uuid.UUID) (*SaleDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	sale, err := s.repo.FindSale(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.TxFailure(err, "load order")
	}
	if !actor.CanActFor(sale.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return saleFromModel(sale), nil
}

func (s *service) PlaceOrder(ctx context.Context, actor auth.Context, input PlaceOrderInput) (*SaleDTO, error) {
	ctx, span := s.tracer.Start(ctx, "orders.PlaceOrder", trace.WithAttributes(
		attribute.String("order.buyer_id", input.UserID.String()),
		attribute.Int("order.line_count", len(input.Lines)),
		attribute.String("order.payment_method", string(input.PaymentMethod)),
	))
	defer span.End()

	start := time.Now()
	sale, err := s.placeOrder(ctx, actor, input)
	if err != nil {
		recordError(span, err)
		reason := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			reason = string(typed.Code())
		}
		s.metrics.ObserveFailed(reason, time.Since(start))
		return nil, err
	}
	s.metrics.ObservePlaced(string(input.PaymentMethod), time.Since(start))
	span.SetAttributes(attribute.String("order.id", sale.ID.String()))

	logCtx := s.logg.WithOrderID(ctx, sale.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"buyer_id":       sale.UserID.String(),
		"line_count":     len(sale.Items),
		"payment_method": string(input.PaymentMethod),
	})
	s.logg.Info(logCtx, "order placed")

	return saleFromModel(sale), nil
}

func (s *service) placeOrder(ctx context.Context, actor auth.Context, input PlaceOrderInput) (*models.Sale, error) {
	if err := validatePlaceOrder(input); err != nil {
		return nil, err
	}
	if !actor.CanActFor(input.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot order on behalf of another user")
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var placed *models.Sale
	err := s.tx.WithTx(txCtx, func(tx *gorm.DB) error {
		if _, err := s.users.FindByID(txCtx, tx, input.UserID); err != nil {
			return err
		}

		sale := &models.Sale{
			ID:     uuid.New(),
			UserID: input.UserID,
			Status: enums.OrderStatusSuccess,
		}

		items := make([]models.SaleItem, 0, len(input.Lines))
		for i, line := range input.Lines {
			if err := s.inventory.Decrement(txCtx, tx, line.ItemID, line.Quantity); err != nil {
				return err
			}
			item, err := s.inventory.FindByID(txCtx, tx, line.ItemID)
			if err != nil {
				return err
			}
			items = append(items, models.SaleItem{
				ID:        uuid.New(),
				SaleID:    sale.ID,
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: item.Price,
				LineNo:    i + 1,
			})
		}

		repo := s.repo.WithTx(tx)
		if err := repo.CreateSale(txCtx, sale); err != nil {
			return err
		}
		if err := repo.CreateSaleItems(txCtx, items); err != nil {
			return err
		}
		if err := repo.CreateInvoice(txCtx, &models.Invoice{
			ID:            uuid.New(),
			SaleID:        sale.ID,
			Amount:        input.TotalAmount,
			TotalAmount:   input.TotalAmount,
			PaymentMethod: input.PaymentMethod,
		}); err != nil {
			return err
		}

		loaded, err := repo.FindSale(txCtx, sale.ID)
		if err != nil {
			return err
		}
		placed = loaded
		return nil
	})
	if err != nil {
		return nil, pkgerrors.TxFailure(err, "place order")
	}
	return placed, nil
}

// CancelOrder marks a sale CANCELLED. Cancelling a cancelled sale returns it
// unchanged. Stock is not restored.
func (s *service) CancelOrder(ctx context.Context, actor auth.Context, orderID uuid.UUID) (*SaleDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	ctx, span := s.tracer.Start(ctx, "orders.CancelOrder", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
	))
	defer span.End()

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var (
		result      *models.Sale
		transitions bool
	)
	err := s.tx.WithTx(txCtx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		sale, err := repo.FindSale(txCtx, orderID)
		if err != nil {
			return err
		}
		if !actor.CanActFor(sale.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		if sale.Status.IsTerminal() {
			result = sale
			return nil
		}

		if err := repo.UpdateSaleStatus(txCtx, sale.ID, enums.OrderStatusCancelled); err != nil {
			return err
		}
		reloaded, err := repo.FindSale(txCtx, sale.ID)
		if err != nil {
			return err
		}
		result = reloaded
		transitions = true
		return nil
	})
	if err != nil {
		err = pkgerrors.TxFailure(err, "cancel order")
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("order.transitioned", transitions))

	logCtx := s.logg.WithOrderID(ctx, result.ID.String())
	if transitions {
		s.metrics.IncCancelled()
		s.logg.Info(logCtx, "order cancelled")
	} else {
		s.logg.Debug(logCtx, "order already cancelled")
	}
	return saleFromModel(result), nil
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	if typed := pkgerrors.As(err); typed != nil {
		span.SetAttributes(attribute.String("error.code", string(typed.Code())))
	}
	span.SetStatus(codes.Error, err.Error())
}

func validatePlaceOrder(input PlaceOrderInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for i, line := range input.Lines {
		if line.ItemID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item id required").
				WithDetails(map[string]any{"line": i})
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").
				WithDetails(map[string]any{"line": i, "item_id": line.ItemID.String(), "quantity": line.Quantity})
		}
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]any{"payment_method": string(input.PaymentMethod)})
	}
	if input.TotalAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total amount must not be negative")
	}
	return nil
}
