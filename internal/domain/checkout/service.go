// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/cart"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/domain/payment"
)

const (
	ledgerAttempts = 3
	defaultHoldTTL = 7 * 24 * time.Hour
)

// Notifier is told about completed orders
type Notifier interface {
	OrderConfirmed(ctx context.Context, o *order.Order) error
}

// Reporter is told when a captured payment has no order record
type Reporter interface {
	PersistenceFailed(ctx context.Context, incident Incident) error
}

// Incident describes a payment that needs manual recovery
type Incident struct {
	CheckoutKey      string
	PaymentReference string
	Amount           decimal.Decimal
	Currency         string
	Customer         order.CustomerInfo
	Err              error
	OccurredAt       time.Time
}

// Request is one checkout attempt. Cart is owned by the caller and is
// cleared only when the order has been persisted.
type Request struct {
	IdempotencyKey string
	Cart           *cart.Cart
	Customer       order.CustomerInfo
	Shipping       order.Address
	UserID         *string
}

// Result reports where the attempt ended. State is set on every return.
type Result struct {
	State            State                  `json:"state"`
	Order            *order.Order           `json:"order,omitempty"`
	Totals           *Totals                `json:"totals,omitempty"`
	Corrections      []PriceChange          `json:"corrections,omitempty"`
	DecrementErrors  []order.DecrementError `json:"decrement_errors,omitempty"`
	PaymentReference string                 `json:"payment_reference,omitempty"`
	Resumed          bool                   `json:"resumed"`
}

// Dependencies are the collaborators of the checkout service
type Dependencies struct {
	Validator *Validator
	Writer    *order.Writer
	Gateway   payment.Gateway
	Ledger    payment.Ledger
	Notifier  Notifier
	Reporter  Reporter
}

// Service runs the checkout state machine
type Service struct {
	validator      *Validator
	writer         *order.Writer
	gateway        payment.Gateway
	ledger         payment.Ledger
	notifier       Notifier
	reporter       Reporter
	pricing        PricingConfig
	currency       string
	paymentTimeout time.Duration
	lockTTL        time.Duration
	holdTTL        time.Duration
	ledgerBackoff  time.Duration
	logger         *logrus.Logger
	now            func() time.Time
}

// NewService creates a new checkout service
func NewService(deps Dependencies, cfg config.CheckoutConfig, logger *logrus.Logger) *Service {
	holdTTL := cfg.PendingPaymentTTL
	if holdTTL <= 0 {
		holdTTL = defaultHoldTTL
	}

	return &Service{
		validator:      deps.Validator,
		writer:         deps.Writer,
		gateway:        deps.Gateway,
		ledger:         deps.Ledger,
		notifier:       deps.Notifier,
		reporter:       deps.Reporter,
		pricing:        PricingFromConfig(cfg),
		currency:       cfg.Currency,
		paymentTimeout: cfg.PaymentTimeout,
		lockTTL:        cfg.PaymentTimeout + 2*cfg.InventoryTimeout + time.Minute,
		holdTTL:        holdTTL,
		ledgerBackoff:  100 * time.Millisecond,
		logger:         logger,
		now:            time.Now,
	}
}

// Pricing returns the pricing rules in effect
func (s *Service) Pricing() PricingConfig {
	return s.pricing
}

// Quote computes totals for a cart with its own stored prices, for display only
func (s *Service) Quote(c *cart.Cart) Totals {
	return Calculate(c.Items, s.pricing)
}

// attempt tracks the state of a single checkout
type attempt struct {
	state State
}

func (a *attempt) to(next State) {
	if !a.state.CanTransitionTo(next) {
		panic(fmt.Sprintf("%v: %s -> %s", ErrIllegalTransition, a.state, next))
	}
	a.state = next
}

// Checkout validates the cart, charges the customer and persists the order.
// Before anything else the idempotency key is locked and checked: a payment
// captured by an earlier attempt is persisted again without validating or
// charging, and a key that already has an order returns that order.
func (s *Service) Checkout(ctx context.Context, req *Request) (*Result, error) {
	a := &attempt{state: StateIdle}
	result := &Result{State: StateIdle}

	if req.IdempotencyKey == "" {
		return result, ErrIdempotencyKey
	}

	locked, err := s.ledger.Lock(ctx, req.IdempotencyKey, s.lockTTL)
	if err != nil {
		return result, err
	}
	if !locked {
		return result, payment.ErrCheckoutInProgress
	}
	keepLock := false
	defer func() {
		if keepLock {
			return
		}
		if err := s.ledger.Unlock(context.WithoutCancel(ctx), req.IdempotencyKey); err != nil {
			s.logger.WithError(err).WithField("checkout_key", req.IdempotencyKey).Warn("Failed to release checkout lock")
		}
	}()

	pending, err := s.ledger.Get(ctx, req.IdempotencyKey)
	switch {
	case err == nil:
		return s.resume(context.WithoutCancel(ctx), a, result, req, pending)
	case !errors.Is(err, payment.ErrPendingPaymentNotFound):
		return result, fmt.Errorf("failed to check pending payment: %w", err)
	}

	existing, err := s.writer.Find(ctx, req.IdempotencyKey)
	switch {
	case err == nil:
		a.to(StateCompleted)
		result.State = a.state
		result.Order = existing
		result.PaymentReference = existing.PaymentReference
		result.Resumed = true

		s.logger.WithFields(logrus.Fields{
			"checkout_key": req.IdempotencyKey,
			"order_number": existing.OrderNumber,
		}).Info("Checkout key already has an order")
		return result, nil
	case !errors.Is(err, order.ErrOrderNotFound):
		return result, fmt.Errorf("failed to check existing order: %w", err)
	}

	if req.Cart == nil || req.Cart.IsEmpty() {
		return result, ErrEmptyCart
	}
	if err := order.ValidateContact(req.Customer, req.Shipping); err != nil {
		return result, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"checkout_key": req.IdempotencyKey,
		"items":        req.Cart.Len(),
	})

	a.to(StateValidating)
	result.State = a.state
	validated, err := s.validator.Validate(ctx, req.Cart)
	if err != nil {
		a.to(StateValidationFailed)
		result.State = a.state
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			result.Corrections = validationErr.Corrections
		}
		log.WithError(err).Info("Checkout validation failed")
		return result, err
	}
	result.Corrections = validated.Corrections

	a.to(StateComputing)
	totals := Calculate(validated.Items, s.pricing)
	result.Totals = &totals
	result.State = a.state

	a.to(StateAwaitingPayment)
	result.State = a.state
	charge, err := s.charge(ctx, req, totals)
	if err != nil {
		a.to(StatePaymentFailed)
		result.State = a.state
		log.WithError(err).WithField("amount", totals.Total.String()).Warn("Checkout payment failed")
		return result, err
	}

	// Money has moved. Nothing below may be abandoned because the caller went away.
	ctx = context.WithoutCancel(ctx)
	a.to(StatePaymentConfirmed)
	result.State = a.state
	result.PaymentReference = charge.Reference

	draft := s.buildOrder(req, validated, totals, charge.Reference)
	recordErr := s.recordPending(ctx, req.IdempotencyKey, draft)
	if recordErr != nil {
		log.WithError(recordErr).WithField("payment_reference", charge.Reference).Error("Failed to record pending payment")
	}

	result, err = s.persist(ctx, a, result, req, draft)
	if err != nil && recordErr != nil {
		// Nothing remembers this payment, so a retry would charge again.
		// Keep the key locked until support has recovered it.
		keepLock = true
		if holdErr := s.ledger.Hold(ctx, req.IdempotencyKey, s.holdTTL); holdErr != nil {
			log.WithError(holdErr).Error("Failed to hold checkout lock for unrecorded payment")
		}
		log.WithField("payment_reference", charge.Reference).Error("🚨 Checkout key locked until the payment is recovered")
	}
	return result, err
}

func (s *Service) charge(ctx context.Context, req *Request, totals Totals) (*payment.ChargeResult, error) {
	if s.paymentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.paymentTimeout)
		defer cancel()
	}

	// Each attempt gets its own key so a retry after a decline is a new charge.
	chargeKey := req.IdempotencyKey + ":" + uuid.NewString()

	charge, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		Amount:         totals.Total,
		Currency:       s.currency,
		IdempotencyKey: chargeKey,
		Metadata: map[string]string{
			"checkout_key":   req.IdempotencyKey,
			"customer_email": req.Customer.Email,
			"item_count":     strconv.Itoa(req.Cart.ItemCount()),
		},
	})
	if err != nil {
		return nil, &PaymentError{Status: payment.StatusError, Err: err}
	}
	if charge.Status != payment.StatusSucceeded {
		var reason error
		if charge.Message != "" {
			reason = errors.New(charge.Message)
		}
		return nil, &PaymentError{Status: charge.Status, Reference: charge.Reference, Err: reason}
	}
	return charge, nil
}

func (s *Service) buildOrder(req *Request, validated *ValidatedCart, totals Totals, reference string) *order.Order {
	items := make([]order.OrderItem, len(validated.Items))
	for i, item := range validated.Items {
		items[i] = order.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.Subtotal().Round(2),
		}
	}

	return &order.Order{
		ID:               uuid.NewString(),
		CheckoutKey:      req.IdempotencyKey,
		UserID:           req.UserID,
		Status:           order.OrderStatusProcessing,
		SubtotalAmount:   totals.Subtotal,
		TaxAmount:        totals.Tax,
		ShippingAmount:   totals.Shipping,
		TotalAmount:      totals.Total,
		Currency:         s.currency,
		PaymentReference: reference,
		Customer:         req.Customer,
		ShippingAddress:  req.Shipping,
		Items:            items,
	}
}

func (s *Service) recordPending(ctx context.Context, key string, draft *order.Order) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode order draft: %w", err)
	}

	pending := &payment.PendingPayment{
		Key:        key,
		Reference:  draft.PaymentReference,
		Amount:     draft.TotalAmount,
		Currency:   draft.Currency,
		Draft:      data,
		CapturedAt: s.now().UTC(),
	}

	backoff := s.ledgerBackoff
	for attempt := 1; ; attempt++ {
		err = s.ledger.Put(ctx, pending)
		if err == nil || attempt == ledgerAttempts {
			return err
		}
		time.Sleep(backoff)
		backoff *= 2
	}
}

// resume persists an order whose payment was captured by an earlier attempt
func (s *Service) resume(ctx context.Context, a *attempt, result *Result, req *Request, pending *payment.PendingPayment) (*Result, error) {
	var draft order.Order
	if err := json.Unmarshal(pending.Draft, &draft); err != nil {
		return result, fmt.Errorf("failed to decode order draft for payment %s: %w", pending.Reference, err)
	}
	draft.PaymentReference = pending.Reference
	draft.CheckoutKey = pending.Key

	s.logger.WithFields(logrus.Fields{
		"checkout_key":      pending.Key,
		"payment_reference": pending.Reference,
		"captured_at":       pending.CapturedAt,
	}).Info("Resuming checkout with captured payment")

	totals := Totals{
		Subtotal: draft.SubtotalAmount,
		Tax:      draft.TaxAmount,
		Shipping: draft.ShippingAmount,
		Total:    draft.TotalAmount,
	}
	result.Totals = &totals
	result.PaymentReference = pending.Reference
	result.Resumed = true

	return s.persist(ctx, a, result, req, &draft)
}

func (s *Service) persist(ctx context.Context, a *attempt, result *Result, req *Request, draft *order.Order) (*Result, error) {
	log := s.logger.WithFields(logrus.Fields{
		"checkout_key":      req.IdempotencyKey,
		"payment_reference": draft.PaymentReference,
	})

	a.to(StatePersisting)
	result.State = a.state

	persisted, err := s.writer.Write(ctx, draft)
	if err != nil {
		return s.persistenceFailed(ctx, a, result, req, draft, err)
	}
	if persisted.PaymentReference != draft.PaymentReference {
		conflict := fmt.Errorf("%w: order %s was paid by %s", ErrCheckoutKeyConflict, persisted.OrderNumber, persisted.PaymentReference)
		return s.persistenceFailed(ctx, a, result, req, draft, conflict)
	}
	result.Order = persisted

	result.DecrementErrors = s.writer.DecrementStock(ctx, persisted.Items)

	if err := s.ledger.Delete(ctx, req.IdempotencyKey); err != nil {
		log.WithError(err).Warn("Failed to clear pending payment")
	}

	if req.Cart != nil {
		req.Cart.Clear()
	}
	a.to(StateCompleted)
	result.State = a.state

	log.WithFields(logrus.Fields{
		"order_number":       persisted.OrderNumber,
		"total":              persisted.TotalAmount.String(),
		"decrement_failures": len(result.DecrementErrors),
	}).Info("✅ Checkout completed")

	if s.notifier != nil {
		if err := s.notifier.OrderConfirmed(ctx, persisted); err != nil {
			log.WithError(err).Warn("Failed to send order confirmation")
		}
	}

	return result, nil
}

// persistenceFailed reports a captured payment that has no order of its own
func (s *Service) persistenceFailed(ctx context.Context, a *attempt, result *Result, req *Request, draft *order.Order, err error) (*Result, error) {
	a.to(StatePersistenceFailed)
	result.State = a.state

	log := s.logger.WithFields(logrus.Fields{
		"checkout_key":      req.IdempotencyKey,
		"payment_reference": draft.PaymentReference,
		"amount":            draft.TotalAmount.String(),
	})
	log.WithError(err).Error("🚨 Payment captured but order was not saved, manual recovery required")

	if s.reporter != nil {
		incident := Incident{
			CheckoutKey:      req.IdempotencyKey,
			PaymentReference: draft.PaymentReference,
			Amount:           draft.TotalAmount,
			Currency:         draft.Currency,
			Customer:         draft.Customer,
			Err:              err,
			OccurredAt:       s.now().UTC(),
		}
		if reportErr := s.reporter.PersistenceFailed(ctx, incident); reportErr != nil {
			log.WithError(reportErr).Error("Failed to report persistence failure")
		}
	}

	return result, &PersistenceError{
		PaymentReference: draft.PaymentReference,
		CheckoutKey:      req.IdempotencyKey,
		Err:              err,
	}
}
