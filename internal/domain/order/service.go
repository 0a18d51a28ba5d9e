// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Service handles order lookups and status changes
type Service struct {
	store  Store
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(store Store, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// UpdateStatusRequest represents an order status change
type UpdateStatusRequest struct {
	Status  OrderStatus `json:"status" binding:"required"`
	Comment string      `json:"comment"`
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.store.GetByID(ctx, id)
}

// GetOrderByNumber retrieves a single order by order number
func (s *Service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.store.GetByNumber(ctx, orderNumber)
}

// UpdateOrderStatus moves an order along processing -> completed|failed
func (s *Service) UpdateOrderStatus(ctx context.Context, orderNumber string, req *UpdateStatusRequest) (*Order, error) {
	o, err := s.store.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: from %s to %s", ErrInvalidStatusChange, o.Status, req.Status)
	}

	if err := s.store.UpdateStatus(ctx, o.ID, req.Status, req.Comment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"from":         o.Status,
		"to":           req.Status,
	}).Info("Order status updated")

	return s.store.GetByID(ctx, o.ID)
}
