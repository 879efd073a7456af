package service

import (
	"context"
	"errors"
	"fmt"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

// TransitionError rejects a status change the order workflow does not allow.
type TransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

type OrderService interface {
	List(status string) ([]model.Order, error)
	Get(id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, actor *events.Actor) (*model.Order, error)
}

type orderService struct {
	repo repository.OrderRepository
	pub  events.Publisher
}

func NewOrderService(repo repository.OrderRepository, pub events.Publisher) OrderService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &orderService{repo: repo, pub: pub}
}

func (s *orderService) List(status string) ([]model.Order, error) {
	return s.repo.FindAll(model.OrderStatus(status))
}

func (s *orderService) Get(id uuid.UUID) (*model.Order, error) {
	order, err := s.repo.FindByID(id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, actor *events.Actor) (*model.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(status) {
		return nil, &TransitionError{From: order.Status, To: status}
	}
	if err := s.repo.UpdateStatus(id, order.Status, status, actorID(actor)); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	order.Status = status

	msg := fmt.Sprintf("order %s is now %s", order.OrderNo, status)
	if err := s.pub.Publish(ctx, events.New(events.TypeOrder, events.ActionUpdated, order, actor, msg)); err != nil {
		logger.FromContext(ctx).Warn("publish order event failed", zap.Error(err))
	}
	return order, nil
}
