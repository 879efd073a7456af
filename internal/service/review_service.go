package service

import (
	"context"
	"errors"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrBadReviewStatus  = errors.New("status must be one of: pending, approved, hidden")
	ErrBadReviewProduct = errors.New("invalid product_id")
)

type ReviewService interface {
	List(productID, status string) ([]model.Review, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus, actor *events.Actor) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID, actor *events.Actor) error
}

type reviewService struct {
	repo repository.ReviewRepository
	pub  events.Publisher
}

func NewReviewService(repo repository.ReviewRepository, pub events.Publisher) ReviewService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &reviewService{repo: repo, pub: pub}
}

func validReviewStatus(s model.ReviewStatus) bool {
	switch s {
	case model.ReviewPending, model.ReviewApproved, model.ReviewHidden:
		return true
	}
	return false
}

// List filters by product and status; empty arguments match everything.
func (s *reviewService) List(productID, status string) ([]model.Review, error) {
	var filter repository.ReviewFilter
	if productID != "" {
		id, err := uuid.Parse(productID)
		if err != nil {
			return nil, ErrBadReviewProduct
		}
		filter.ProductID = &id
	}
	if status != "" {
		filter.Status = model.ReviewStatus(status)
		if !validReviewStatus(filter.Status) {
			return nil, ErrBadReviewStatus
		}
	}
	return s.repo.FindAll(filter)
}

func (s *reviewService) SetStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus, actor *events.Actor) (*model.Review, error) {
	if !validReviewStatus(status) {
		return nil, ErrBadReviewStatus
	}
	if err := s.repo.UpdateStatus(id, status, actorID(actor)); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	review, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.ActionUpdated, review, actor)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID, actor *events.Actor) error {
	if err := s.repo.Delete(id, actorID(actor)); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	s.publish(ctx, events.ActionDeleted, map[string]string{"id": id.String()}, actor)
	return nil
}

func (s *reviewService) publish(ctx context.Context, action string, data interface{}, actor *events.Actor) {
	if err := s.pub.Publish(ctx, events.New(events.TypeReview, action, data, actor, "")); err != nil {
		logger.FromContext(ctx).Warn("publish review event failed", zap.Error(err))
	}
}
