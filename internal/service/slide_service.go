package service

import (
	"bytes"
	"context"
	"errors"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/storage"
	"go-catalog-admin/internal/variant"
	"go-catalog-admin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSlideNotFound = errors.New("slide not found")

type SlideRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Subtitle string `json:"subtitle" validate:"max=255"`
	Link     string `json:"link" validate:"omitempty,url"`
	Position *int   `json:"position" validate:"omitempty,gte=0"`
	IsActive *bool  `json:"is_active"`
}

type SlideService interface {
	List(activeOnly bool) ([]model.Slide, error)
	Get(id uuid.UUID) (*model.Slide, error)
	Create(ctx context.Context, req *SlideRequest, actor *events.Actor) (*model.Slide, error)
	Update(ctx context.Context, id uuid.UUID, req *SlideRequest, actor *events.Actor) (*model.Slide, error)
	SetImage(ctx context.Context, id uuid.UUID, file variant.PendingFile, actor *events.Actor) (*model.Slide, error)
	Delete(ctx context.Context, id uuid.UUID, actor *events.Actor) error
}

type slideService struct {
	repo  repository.SlideRepository
	store storage.Storage
	pub   events.Publisher
}

func NewSlideService(repo repository.SlideRepository, store storage.Storage, pub events.Publisher) SlideService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &slideService{repo: repo, store: store, pub: pub}
}

func (s *slideService) List(activeOnly bool) ([]model.Slide, error) {
	return s.repo.FindAll(activeOnly)
}

func (s *slideService) Get(id uuid.UUID) (*model.Slide, error) {
	slide, err := s.repo.FindByID(id)
	if errors.Is(err, repository.ErrSlideNotFound) {
		return nil, ErrSlideNotFound
	}
	return slide, err
}

func (s *slideService) Create(ctx context.Context, req *SlideRequest, actor *events.Actor) (*model.Slide, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	slide := &model.Slide{IsActive: true}
	if req.Position == nil {
		pos, err := s.repo.NextPosition()
		if err != nil {
			return nil, err
		}
		slide.Position = pos
	}
	applySlide(slide, req)
	slide.CreatedBy = actorID(actor)
	slide.UpdatedBy = actorID(actor)

	if err := s.repo.Create(slide); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ActionCreated, slide, actor)
	return slide, nil
}

func (s *slideService) Update(ctx context.Context, id uuid.UUID, req *SlideRequest, actor *events.Actor) (*model.Slide, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	slide, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	applySlide(slide, req)
	slide.UpdatedBy = actorID(actor)
	if err := s.repo.Update(slide); err != nil {
		return nil, err
	}
	s.publish(ctx, events.ActionUpdated, slide, actor)
	return slide, nil
}

// SetImage uploads a new slide picture and removes the previous object.
func (s *slideService) SetImage(ctx context.Context, id uuid.UUID, file variant.PendingFile, actor *events.Actor) (*model.Slide, error) {
	if err := variant.CheckImage(file); err != nil {
		return nil, &variant.ValidationError{Fields: map[string]string{"image": err.Error()}}
	}
	slide, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	res, err := s.store.Put(ctx, bytes.NewReader(file.Data), storage.PutInput{
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Folder:      "slides/" + slide.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	oldKey := slide.StorageKey
	slide.ImageURL, slide.StorageKey = res.URL, res.Key
	slide.UpdatedBy = actorID(actor)
	if err := s.repo.Update(slide); err != nil {
		s.removeObject(ctx, res.Key)
		return nil, err
	}
	s.removeObject(ctx, oldKey)
	s.publish(ctx, events.ActionUpdated, slide, actor)
	return slide, nil
}

func (s *slideService) Delete(ctx context.Context, id uuid.UUID, actor *events.Actor) error {
	slide, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id, actorID(actor)); err != nil {
		if errors.Is(err, repository.ErrSlideNotFound) {
			return ErrSlideNotFound
		}
		return err
	}
	s.removeObject(ctx, slide.StorageKey)
	s.publish(ctx, events.ActionDeleted, map[string]string{"id": id.String()}, actor)
	return nil
}

func (s *slideService) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("delete slide image failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *slideService) publish(ctx context.Context, action string, data interface{}, actor *events.Actor) {
	if err := s.pub.Publish(ctx, events.New(events.TypeSlide, action, data, actor, "")); err != nil {
		logger.FromContext(ctx).Warn("publish slide event failed", zap.Error(err))
	}
}

func applySlide(slide *model.Slide, req *SlideRequest) {
	slide.Title = req.Title
	slide.Subtitle = req.Subtitle
	slide.Link = req.Link
	if req.Position != nil {
		slide.Position = *req.Position
	}
	if req.IsActive != nil {
		slide.IsActive = *req.IsActive
	}
}

func actorID(a *events.Actor) string {
	if a == nil {
		return ""
	}
	return a.ID
}
