package service

import (
	"context"
	"errors"
	"testing"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"

	"github.com/google/uuid"
)

type fakeReviews struct {
	byID   map[uuid.UUID]*model.Review
	filter repository.ReviewFilter
}

func (f *fakeReviews) FindAll(filter repository.ReviewFilter) ([]model.Review, error) {
	f.filter = filter
	var out []model.Review
	for _, r := range f.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReviews) FindByID(id uuid.UUID) (*model.Review, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) UpdateStatus(id uuid.UUID, status model.ReviewStatus, updatedBy string) error {
	r, ok := f.byID[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	r.Status = status
	r.UpdatedBy = updatedBy
	return nil
}

func (f *fakeReviews) Delete(id uuid.UUID, _ string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(f.byID, id)
	return nil
}

func TestReviewList(t *testing.T) {
	productID := uuid.New()
	tests := []struct {
		name      string
		productID string
		status    string
		wantErr   error
	}{
		{"no filter", "", "", nil},
		{"by product and status", productID.String(), "approved", nil},
		{"bad product", "not-a-uuid", "", ErrBadReviewProduct},
		{"bad status", "", "spam", ErrBadReviewStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeReviews{byID: map[uuid.UUID]*model.Review{}}
			_, err := NewReviewService(repo, nil).List(tt.productID, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("List() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if string(repo.filter.Status) != tt.status {
				t.Fatalf("filter status = %q, want %q", repo.filter.Status, tt.status)
			}
			if tt.productID != "" && (repo.filter.ProductID == nil || *repo.filter.ProductID != productID) {
				t.Fatalf("filter product = %v, want %s", repo.filter.ProductID, productID)
			}
		})
	}
}

func TestReviewSetStatus(t *testing.T) {
	review := &model.Review{Rating: 4, Status: model.ReviewPending}
	review.ID = uuid.New()
	repo := &fakeReviews{byID: map[uuid.UUID]*model.Review{review.ID: review}}
	rec := &recorder{}
	svc := NewReviewService(repo, rec)
	ctx := context.Background()

	if _, err := svc.SetStatus(ctx, review.ID, "spam", nil); !errors.Is(err, ErrBadReviewStatus) {
		t.Fatalf("SetStatus(spam) error = %v, want ErrBadReviewStatus", err)
	}
	if _, err := svc.SetStatus(ctx, uuid.New(), model.ReviewHidden, nil); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("SetStatus(unknown) error = %v, want ErrReviewNotFound", err)
	}

	got, err := svc.SetStatus(ctx, review.ID, model.ReviewApproved, &events.Actor{ID: "user-1"})
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if got.Status != model.ReviewApproved || got.UpdatedBy != "user-1" {
		t.Fatalf("SetStatus() = %+v, want approved by user-1", got)
	}
	if len(rec.got) != 1 || rec.got[0].Type != events.TypeReview {
		t.Fatalf("events = %+v, want one review event", rec.got)
	}
}

func TestReviewDelete(t *testing.T) {
	review := &model.Review{Rating: 1}
	review.ID = uuid.New()
	repo := &fakeReviews{byID: map[uuid.UUID]*model.Review{review.ID: review}}
	svc := NewReviewService(repo, nil)

	if err := svc.Delete(context.Background(), review.ID, nil); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(context.Background(), review.ID, nil); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrReviewNotFound", err)
	}
}
