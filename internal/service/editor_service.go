package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go-catalog-admin/internal/events"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/search"
	"go-catalog-admin/internal/storage"
	"go-catalog-admin/internal/variant"
	"go-catalog-admin/pkg/logger"
	"go-catalog-admin/pkg/metrics"
	"go-catalog-admin/pkg/slug"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionNotFound = errors.New("editor session not found or expired")
	ErrImageNotFound   = errors.New("image not found")
)

const (
	DefaultSessionTTL = 30 * time.Minute
	uploadConcurrency = 4
)

// Upload error codes.
const (
	CodeUploadFailed   = "upload_failed"
	CodeUploadCanceled = "upload_canceled"
)

// CatalogSource is what editor sessions need from the catalog service.
type CatalogSource interface {
	List(ctx context.Context) (variant.Catalog, error)
	Subscribe(fn func(variant.Catalog)) (unsubscribe func())
}

// UploadError describes one image that could not be stored.
type UploadError struct {
	Filename string `json:"filename"`
	Color    string `json:"color"`
	Message  string `json:"message"`
	Code     string `json:"code"`
}

// SubmitError is a failure past validation. UploadErrors is set when images
// could not be stored, LegacyErrors when the product could not be saved. In
// both cases nothing was persisted and the session is kept.
type SubmitError struct {
	Message      string
	UploadErrors []UploadError
	LegacyErrors []string
}

func (e *SubmitError) Error() string { return e.Message }

// SessionView is what every editor call returns.
type SessionView struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	variant.View
}

type EditorService interface {
	Open(ctx context.Context, productID *uuid.UUID) (*SessionView, error)
	Get(id string) (*SessionView, error)
	Discard(id string) error
	ToggleSize(id, size string) (*SessionView, error)
	ToggleColor(id, color string) (*SessionView, error)
	SetStock(id, size, color, raw string) (*SessionView, error)
	BulkSetStock(id string, value int) (*SessionView, error)
	SetWeight(id, size, color, raw string) (*SessionView, error)
	SetVariantPrice(id, size, color, raw string) (*SessionView, error)
	LoadVariants(id string, vs []variant.Variant) (*SessionView, error)
	PatchFields(id string, patch variant.FieldPatch) (*SessionView, error)
	AddImages(id, color string, files []variant.PendingFile) (*SessionView, []variant.ImageRejection, error)
	RemoveImage(id, color string, index int) (*SessionView, error)
	Validate(id string) (*SessionView, error)
	Submit(ctx context.Context, id string, actor *events.Actor) (*model.Product, error)
	RunJanitor(ctx context.Context)
}

type EditorDeps struct {
	Products   repository.ProductRepository
	Catalog    CatalogSource
	Storage    storage.Storage
	Index      search.Indexer
	Events     events.Publisher
	Metrics    *metrics.EditorMetrics
	SessionTTL time.Duration
}

type session struct {
	id          string
	mu          sync.Mutex
	engine      *variant.Engine
	closed      bool
	unsubscribe func()
	lastUsed    atomic.Int64
}

func (s *session) touch(now time.Time) { s.lastUsed.Store(now.UnixNano()) }

func (s *session) idleSince() time.Time { return time.Unix(0, s.lastUsed.Load()) }

type editorService struct {
	products repository.ProductRepository
	catalog  CatalogSource
	store    storage.Storage
	index    search.Indexer
	pub      events.Publisher
	metrics  *metrics.EditorMetrics
	tracer   trace.Tracer
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewEditorService(d EditorDeps) EditorService {
	return newEditorService(d)
}

func newEditorService(d EditorDeps) *editorService {
	if d.Index == nil {
		d.Index = search.Nop{}
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = DefaultSessionTTL
	}
	return &editorService{
		products: d.Products,
		catalog:  d.Catalog,
		store:    d.Storage,
		index:    d.Index,
		pub:      d.Events,
		metrics:  d.Metrics,
		tracer:   otel.Tracer("go-catalog-admin/editor"),
		ttl:      d.SessionTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Open starts a session for a new product, or for an existing one when
// productID is set.
func (s *editorService) Open(ctx context.Context, productID *uuid.UUID) (*SessionView, error) {
	log := logger.FromContext(ctx)
	cat, err := s.catalog.List(ctx)
	if err != nil {
		log.Warn("catalog only partly loaded", zap.Error(err))
	}

	engine := variant.New(cat)
	if productID != nil {
		p, err := s.products.FindByID(ctx, *productID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, variant.ErrMissingProduct
		}
		if err != nil {
			return nil, err
		}
		engine.Hydrate(p)
	}

	sess := &session{id: uuid.NewString(), engine: engine}
	sess.touch(s.now())
	sess.unsubscribe = s.catalog.Subscribe(func(c variant.Catalog) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if !sess.closed {
			sess.engine.SetCatalog(c)
		}
	})

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.metrics.SessionOpened()

	log.Debug("editor session opened", zap.String("session_id", sess.id), zap.Stringer("state", engine.State()))
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

func (s *editorService) get(id string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// with runs fn on the session's engine under the session lock.
func (s *editorService) with(id string, fn func(e *variant.Engine) error) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, ErrSessionNotFound
	}
	if err := fn(sess.engine); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *editorService) view(sess *session) *SessionView {
	return &SessionView{
		ID:        sess.id,
		ExpiresAt: sess.idleSince().Add(s.ttl),
		View:      sess.engine.View(),
	}
}

func (s *editorService) Get(id string) (*SessionView, error) {
	return s.with(id, func(*variant.Engine) error { return nil })
}

func (s *editorService) Discard(id string) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.close(sess)
	return nil
}

// close removes the session and drops its edits. The caller holds sess.mu.
func (s *editorService) close(sess *session) {
	if sess.closed {
		return
	}
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	sess.closed = true
	sess.unsubscribe()
	sess.engine.Discard()
	s.metrics.SessionClosed()
}

func (s *editorService) ToggleSize(id, size string) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.ToggleSize(size)
		return nil
	})
}

func (s *editorService) ToggleColor(id, color string) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.ToggleColor(color)
		return nil
	})
}

// SetStock ignores cells outside the current selection and still returns the
// view.
func (s *editorService) SetStock(id, size, color, raw string) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.SetStock(size, color, raw)
		return nil
	})
}

func (s *editorService) BulkSetStock(id string, value int) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.BulkSetStock(value)
		return nil
	})
}

func (s *editorService) SetWeight(id, size, color, raw string) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.SetWeight(size, color, raw)
		return nil
	})
}

func (s *editorService) SetVariantPrice(id, size, color, raw string) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.SetVariantPrice(size, color, raw)
		return nil
	})
}

func (s *editorService) LoadVariants(id string, vs []variant.Variant) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.LoadVariants(vs)
		return nil
	})
}

func (s *editorService) PatchFields(id string, patch variant.FieldPatch) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.ApplyPatch(patch)
		return nil
	})
}

func (s *editorService) AddImages(id, color string, files []variant.PendingFile) (*SessionView, []variant.ImageRejection, error) {
	var rejected []variant.ImageRejection
	v, err := s.with(id, func(e *variant.Engine) error {
		rejected = e.AddImages(color, files)
		return nil
	})
	return v, rejected, err
}

func (s *editorService) RemoveImage(id, color string, index int) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		if !e.RemoveImage(color, index) {
			return ErrImageNotFound
		}
		return nil
	})
}

// Validate runs every check without an identity; the errors are part of the
// returned view.
func (s *editorService) Validate(id string) (*SessionView, error) {
	return s.with(id, func(e *variant.Engine) error {
		e.Validate()
		return nil
	})
}

// Submit finalizes the session, uploads its pending images and saves the
// product. Any failed upload aborts the save: the objects stored so far are
// removed and the session stays open for another attempt.
func (s *editorService) Submit(ctx context.Context, id string, actor *events.Actor) (*model.Product, error) {
	ctx, span := s.tracer.Start(ctx, "editor.Submit", trace.WithAttributes(attribute.String("editor.session_id", id)))
	defer span.End()
	start := s.now()
	log := logger.FromContext(ctx).With(zap.String("session_id", id))

	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, ErrSessionNotFound
	}

	payload, err := sess.engine.Finalize(actorID(actor))
	if err != nil {
		outcome := metrics.OutcomeInvalid
		if variant.IsPrecondition(err) {
			outcome = metrics.OutcomePrecondition
		}
		s.metrics.Submitted(outcome, start)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	productID := uuid.New()
	var previous *model.Product
	if payload.ProductID != "" {
		if productID, err = uuid.Parse(payload.ProductID); err != nil {
			s.metrics.Submitted(metrics.OutcomePrecondition, start)
			return nil, variant.ErrMissingProduct
		}
		previous, err = s.products.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrProductNotFound) {
			s.metrics.Submitted(metrics.OutcomePrecondition, start)
			return nil, variant.ErrMissingProduct
		}
		if err != nil {
			s.metrics.Submitted(metrics.OutcomePersistError, start)
			return nil, &SubmitError{Message: "Failed to load product", LegacyErrors: []string{err.Error()}}
		}
	}
	span.SetAttributes(attribute.String("product.id", productID.String()), attribute.Int("editor.files", len(payload.Files)))

	uploaded, uploadErrs := s.upload(ctx, productID, payload)
	if len(uploadErrs) > 0 {
		s.removeObjects(ctx, uploadedKeys(uploaded))
		s.metrics.Submitted(metrics.OutcomeUploadFailed, start)
		span.SetStatus(codes.Error, metrics.OutcomeUploadFailed)
		log.Warn("image upload failed, product not saved", zap.Int("failed", len(uploadErrs)))
		return nil, &SubmitError{
			Message:      fmt.Sprintf("%d of %d images failed to upload", len(uploadErrs), len(payload.Files)),
			UploadErrors: uploadErrs,
		}
	}

	product := buildProduct(productID, payload, uploaded, actorID(actor))
	if err := s.persist(ctx, product, previous); err != nil {
		s.removeObjects(ctx, uploadedKeys(uploaded))
		s.metrics.Submitted(metrics.OutcomePersistError, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, metrics.OutcomePersistError)
		log.Error("save product failed", zap.Error(err))
		return nil, &SubmitError{Message: "Failed to save product", LegacyErrors: []string{err.Error()}}
	}

	if previous != nil {
		s.removeObjects(ctx, orphanedKeys(previous.Images, product.Images))
	}
	s.close(sess)
	s.metrics.Submitted(metrics.OutcomeSaved, start)

	action, verb := events.ActionCreated, "created"
	if previous != nil {
		action, verb = events.ActionUpdated, "updated"
	}
	s.announce(ctx, product, action, actor, verb)
	log.Info("product saved", zap.String("product_id", product.ID.String()), zap.String("action", action))
	return product, nil
}

// upload stores every pending file. Failures are collected per file and never
// stop the other uploads.
func (s *editorService) upload(ctx context.Context, productID uuid.UUID, p *variant.Payload) ([]variant.Uploaded, []UploadError) {
	ctx, span := s.tracer.Start(ctx, "editor.upload", trace.WithAttributes(attribute.Int("files", len(p.Files))))
	defer span.End()

	uploaded := make([]variant.Uploaded, len(p.Files))
	failed := make([]*UploadError, len(p.Files))

	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for i := range p.Files {
		g.Go(func() error {
			f, color := p.Files[i], p.FileColors[i]
			res, err := s.store.Put(ctx, bytes.NewReader(f.Data), storage.PutInput{
				Filename:    f.Filename,
				ContentType: f.ContentType,
				Size:        f.Size,
				Folder:      "products/" + productID.String() + "/" + slug.FromName(color),
			})
			s.metrics.Uploaded(err == nil)
			if err != nil {
				code := CodeUploadFailed
				if ctx.Err() != nil {
					code = CodeUploadCanceled
				}
				failed[i] = &UploadError{Filename: f.Filename, Color: color, Message: err.Error(), Code: code}
				return nil
			}
			uploaded[i] = variant.Uploaded{URL: res.URL, Key: res.Key}
			return nil
		})
	}
	_ = g.Wait()

	var errs []UploadError
	for _, e := range failed {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d uploads failed", len(errs)))
	}
	return uploaded, errs
}

func (s *editorService) persist(ctx context.Context, product, previous *model.Product) error {
	ctx, span := s.tracer.Start(ctx, "editor.persist")
	defer span.End()

	exclude := uuid.Nil
	if previous != nil {
		exclude = previous.ID
	}
	unique, err := slug.Unique(slug.FromName(product.Name), func(candidate string) (bool, error) {
		return s.products.SlugExists(ctx, candidate, exclude)
	})
	if err != nil {
		return err
	}
	product.Slug = unique

	if previous == nil {
		return s.products.Create(ctx, product)
	}
	product.CreatedBy = previous.CreatedBy
	product.CreatedByUserID = previous.CreatedByUserID
	product.CreatedAt = previous.CreatedAt
	return s.products.Update(ctx, product)
}

func (s *editorService) announce(ctx context.Context, p *model.Product, action string, actor *events.Actor, verb string) {
	log := logger.FromContext(ctx)
	if err := s.index.Index(ctx, p); err != nil {
		log.Warn("index product failed", zap.String("product_id", p.ID.String()), zap.Error(err))
	}

	name := "someone"
	if actor != nil && actor.Name != "" {
		name = actor.Name
	}
	data := map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"slug":        p.Slug,
		"price":       p.Price,
		"total_stock": p.TotalStock,
		"variants":    len(p.Variants),
	}
	msg := fmt.Sprintf("%s %s product '%s'", name, verb, p.Name)
	if err := s.pub.Publish(ctx, events.New(events.TypeProduct, action, data, actor, msg)); err != nil {
		log.Warn("publish product event failed", zap.Error(err))
	}
}

func (s *editorService) removeObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			logger.FromContext(ctx).Warn("delete stored image failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// RunJanitor closes idle sessions until ctx is done.
func (s *editorService) RunJanitor(ctx context.Context) {
	interval := max(s.ttl/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.expire(s.now()); n > 0 {
				logger.GetLogger().Debug("expired editor sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *editorService) expire(now time.Time) int {
	s.mu.Lock()
	var idle []*session
	for _, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			idle = append(idle, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.mu.Lock()
		s.close(sess)
		sess.mu.Unlock()
	}
	return len(idle)
}

func buildProduct(id uuid.UUID, p *variant.Payload, uploaded []variant.Uploaded, identity string) *model.Product {
	product := &model.Product{
		Name:            p.Name,
		Category:        p.Category,
		Description:     p.Description,
		OriginalPrice:   p.OriginalPrice,
		SalePrice:       p.SalePrice,
		OnSale:          p.OnSale,
		Price:           p.Price,
		TotalStock:      p.TotalStock,
		UpdatedByUserID: &identity,
		CreatedByUserID: &identity,
		Variants:        make([]model.ProductVariant, 0, len(p.Variants)),
		Images:          p.ProductImages(uploaded),
	}
	product.ID = id
	product.CreatedBy = identity
	product.UpdatedBy = identity
	for _, v := range p.Variants {
		product.Variants = append(product.Variants, model.ProductVariant{
			ProductID: id,
			Size:      v.Size,
			Color:     v.Color,
			Stock:     v.Stock,
			Weight:    v.Weight,
			Price:     v.Price,
			SKU:       v.SKU,
		})
	}
	for i := range product.Images {
		product.Images[i].ProductID = id
	}
	return product
}

func uploadedKeys(uploaded []variant.Uploaded) []string {
	var keys []string
	for _, u := range uploaded {
		if u.Key != "" {
			keys = append(keys, u.Key)
		}
	}
	return keys
}

// orphanedKeys lists the stored objects of before that after no longer uses.
func orphanedKeys(before, after []model.ProductImage) []string {
	kept := make(map[string]bool, len(after))
	for _, img := range after {
		kept[img.StorageKey] = true
	}
	var keys []string
	for _, img := range before {
		if img.StorageKey != "" && !kept[img.StorageKey] {
			keys = append(keys, img.StorageKey)
		}
	}
	return keys
}
