// Package events fans domain changes out to live admin screens and to other
// services.
package events

import (
	"context"
	"errors"
	"time"
)

// Event types and actions.
const (
	TypeProduct = "product"
	TypeCatalog = "catalog"
	TypeSlide   = "slide"
	TypeReview  = "review"
	TypeOrder   = "order"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionChanged = "changed"
)

// Actor identifies who caused an event.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data,omitempty"`
	User    *Actor      `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
	At      time.Time   `json:"at"`
}

// New stamps an event with the current time.
func New(typ, action string, data interface{}, user *Actor, message string) Event {
	return Event{Type: typ, Action: action, Data: data, User: user, Message: message, At: time.Now().UTC()}
}

// RoutingKey is the topic key, e.g. "product.created".
func (e Event) RoutingKey() string {
	return e.Type + "." + e.Action
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
