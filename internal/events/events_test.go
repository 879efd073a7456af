package events

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestMultiPublishesToAll(t *testing.T) {
	boom := errors.New("broker down")
	a, b := &recorder{}, &recorder{err: boom}
	ev := New(TypeProduct, ActionCreated, map[string]string{"id": "1"}, nil, "")

	err := Multi{a, nil, b}.Publish(context.Background(), ev)
	if !errors.Is(err, boom) {
		t.Fatalf("Publish() error = %v, want %v", err, boom)
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatalf("deliveries = %d, %d; want 1, 1", len(a.got), len(b.got))
	}
}

func TestRoutingKey(t *testing.T) {
	if got := New(TypeCatalog, ActionChanged, nil, nil, "").RoutingKey(); got != "catalog.changed" {
		t.Fatalf("RoutingKey() = %q", got)
	}
}
