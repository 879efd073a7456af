package model

import (
	"strings"
	"testing"
	"time"
)

func TestOrderStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderPaid, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderPaid, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderPaid, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderPaid, OrderPaid, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestUserPassword(t *testing.T) {
	var u User
	if err := u.SetPassword("s3cret!"); err != nil {
		t.Fatal(err)
	}
	if u.Password == "s3cret!" {
		t.Fatal("password stored in clear text")
	}
	if !u.CheckPassword("s3cret!") {
		t.Fatal("CheckPassword rejected the right password")
	}
	if u.CheckPassword("wrong") {
		t.Fatal("CheckPassword accepted a wrong password")
	}
}

func TestUserPrivilegeCodesMergesRole(t *testing.T) {
	u := User{
		Privileges: []Privilege{{Code: "product:view"}, {Code: "order:view"}},
		Role:       &Role{Privileges: []Privilege{{Code: "catalog:manage"}, {Code: "product:view"}}},
	}
	got := u.PrivilegeCodes()
	want := []string{"catalog:manage", "order:view", "product:view"}
	if len(got) != len(want) {
		t.Fatalf("PrivilegeCodes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PrivilegeCodes() = %v, want %v", got, want)
		}
	}
	if !u.HasPrivilege("catalog:manage") || u.HasPrivilege("order:update") {
		t.Fatal("HasPrivilege mismatch")
	}
}

func TestUserIsOnline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seen := now.Add(-2 * time.Minute)
	u := User{LastSeenAt: &seen}
	if !u.IsOnline(now, PresenceWindow) {
		t.Fatal("user seen 2m ago is offline")
	}
	if u.IsOnline(now.Add(10*time.Minute), PresenceWindow) {
		t.Fatal("user seen 12m ago is online")
	}
	if (&User{}).IsOnline(now, PresenceWindow) {
		t.Fatal("user never seen is online")
	}
}

func TestDefaultGrant(t *testing.T) {
	all := DefaultPrivileges
	if got := DefaultGrant(RoleMasterAdmin, all); len(got) != len(all) {
		t.Fatalf("master admin got %d of %d privileges", len(got), len(all))
	}
	for _, p := range DefaultGrant(RoleAdmin, all) {
		if strings.HasPrefix(p.Code, "user:") {
			t.Fatalf("admin granted %s", p.Code)
		}
	}
	editor := User{Role: &Role{Privileges: DefaultGrant(RoleCatalogEditor, all)}}
	if !editor.HasPrivilege("product:create") || editor.HasPrivilege("order:update") || editor.HasPrivilege("product:delete") {
		t.Fatalf("catalog editor grant = %v", editor.PrivilegeCodes())
	}
	if got := DefaultGrant("GUEST", all); len(got) != 0 {
		t.Fatalf("unknown role got %v", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{&Size{}, KindSize},
		{&Color{}, KindColor},
		{&Category{}, KindCategory},
		{Size{}, ""},
		{&Product{}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := KindOf(tt.in); got != tt.want {
			t.Errorf("KindOf(%T) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
