package database

import (
	"testing"

	"go-catalog-admin/pkg/config"
)

func TestDSN(t *testing.T) {
	if got := DSN(config.DatabaseConfig{URL: "postgres://u:p@h/db"}); got != "postgres://u:p@h/db" {
		t.Fatalf("DSN() = %q, want URL passthrough", got)
	}
	got := DSN(config.DatabaseConfig{Host: "h", User: "u", Password: "p", Name: "db", Port: "5432", TimeZone: "UTC"})
	want := "host=h user=u password=p dbname=db port=5432 sslmode=disable TimeZone=UTC"
	if got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}
