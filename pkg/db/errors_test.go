package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_cart_lines_user_product"}
	pqErr := &pq.Error{Code: "23505", Constraint: "idx_cart_lines_user_product"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "pgx any constraint", err: fmt.Errorf("insert: %w", pgxErr), want: true},
		{name: "pgx matching constraint", err: pgxErr, constraint: "idx_cart_lines_user_product", want: true},
		{name: "pgx other constraint", err: pgxErr, constraint: "salons_slug_key", want: false},
		{name: "lib pq", err: pqErr, constraint: "idx_cart_lines_user_product", want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: cart_lines.user_id, cart_lines.product_id"), want: true},
		{name: "unrelated", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
			t.Fatalf("%s: expected %v got %v", tt.name, tt.want, got)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected wrapped record-not-found to match")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatal("unexpected match")
	}
}
