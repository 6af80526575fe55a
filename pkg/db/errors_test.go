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
	pgxDup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_certificates_user_course"}
	pqDup := &pq.Error{Code: "23505", Constraint: "certificates_certificate_id_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx duplicate", err: pgxDup, want: true},
		{name: "pgx duplicate wrapped", err: fmt.Errorf("insert: %w", pgxDup), want: true},
		{name: "pgx duplicate scoped match", err: pgxDup, constraint: "idx_certificates_user_course", want: true},
		{name: "pgx duplicate scoped mismatch", err: pgxDup, constraint: "other_idx", want: false},
		{name: "pgx other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "pq duplicate", err: pqDup, want: true},
		{name: "pq duplicate scoped", err: pqDup, constraint: "certificates_certificate_id_key", want: true},
		{name: "gorm sentinel", err: gorm.ErrDuplicatedKey, want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: certificates.certificate_id"), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tt.err, tt.constraint, got, tt.want)
			}
		})
	}
}
