package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperrors.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "accounts_tenant_code_key"}, apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperrors.ErrValidation},
		{"serialization", &pgconn.PgError{Code: "40001"}, apperrors.ErrStorageUnavailable},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, apperrors.ErrStorageUnavailable},
		{"connection failure", &pgconn.PgError{Code: "08006"}, apperrors.ErrStorageUnavailable},
		{"timeout", context.DeadlineExceeded, apperrors.ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError("op", tt.err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	assert.NoError(t, mapError("op", nil))

	syntax := &pgconn.PgError{Code: "42601"}
	err := mapError("op", syntax)
	assert.ErrorIs(t, err, syntax)
	assert.False(t, apperrors.IsRetryable(err))

	plain := errors.New("boom")
	err = mapError("load header", plain)
	assert.ErrorIs(t, err, plain)
	assert.Contains(t, err.Error(), "load header")
}

func TestIsoLevel(t *testing.T) {
	assert.Equal(t, pgx.Serializable, isoLevel(portsrepo.Serializable))
	assert.Equal(t, pgx.RepeatableRead, isoLevel(portsrepo.RepeatableRead))
	assert.Equal(t, pgx.ReadCommitted, isoLevel(portsrepo.ReadCommitted))
}
