// Package fallback runs a store operation against an ordered list of field
// sets, moving to the next one only when the store rejects the statement
// because its schema does not match.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// FieldSet is one tier: the columns a statement writes or reads and the
// columns it returns.
type FieldSet struct {
	Name      string
	Columns   []string
	Returning []string
}

// mismatchCodes are the SQLSTATE codes raised when a statement refers to
// columns, types or operators the live schema does not have.
var mismatchCodes = map[string]struct{}{
	"42703": {}, // undefined_column
	"42804": {}, // datatype_mismatch
	"42846": {}, // cannot_coerce
	"42883": {}, // undefined_function
	"22P02": {}, // invalid_text_representation
}

// IsSchemaMismatch reports whether err means the statement does not fit the
// store's schema.
func IsSchemaMismatch(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := mismatchCodes[pgErr.Code]
		return ok
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		_, ok := mismatchCodes[string(pqErr.Code)]
		return ok
	}
	return false
}

// Run calls attempt with each field set in order. A schema mismatch moves on
// to the next set; any other error, or the last set's error, is returned.
func Run[T any](ctx context.Context, log *zap.Logger, op string, sets []FieldSet, attempt func(ctx context.Context, fs FieldSet) (T, error)) (T, error) {
	var zero T
	if len(sets) == 0 {
		return zero, fmt.Errorf("%s: no field sets", op)
	}

	for i, fs := range sets {
		res, err := attempt(ctx, fs)
		if err == nil {
			if i > 0 {
				log.Info("fallback tier succeeded", zap.String("op", op), zap.String("tier", fs.Name))
			}
			return res, nil
		}
		if !IsSchemaMismatch(err) || i == len(sets)-1 {
			return zero, err
		}
		log.Warn("fallback tier rejected by schema",
			zap.String("op", op),
			zap.String("tier", fs.Name),
			zap.String("next", sets[i+1].Name),
			zap.Error(err),
		)
	}
	return zero, fmt.Errorf("%s: unreachable", op)
}
