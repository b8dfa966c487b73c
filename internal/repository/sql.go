package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"projecthub/internal/fallback"
)

const uniqueViolation = "23505"

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func quoteColumns(prefix string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = prefix + `"` + c + `"`
	}
	return strings.Join(quoted, ", ")
}

// insertReturning inserts the field set's columns of values into table and
// scans the returned row into dest.
func insertReturning(ctx context.Context, db *gorm.DB, table string, fs fallback.FieldSet, values map[string]interface{}, dest interface{}) error {
	placeholders := make([]string, len(fs.Columns))
	args := make([]interface{}, len(fs.Columns))
	for i, col := range fs.Columns {
		v, ok := values[col]
		if !ok {
			return fmt.Errorf("insert %s: no value for column %q", table, col)
		}
		placeholders[i] = "?"
		args[i] = v
	}

	returning := "*"
	if len(fs.Returning) > 0 {
		returning = quoteColumns("", fs.Returning)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, quoteColumns("", fs.Columns), strings.Join(placeholders, ", "), returning)

	res := db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("insert %s: no row returned", table)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// likePattern builds a case-insensitive substring pattern, escaping LIKE
// wildcards in term.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
