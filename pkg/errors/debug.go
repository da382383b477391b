package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error chain for logs. PG* fields come from the first
// Postgres error found, whether raised through pgx or lib/pq.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	out := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		out.Code = typed.Code()
	}
	for link := err; link != nil; link = errors.Unwrap(link) {
		out.Chain = append(out.Chain, fmt.Sprintf("%T: %v", link, link))
	}
	out.fillPostgres(err)
	return out
}

func (d *ErrorDump) fillPostgres(err error) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGCode, d.PGConstraint, d.PGTable = pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName
		d.PGColumn, d.PGDetail, d.PGMessage = pgxErr.ColumnName, pgxErr.Detail, pgxErr.Message
		return
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGCode, d.PGConstraint, d.PGTable = string(pqErr.Code), pqErr.Constraint, pqErr.Table
		d.PGColumn, d.PGDetail, d.PGMessage = pqErr.Column, pqErr.Detail, pqErr.Message
	}
}

// SQLSTATE classes where replaying the whole transaction can succeed.
var transientPGCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57014": true, // query_canceled
}

// IsTransient reports whether err is a store failure the caller may retry from scratch.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return transientPGCodes[Dump(err).PGCode]
	}
}

// TxFailure turns an untyped persistence error into CodeDependency and
// passes typed errors through unchanged.
func TxFailure(err error, message string) error {
	if err == nil || As(err) != nil {
		return err
	}
	wrapped := Wrap(CodeDependency, err, message)
	if IsTransient(err) {
		wrapped.WithDetails(map[string]any{"retryable": true})
	}
	return wrapped
}
