// Package catalog reads stored procedure source text from a database's
// system catalog.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/ashureev/sproc-lineage/internal/domain"
)

var (
	// ErrNotFound means the catalog has no procedure with that schema and name,
	// or its definition is NULL (e.g. encrypted modules).
	ErrNotFound = errors.New("stored procedure not found")
	// ErrInvalidIdentifier means a schema or procedure name failed validation
	// and was never sent to the database.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrQuery wraps catalog query execution failures.
	ErrQuery = errors.New("catalog query failed")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_@$#]{0,127}$`)

// ValidIdentifier reports whether name is a plain, unquoted SQL identifier.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Reader fetches procedure definitions for one dialect.
type Reader struct {
	dialect Dialect
	logger  *slog.Logger
}

// NewReader creates a reader. If logger is nil, a discard logger is used.
func NewReader(d Dialect, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{dialect: d, logger: logger}
}

// Fetch returns the source text of schema.proc verbatim.
func (r *Reader) Fetch(ctx context.Context, q Querier, schemaName, procName string) (string, error) {
	def, err := r.FetchDefinition(ctx, q, schemaName, procName)
	if err != nil {
		return "", err
	}
	return def.SourceText, nil
}

// FetchDefinition returns the first catalog row matching schema and name.
func (r *Reader) FetchDefinition(ctx context.Context, q Querier, schemaName, procName string) (domain.ProcedureDefinition, error) {
	if !ValidIdentifier(schemaName) {
		return domain.ProcedureDefinition{}, fmt.Errorf("%w: schema %q", ErrInvalidIdentifier, schemaName)
	}
	if !ValidIdentifier(procName) {
		return domain.ProcedureDefinition{}, fmt.Errorf("%w: procedure %q", ErrInvalidIdentifier, procName)
	}

	r.logger.Debug("querying procedure definition",
		slog.String("dialect", r.dialect.Name),
		slog.String("schema", schemaName),
		slog.String("procedure", procName))

	rows, err := q.QueryContext(ctx, r.dialect.DefinitionQuery(), schemaName, procName)
	if err != nil {
		return domain.ProcedureDefinition{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.ProcedureDefinition{}, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		return domain.ProcedureDefinition{}, fmt.Errorf("%w: %s.%s", ErrNotFound, schemaName, procName)
	}

	var (
		gotSchema, gotName string
		definition         sql.NullString
	)
	if err := rows.Scan(&gotSchema, &gotName, &definition); err != nil {
		return domain.ProcedureDefinition{}, fmt.Errorf("%w: scan definition row: %w", ErrQuery, err)
	}
	if !definition.Valid {
		return domain.ProcedureDefinition{}, fmt.Errorf("%w: %s.%s has no readable definition", ErrNotFound, schemaName, procName)
	}

	return domain.ProcedureDefinition{
		SchemaName: gotSchema,
		ProcName:   gotName,
		SourceText: definition.String,
	}, nil
}
