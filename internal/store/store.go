// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/sproc-lineage/internal/domain"
)

// Repository persists an audit log of completed interactions. It is never
// read back into a session history.
type Repository interface {
	// RecordInteraction appends one completed interaction.
	RecordInteraction(ctx context.Context, sessionID string, rec domain.InteractionRecord) error

	// ListInteractions returns up to limit entries, newest first.
	ListInteractions(ctx context.Context, limit int) ([]domain.AuditEntry, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

// Nop is a Repository that stores nothing, used when the audit log is disabled.
type Nop struct{}

func (Nop) RecordInteraction(context.Context, string, domain.InteractionRecord) error { return nil }
func (Nop) ListInteractions(context.Context, int) ([]domain.AuditEntry, error) {
	return []domain.AuditEntry{}, nil
}
func (Nop) Ping(context.Context) error { return nil }
func (Nop) Close() error               { return nil }
