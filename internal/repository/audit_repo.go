// Package repository implements the database access layer for the messenger
// backend. This file records group and membership mutations for review.
package repository

import (
	"context"

	"github.com/jonesmarquelle/messenger/internal/database"
	"github.com/jonesmarquelle/messenger/internal/models"
)

// AuditRepository persists audit trail entries. Entries are append-only.
type AuditRepository struct {
	db database.DBInterface
}

// NewAuditRepository creates a new AuditRepository backed by the given pool.
func NewAuditRepository(db database.DBInterface) *AuditRepository {
	return &AuditRepository{db: db}
}

// Log inserts an audit entry. Failures here must not fail the mutation that
// triggered them; callers log and move on.
func (r *AuditRepository) Log(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_log (actor_id, action, object_type, object_id, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ActorID, entry.Action, entry.ObjectType, entry.ObjectID, entry.IPAddress,
	)
	return err
}

// ListRecent retrieves the most recent audit entries, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, actor_id, action, object_type, object_id, ip_address, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditLog{}
	for rows.Next() {
		var e models.AuditLog
		var ip *string
		err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.ObjectType, &e.ObjectID, &ip, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		if ip != nil {
			e.IPAddress = *ip
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
