package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
)

// insertAudit appends one audit row inside the caller's transaction. The
// table doubles as the outbox: a trigger NOTIFYs the relay on insert and
// published_at stays NULL until the relay ships the row.
func insertAudit(ctx context.Context, tx *sql.Tx, entry domain.AuditEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO audit_log (id, entity_type, entity_id, action, old_value, new_value, changed_by, changed_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		nullString(entry.OldValue),
		nullString(entry.NewValue),
		entry.ChangedBy,
		entry.ChangedAt,
	)
	return err
}

// nullString maps "" to NULL for optional text columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime maps a nil pointer to NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
