package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

type AssignmentRepository struct {
	db *sql.DB
}

var _ ports.AssignmentRepository = (*AssignmentRepository)(nil)

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment domain.AssetAssignment, audit domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO asset_assignments (id, person_id, asset_id, asset_tag, assigned_at, returned_at, condition_notes)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		assignment.ID,
		assignment.PersonID,
		assignment.AssetID,
		assignment.AssetTag,
		assignment.AssignedAt,
		nullTime(assignment.ReturnedAt),
		nullString(assignment.ConditionNotes),
	)
	if err != nil {
		return err
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *AssignmentRepository) ListByPerson(ctx context.Context, personID string) ([]domain.AssetAssignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_id, asset_id, asset_tag, assigned_at, returned_at, condition_notes
         FROM asset_assignments WHERE person_id = $1 ORDER BY assigned_at`, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []domain.AssetAssignment{}
	for rows.Next() {
		var a domain.AssetAssignment
		var returnedAt sql.NullTime
		var conditionNotes sql.NullString
		if err := rows.Scan(&a.ID, &a.PersonID, &a.AssetID, &a.AssetTag, &a.AssignedAt, &returnedAt, &conditionNotes); err != nil {
			return nil, err
		}
		a.ReturnedAt = timePtr(returnedAt)
		a.ConditionNotes = conditionNotes.String
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// MarkReturned stamps the person's open assignment for the tag. Already
// returned assignments are left alone.
func (r *AssignmentRepository) MarkReturned(ctx context.Context, personID, assetTag string, returnedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE asset_assignments SET returned_at = $3
         WHERE person_id = $1 AND asset_tag = $2 AND returned_at IS NULL`,
		personID, assetTag, returnedAt)
	return err
}
