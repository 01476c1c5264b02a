package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

const uniqueViolation = "23505"

type LifecycleRepository struct {
	db *sql.DB
}

var _ ports.LifecycleRepository = (*LifecycleRepository)(nil)

func NewLifecycleRepository(db *sql.DB) *LifecycleRepository {
	return &LifecycleRepository{db: db}
}

func (r *LifecycleRepository) CreateRequest(ctx context.Context, request domain.LifecycleRequest, audit domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lifecycle_requests
             (id, person_id, request_type, status, submitted_by, submitted_role, effective_date, notes, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		request.ID,
		request.PersonID,
		request.RequestType,
		request.Status,
		request.SubmittedBy,
		request.SubmittedRole,
		request.EffectiveDate,
		nullString(request.Notes),
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, task := range request.Tasks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO lifecycle_tasks (id, request_id, task_type, required, completed, completed_at, notes)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			task.ID,
			task.RequestID,
			task.TaskType,
			task.Required,
			task.Completed,
			nullTime(task.CompletedAt),
			nullString(task.Notes),
		)
		if err != nil {
			return err
		}
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *LifecycleRepository) GetRequest(ctx context.Context, id string) (*domain.LifecycleRequest, error) {
	var req domain.LifecycleRequest
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, person_id, request_type, status, submitted_by, submitted_role, effective_date, notes, created_at, updated_at
         FROM lifecycle_requests WHERE id = $1`, id,
	).Scan(
		&req.ID, &req.PersonID, &req.RequestType, &req.Status,
		&req.SubmittedBy, &req.SubmittedRole, &req.EffectiveDate,
		&notes, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	req.Notes = notes.String

	person, err := r.requestPerson(ctx, req.PersonID)
	if err != nil {
		return nil, err
	}
	req.Person = person

	req.Tasks, err = r.ListTasks(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	req.TicketLinks, err = r.ticketLinks(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *LifecycleRepository) requestPerson(ctx context.Context, personID string) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = $1`, personID)
	person, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return person, nil
}

func (r *LifecycleRepository) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.LifecycleRequest, error) {
	query := `SELECT id, person_id, request_type, status, submitted_by, submitted_role, effective_date, notes, created_at, updated_at
              FROM lifecycle_requests WHERE 1=1`
	args := []any{}

	if filter.PersonID != "" {
		args = append(args, filter.PersonID)
		query += fmt.Sprintf(" AND person_id = $%d", len(args))
	}
	if filter.RequestType != "" {
		args = append(args, filter.RequestType)
		query += fmt.Sprintf(" AND request_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.SubmittedBy != "" {
		args = append(args, filter.SubmittedBy)
		query += fmt.Sprintf(" AND submitted_by = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []domain.LifecycleRequest{}
	for rows.Next() {
		var req domain.LifecycleRequest
		var notes sql.NullString
		err := rows.Scan(
			&req.ID, &req.PersonID, &req.RequestType, &req.Status,
			&req.SubmittedBy, &req.SubmittedRole, &req.EffectiveDate,
			&notes, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		req.Notes = notes.String
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range requests {
		requests[i].Tasks, err = r.ListTasks(ctx, requests[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return requests, nil
}

func (r *LifecycleRepository) UpdateRequest(ctx context.Context, request domain.LifecycleRequest, audit domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE lifecycle_requests
         SET status = $2, effective_date = $3, notes = $4, updated_at = $5
         WHERE id = $1`,
		request.ID,
		request.Status,
		request.EffectiveDate,
		nullString(request.Notes),
		request.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: request %s", domain.ErrNotFound, request.ID)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *LifecycleRepository) GetTask(ctx context.Context, id string) (*domain.LifecycleTask, error) {
	var task domain.LifecycleTask
	var completedAt sql.NullTime
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, request_id, task_type, required, completed, completed_at, notes
         FROM lifecycle_tasks WHERE id = $1`, id,
	).Scan(&task.ID, &task.RequestID, &task.TaskType, &task.Required, &task.Completed, &completedAt, &notes)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	task.CompletedAt = timePtr(completedAt)
	task.Notes = notes.String
	return &task, nil
}

func (r *LifecycleRepository) ListTasks(ctx context.Context, requestID string) ([]domain.LifecycleTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, task_type, required, completed, completed_at, notes
         FROM lifecycle_tasks WHERE request_id = $1 ORDER BY task_type`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.LifecycleTask{}
	for rows.Next() {
		var task domain.LifecycleTask
		var completedAt sql.NullTime
		var notes sql.NullString
		if err := rows.Scan(&task.ID, &task.RequestID, &task.TaskType, &task.Required, &task.Completed, &completedAt, &notes); err != nil {
			return nil, err
		}
		task.CompletedAt = timePtr(completedAt)
		task.Notes = notes.String
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *LifecycleRepository) SaveTask(ctx context.Context, task domain.LifecycleTask, audit domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE lifecycle_tasks
         SET completed = $2, completed_at = $3, notes = $4
         WHERE id = $1`,
		task.ID,
		task.Completed,
		nullTime(task.CompletedAt),
		nullString(task.Notes),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: task %s", domain.ErrNotFound, task.ID)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *LifecycleRepository) LinkTicket(ctx context.Context, link domain.TicketLink, audit domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ticket_links (id, request_id, ticket_id, ticket_type, created_at)
         VALUES ($1, $2, $3, $4, $5)`,
		link.ID,
		link.RequestID,
		link.TicketID,
		link.TicketType,
		link.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("%w: ticket %s is already linked", domain.ErrConflict, link.TicketID)
	}
	if err != nil {
		return err
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *LifecycleRepository) ticketLinks(ctx context.Context, requestID string) ([]domain.TicketLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, ticket_id, ticket_type, created_at
         FROM ticket_links WHERE request_id = $1 ORDER BY created_at`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.TicketLink{}
	for rows.Next() {
		var link domain.TicketLink
		if err := rows.Scan(&link.ID, &link.RequestID, &link.TicketID, &link.TicketType, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
