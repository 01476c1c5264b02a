package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

type PersonRepository struct {
	db *sql.DB
}

var _ ports.PersonRepository = (*PersonRepository)(nil)

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

const personColumns = `id, identifier, first_name, last_name, person_type, status, start_date, end_date, notes, created_at, updated_at`

func scanPerson(row interface{ Scan(...any) error }) (*domain.Person, error) {
	var p domain.Person
	var startDate, endDate sql.NullTime
	var notes sql.NullString
	err := row.Scan(
		&p.ID, &p.Identifier, &p.FirstName, &p.LastName, &p.PersonType,
		&p.Status, &startDate, &endDate, &notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.StartDate = timePtr(startDate)
	p.EndDate = timePtr(endDate)
	p.Notes = notes.String
	return &p, nil
}

func (r *PersonRepository) Create(ctx context.Context, person domain.Person, audit domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO people (`+personColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		person.ID,
		person.Identifier,
		person.FirstName,
		person.LastName,
		person.PersonType,
		person.Status,
		nullTime(person.StartDate),
		nullTime(person.EndDate),
		nullString(person.Notes),
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PersonRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = $1`, id)
	person, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: person %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return person, nil
}

func (r *PersonRepository) List(ctx context.Context, filter domain.PersonFilter) ([]domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE 1=1`
	args := []any{}

	if filter.PersonType != "" {
		args = append(args, filter.PersonType)
		query += fmt.Sprintf(" AND person_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY last_name, first_name"

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

	people := []domain.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, *person)
	}
	return people, rows.Err()
}

func (r *PersonRepository) Update(ctx context.Context, person domain.Person, audit domain.AuditEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE people
         SET first_name = $2, last_name = $3, status = $4, start_date = $5,
             end_date = $6, notes = $7, updated_at = $8
         WHERE id = $1`,
		person.ID,
		person.FirstName,
		person.LastName,
		person.Status,
		nullTime(person.StartDate),
		nullTime(person.EndDate),
		nullString(person.Notes),
		person.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: person %s", domain.ErrNotFound, person.ID)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}
