package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

var _ database.PersonRepository = (*PersonRepo)(nil)

type PersonRepo struct {
	db *sql.DB
}

func NewPersonRepo(db *sql.DB) *PersonRepo {
	return &PersonRepo{db: db}
}

const personColumns = `id, staff_id, full_name, COALESCE(contact_number, ''), person_type, status`

func scanPerson(row interface{ Scan(...any) error }) (*domain.Person, error) {
	var p domain.Person
	var role string
	if err := row.Scan(&p.ID, &p.StaffID, &p.FullName, &p.ContactNumber, &role, &p.Status); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	p.Role = parsed
	return &p, nil
}

func (r *PersonRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM person_records WHERE id = $1`, id)

	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}
	return p, err
}

func (r *PersonRepo) GetByStaffID(ctx context.Context, staffID string) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM person_records WHERE staff_id = $1`, staffID)

	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("staff %s: %w", staffID, domain.ErrNotFound)
	}
	return p, err
}

func (r *PersonRepo) FindActiveByRoles(ctx context.Context, roles []domain.Role) ([]domain.Person, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM person_records WHERE person_type = ANY($1) AND status = $2`,
		pq.Array(names), domain.PersonStatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}
