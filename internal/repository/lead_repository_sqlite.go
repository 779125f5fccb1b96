package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spec-kit/lead-service/internal/domain"
)

type sqliteLeadRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteLeadRepository instantiates the embedded repository. Timestamps are
// stored in UTC so that text comparison in SQLite orders instants correctly.
func NewSQLiteLeadRepository(db *sql.DB, now func() time.Time) LeadRepository {
	if now == nil {
		now = time.Now
	}
	return &sqliteLeadRepository{db: db, now: now}
}

func (r *sqliteLeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (name, company, phone, email, volume, usage_purpose, comment, created_at)
        VALUES (?,?,?,?,?,?,?,?)`
	createdAt := r.now()
	res, err := r.db.ExecContext(ctx, query,
		lead.Name,
		lead.Company,
		lead.Phone,
		lead.Email,
		lead.Volume,
		lead.UsagePurpose,
		lead.Comment,
		createdAt.UTC(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	lead.ID = id
	lead.CreatedAt = createdAt
	return nil
}

func (r *sqliteLeadRepository) List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error) {
	where, args, limit := buildLeadWhere(filter,
		func(int) string { return "?" },
		func(t time.Time) any { return t.UTC() },
	)
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d`,
		leadColumns, where, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Lead{}
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Company,
			&lead.Phone,
			&lead.Email,
			&lead.Volume,
			&lead.UsagePurpose,
			&lead.Comment,
			&lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}
