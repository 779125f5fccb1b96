package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
)

const (
	// DefaultLeadLimit applies when a filter carries no positive limit.
	DefaultLeadLimit = 10

	leadColumns = `id, name, company, phone, email, volume, usage_purpose, comment, created_at`
)

// LeadFilter restricts a lead listing to [From, To) and caps its size.
type LeadFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// LeadRepository encapsulates lead persistence. Leads are append-only.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewLeadRepository instantiates the Postgres repository. A nil clock means time.Now.
func NewLeadRepository(pool *pgxpool.Pool, now func() time.Time) LeadRepository {
	if now == nil {
		now = time.Now
	}
	return &leadRepository{pool: pool, now: now}
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	const query = `
        INSERT INTO leads (name, company, phone, email, volume, usage_purpose, comment, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		lead.Name,
		lead.Company,
		lead.Phone,
		lead.Email,
		lead.Volume,
		lead.UsagePurpose,
		lead.Comment,
		r.now(),
	).Scan(&lead.ID, &lead.CreatedAt)
}

func (r *leadRepository) List(ctx context.Context, filter LeadFilter) ([]domain.Lead, error) {
	where, args, limit := buildLeadWhere(filter, func(n int) string { return fmt.Sprintf("$%d", n) }, nil)
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d`,
		leadColumns, where, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeads(rows)
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
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

// buildLeadWhere renders the filter as a WHERE clause. placeholder formats the
// n-th bind parameter; bindTime, when set, converts time bounds before binding.
func buildLeadWhere(filter LeadFilter, placeholder func(int) string, bindTime func(time.Time) any) (string, []any, int) {
	clauses := []string{"1=1"}
	args := []any{}
	bind := func(t time.Time) any {
		if bindTime != nil {
			return bindTime(t)
		}
		return t
	}

	if filter.From != nil {
		args = append(args, bind(*filter.From))
		clauses = append(clauses, "created_at >= "+placeholder(len(args)))
	}
	if filter.To != nil {
		args = append(args, bind(*filter.To))
		clauses = append(clauses, "created_at < "+placeholder(len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLeadLimit
	}
	return strings.Join(clauses, " AND "), args, limit
}
