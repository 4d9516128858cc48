package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

const (
	queryTimeout    = 5 * time.Second
	uniqueViolation = "23505"

	accountColumns = `id, name, email, password_hash, prompts_used, prompts_limit, is_superuser, created_at`
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := acct.PromptsLimit
	if limit == 0 {
		limit = domain.DefaultPromptsLimit
	}
	createdAt := acct.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+accountColumns,
		uuid.New(),
		acct.Name,
		domain.NormalizeEmail(acct.Email),
		acct.PasswordHash,
		acct.PromptsUsed,
		limit,
		acct.IsSuperuser,
		createdAt,
	)

	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, uid)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, domain.NormalizeEmail(email))
}

// IncrementUsage adds one to prompts_used in a single statement and returns
// the post-increment counters.
func (r *AccountRepository) IncrementUsage(ctx context.Context, id string) (domain.Quota, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Quota{}, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var q domain.Quota
	err = r.pool.QueryRow(ctx, `
		UPDATE accounts SET prompts_used = prompts_used + 1
		WHERE id = $1
		RETURNING prompts_used, prompts_limit`, uid).Scan(&q.Used, &q.Limit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quota{}, domain.ErrAccountNotFound
		}
		return domain.Quota{}, fmt.Errorf("increment usage: %w", err)
	}
	return q, nil
}

// Ping checks database connectivity.
func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	acct, err := scanAccount(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return acct, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a  domain.Account
		id uuid.UUID
	)
	if err := row.Scan(&id, &a.Name, &a.Email, &a.PasswordHash, &a.PromptsUsed, &a.PromptsLimit, &a.IsSuperuser, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = id.String()
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
