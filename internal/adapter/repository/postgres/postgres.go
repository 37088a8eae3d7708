package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type urlDB struct {
	ShortCode   string `db:"short_code"`
	OriginalURL string `db:"original_url"`
	CreatedAt   int64  `db:"created_at"`
	ClickCount  int64  `db:"click_count"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		CreatedAt:   u.CreatedAt,
		ClickCount:  u.ClickCount,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Get(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Get"
	const query = `SELECT short_code, original_url, created_at, click_count FROM urls WHERE short_code = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// CreateIfAbsent relies on the primary key of urls, so two concurrent inserts
// of the same code cannot both succeed.
func (r *URLRepository) CreateIfAbsent(ctx context.Context, url *entity.URL) error {
	const op = "adapter.repository.postgres.URLRepository.CreateIfAbsent"
	const query = `INSERT INTO urls(short_code, original_url, created_at, click_count) VALUES ($1, $2, $3, 0)`

	if _, err := r.db.ExecContext(ctx, query, url.ShortCode, url.OriginalURL, url.CreatedAt); err != nil {
		if isUniqueViolationError(err) {
			return fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return nil
}

func (r *URLRepository) IncrementClickCount(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.postgres.URLRepository.IncrementClickCount"
	const query = `UPDATE urls SET click_count = click_count + 1 WHERE short_code = $1`

	res, err := r.db.ExecContext(ctx, query, shortCode)
	if err != nil {
		return fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}
