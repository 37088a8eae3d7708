package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

type clickDB struct {
	ShortCode string `db:"short_code"`
	Timestamp int64  `db:"timestamp_ms"`
	EventID   string `db:"event_id"`
	UserAgent string `db:"user_agent"`
	Referrer  string `db:"referrer"`
	IPAddress string `db:"ip_address"`
	Country   string `db:"country"`
}

func (c *clickDB) toEntity() entity.ClickEvent {
	return entity.ClickEvent{
		ShortCode: c.ShortCode,
		Timestamp: c.Timestamp,
		EventID:   c.EventID,
		UserAgent: c.UserAgent,
		Referrer:  c.Referrer,
		IPAddress: c.IPAddress,
		Country:   c.Country,
	}
}

type ClickRepository struct {
	db *sqlx.DB
}

func NewClickRepository(db *sqlx.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

func (r *ClickRepository) Append(ctx context.Context, event *entity.ClickEvent) error {
	const op = "adapter.repository.postgres.ClickRepository.Append"
	const query = `INSERT INTO url_clicks(short_code, timestamp_ms, event_id, user_agent, referrer, ip_address, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		event.ShortCode,
		event.Timestamp,
		event.EventID,
		event.UserAgent,
		event.Referrer,
		event.IPAddress,
		event.Country,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert into url_clicks table: %w", op, err)
	}

	return nil
}

func (r *ClickRepository) Query(ctx context.Context, shortCode string, start, end int64, limit int) ([]entity.ClickEvent, error) {
	const op = "adapter.repository.postgres.ClickRepository.Query"
	const query = `SELECT short_code, timestamp_ms, event_id, user_agent, referrer, ip_address, country
		FROM url_clicks
		WHERE short_code = $1 AND timestamp_ms BETWEEN $2 AND $3
		ORDER BY timestamp_ms DESC, event_id DESC
		LIMIT $4`

	var rows []clickDB

	if err := r.db.SelectContext(ctx, &rows, query, shortCode, start, end, limit); err != nil {
		return nil, fmt.Errorf("%s: failed to select from url_clicks table: %w", op, err)
	}

	events := make([]entity.ClickEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}

	return events, nil
}
