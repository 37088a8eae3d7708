// Package redis stores URL records as hashes and click events as sorted sets
// scored by their millisecond timestamp.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

const (
	urlKeyPrefix   = "url:"
	clickKeyPrefix = "clicks:"
)

func urlKey(shortCode string) string   { return urlKeyPrefix + shortCode }
func clickKey(shortCode string) string { return clickKeyPrefix + shortCode }

// createScript writes the hash only when the key is absent.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'short_code', ARGV[1], 'original_url', ARGV[2], 'created_at', ARGV[3], 'click_count', 0)
return 1
`)

// incrementScript refuses to create a bare counter for a missing record.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], 'click_count', 1)
`)

type URLRepository struct {
	client redis.UniversalClient
}

func NewURLRepository(client redis.UniversalClient) *URLRepository {
	return &URLRepository{client: client}
}

func (r *URLRepository) Get(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.redis.URLRepository.Get"

	fields, err := r.client.HGetAll(ctx, urlKey(shortCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read url hash: %w", op, err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	url, err := parseURL(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse url hash: %w", op, err)
	}

	return url, nil
}

func (r *URLRepository) CreateIfAbsent(ctx context.Context, url *entity.URL) error {
	const op = "adapter.repository.redis.URLRepository.CreateIfAbsent"

	created, err := createScript.Run(ctx, r.client,
		[]string{urlKey(url.ShortCode)},
		url.ShortCode, url.OriginalURL, url.CreatedAt,
	).Int()
	if err != nil {
		return fmt.Errorf("%s: failed to create url hash: %w", op, err)
	}

	if created == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}

	return nil
}

func (r *URLRepository) IncrementClickCount(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.redis.URLRepository.IncrementClickCount"

	n, err := incrementScript.Run(ctx, r.client, []string{urlKey(shortCode)}).Int64()
	if err != nil {
		return fmt.Errorf("%s: failed to increment click count: %w", op, err)
	}

	if n < 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return nil
}

func parseURL(fields map[string]string) (*entity.URL, error) {
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}

	clickCount, err := strconv.ParseInt(fields["click_count"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("click_count: %w", err)
	}

	return &entity.URL{
		ShortCode:   fields["short_code"],
		OriginalURL: fields["original_url"],
		CreatedAt:   createdAt,
		ClickCount:  clickCount,
	}, nil
}

// clickMember is the sorted-set member. EventID keeps members unique when
// two clicks share a millisecond.
type clickMember struct {
	Timestamp int64  `json:"timestamp"`
	EventID   string `json:"event_id"`
	UserAgent string `json:"user_agent"`
	Referrer  string `json:"referrer"`
	IPAddress string `json:"ip_address"`
	Country   string `json:"country"`
}

type ClickRepository struct {
	client redis.UniversalClient
}

func NewClickRepository(client redis.UniversalClient) *ClickRepository {
	return &ClickRepository{client: client}
}

func (r *ClickRepository) Append(ctx context.Context, event *entity.ClickEvent) error {
	const op = "adapter.repository.redis.ClickRepository.Append"

	member, err := json.Marshal(clickMember{
		Timestamp: event.Timestamp,
		EventID:   event.EventID,
		UserAgent: event.UserAgent,
		Referrer:  event.Referrer,
		IPAddress: event.IPAddress,
		Country:   event.Country,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to encode click event: %w", op, err)
	}

	err = r.client.ZAdd(ctx, clickKey(event.ShortCode), redis.Z{
		Score:  float64(event.Timestamp),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("%s: failed to add click event: %w", op, err)
	}

	return nil
}

func (r *ClickRepository) Query(ctx context.Context, shortCode string, start, end int64, limit int) ([]entity.ClickEvent, error) {
	const op = "adapter.repository.redis.ClickRepository.Query"

	members, err := r.client.ZRevRangeByScore(ctx, clickKey(shortCode), &redis.ZRangeBy{
		Min:   strconv.FormatInt(start, 10),
		Max:   strconv.FormatInt(end, 10),
		Count: int64(limit),
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: failed to range click events: %w", op, err)
	}

	events := make([]entity.ClickEvent, 0, len(members))
	for _, m := range members {
		var c clickMember
		if err := json.Unmarshal([]byte(m), &c); err != nil {
			return nil, fmt.Errorf("%s: failed to decode click event: %w", op, err)
		}

		events = append(events, entity.ClickEvent{
			ShortCode: shortCode,
			Timestamp: c.Timestamp,
			EventID:   c.EventID,
			UserAgent: c.UserAgent,
			Referrer:  c.Referrer,
			IPAddress: c.IPAddress,
			Country:   c.Country,
		})
	}

	return events, nil
}
