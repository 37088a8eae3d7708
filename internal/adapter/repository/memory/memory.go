// Package memory provides in-process URL and click repositories.
// They honour the same atomicity contract as the networked stores and are
// used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

type URLRepository struct {
	mu   sync.Mutex
	urls map[string]entity.URL
}

func NewURLRepository() *URLRepository {
	return &URLRepository{urls: make(map[string]entity.URL)}
}

func (r *URLRepository) Get(_ context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.Get"

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return &url, nil
}

func (r *URLRepository) CreateIfAbsent(_ context.Context, url *entity.URL) error {
	const op = "adapter.repository.memory.URLRepository.CreateIfAbsent"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.urls[url.ShortCode]; ok {
		return fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}

	stored := *url
	stored.ClickCount = 0
	r.urls[url.ShortCode] = stored

	return nil
}

func (r *URLRepository) IncrementClickCount(_ context.Context, shortCode string) error {
	const op = "adapter.repository.memory.URLRepository.IncrementClickCount"

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	url.ClickCount++
	r.urls[shortCode] = url

	return nil
}

type ClickRepository struct {
	mu     sync.Mutex
	events map[string][]entity.ClickEvent
}

func NewClickRepository() *ClickRepository {
	return &ClickRepository{events: make(map[string][]entity.ClickEvent)}
}

func (r *ClickRepository) Append(_ context.Context, event *entity.ClickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.ShortCode] = append(r.events[event.ShortCode], *event)

	return nil
}

func (r *ClickRepository) Query(_ context.Context, shortCode string, start, end int64, limit int) ([]entity.ClickEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var page []entity.ClickEvent
	for _, e := range r.events[shortCode] {
		if e.Timestamp >= start && e.Timestamp <= end {
			page = append(page, e)
		}
	}

	sort.SliceStable(page, func(i, j int) bool {
		if page[i].Timestamp != page[j].Timestamp {
			return page[i].Timestamp > page[j].Timestamp
		}
		return page[i].EventID > page[j].EventID
	})

	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}

	return page, nil
}
