package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/clicktrail/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/clicktrail/internal/config"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
	"github.com/vadimbarashkov/clicktrail/migrations"
	"github.com/vadimbarashkov/clicktrail/pkg/postgres"

	pgrepo "github.com/vadimbarashkov/clicktrail/internal/adapter/repository/postgres"
	redisrepo "github.com/vadimbarashkov/clicktrail/internal/adapter/repository/redis"
)

var errUnknownDriver = errors.New("unknown storage driver")

type urlStore interface {
	Get(ctx context.Context, shortCode string) (*entity.URL, error)
	CreateIfAbsent(ctx context.Context, url *entity.URL) error
	IncrementClickCount(ctx context.Context, shortCode string) error
}

type clickStore interface {
	Append(ctx context.Context, event *entity.ClickEvent) error
	Query(ctx context.Context, shortCode string, start, end int64, limit int) ([]entity.ClickEvent, error)
}

type storage struct {
	urls   urlStore
	clicks clickStore
	close  func() error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	const op = "app.openStorage"

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if _, err := postgres.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		db, err := postgres.New(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return &storage{
			urls:   pgrepo.NewURLRepository(db),
			clicks: pgrepo.NewClickRepository(db),
			close:  db.Close,
		}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("%s: failed to ping redis: %w", op, err)
		}

		return &storage{
			urls:   redisrepo.NewURLRepository(client),
			clicks: redisrepo.NewClickRepository(client),
			close:  client.Close,
		}, nil

	case config.DriverMemory:
		return &storage{
			urls:   memory.NewURLRepository(),
			clicks: memory.NewClickRepository(),
			close:  func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("%s: %w: %q", op, errUnknownDriver, cfg.Storage.Driver)
	}
}
