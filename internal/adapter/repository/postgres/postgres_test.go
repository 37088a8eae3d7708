package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

func TestIsUniqueViolationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation error",
			err:  &pgconn.PgError{Code: uniqueViolationErrCode},
			want: true,
		},
		{
			name: "wrapped unique violation error",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationErrCode}),
			want: true,
		},
		{
			name: "not unique violation error",
			err:  &pgconn.PgError{Code: "unknown error code"},
			want: false,
		},
		{
			name: "not PgError",
			err:  errors.New("unknown error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolationError(tt.err))
		})
	}
}

type RepositoryTestSuite struct {
	suite.Suite
	errUnknown      error
	errAffectedRows error
	urlColumns      []string
	clickColumns    []string
	mock            sqlmock.Sqlmock
	urlRepo         *URLRepository
	clickRepo       *ClickRepository
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.errAffectedRows = errors.New("affected rows error")
	suite.urlColumns = []string{"short_code", "original_url", "created_at", "click_count"}
	suite.clickColumns = []string{"short_code", "timestamp_ms", "event_id", "user_agent", "referrer", "ip_address", "country"}
}

func (suite *RepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	suite.T().Cleanup(func() {
		db.Close()
	})

	suite.mock = mock
	suite.urlRepo = NewURLRepository(db)
	suite.clickRepo = NewClickRepository(db)
}

func (suite *RepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *RepositoryTestSuite) TestURLRepository_Get() {
	suite.Run("url not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs("abc123").
			WillReturnError(sql.ErrNoRows)

		url, err := suite.urlRepo.Get(context.Background(), "abc123")

		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs("abc123").
			WillReturnError(suite.errUnknown)

		url, err := suite.urlRepo.Get(context.Background(), "abc123")

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.urlColumns).
			AddRow("abc123", "https://example.com", 1700000000, 4)

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs("abc123").
			WillReturnRows(rows)

		url, err := suite.urlRepo.Get(context.Background(), "abc123")

		suite.NoError(err)
		suite.Equal(&entity.URL{
			ShortCode:   "abc123",
			OriginalURL: "https://example.com",
			CreatedAt:   1700000000,
			ClickCount:  4,
		}, url)
	})
}

func (suite *RepositoryTestSuite) TestURLRepository_CreateIfAbsent() {
	url := &entity.URL{ShortCode: "abc123", OriginalURL: "https://example.com", CreatedAt: 1700000000}

	suite.Run("short code exists", func() {
		suite.mock.ExpectExec(`INSERT INTO urls`).
			WithArgs("abc123", "https://example.com", int64(1700000000)).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		err := suite.urlRepo.CreateIfAbsent(context.Background(), url)

		suite.ErrorIs(err, entity.ErrShortCodeExists)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectExec(`INSERT INTO urls`).
			WithArgs("abc123", "https://example.com", int64(1700000000)).
			WillReturnError(suite.errUnknown)

		err := suite.urlRepo.CreateIfAbsent(context.Background(), url)

		suite.ErrorIs(err, suite.errUnknown)
		suite.NotErrorIs(err, entity.ErrShortCodeExists)
	})

	suite.Run("success", func() {
		suite.mock.ExpectExec(`INSERT INTO urls`).
			WithArgs("abc123", "https://example.com", int64(1700000000)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := suite.urlRepo.CreateIfAbsent(context.Background(), url)

		suite.NoError(err)
	})
}

func (suite *RepositoryTestSuite) TestURLRepository_IncrementClickCount() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectExec(`UPDATE urls SET click_count = click_count \+ 1`).
			WithArgs("abc123").
			WillReturnError(suite.errUnknown)

		err := suite.urlRepo.IncrementClickCount(context.Background(), "abc123")

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("rows affected error", func() {
		suite.mock.ExpectExec(`UPDATE urls SET click_count = click_count \+ 1`).
			WithArgs("abc123").
			WillReturnResult(sqlmock.NewErrorResult(suite.errAffectedRows))

		err := suite.urlRepo.IncrementClickCount(context.Background(), "abc123")

		suite.ErrorIs(err, suite.errAffectedRows)
	})

	suite.Run("url not found", func() {
		suite.mock.ExpectExec(`UPDATE urls SET click_count = click_count \+ 1`).
			WithArgs("abc123").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := suite.urlRepo.IncrementClickCount(context.Background(), "abc123")

		suite.ErrorIs(err, entity.ErrURLNotFound)
	})

	suite.Run("success", func() {
		suite.mock.ExpectExec(`UPDATE urls SET click_count = click_count \+ 1`).
			WithArgs("abc123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := suite.urlRepo.IncrementClickCount(context.Background(), "abc123")

		suite.NoError(err)
	})
}

func (suite *RepositoryTestSuite) TestClickRepository_Append() {
	event := &entity.ClickEvent{
		ShortCode: "abc123",
		Timestamp: 1700000000123,
		EventID:   "V1StGXR8_Z5jdHi6B-myT",
		UserAgent: "curl/8.0",
		Referrer:  "direct",
		IPAddress: "10.0.0.1",
		Country:   "unknown",
	}

	suite.Run("unknown error", func() {
		suite.mock.ExpectExec(`INSERT INTO url_clicks`).
			WithArgs("abc123", int64(1700000000123), "V1StGXR8_Z5jdHi6B-myT", "curl/8.0", "direct", "10.0.0.1", "unknown").
			WillReturnError(suite.errUnknown)

		err := suite.clickRepo.Append(context.Background(), event)

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("success", func() {
		suite.mock.ExpectExec(`INSERT INTO url_clicks`).
			WithArgs("abc123", int64(1700000000123), "V1StGXR8_Z5jdHi6B-myT", "curl/8.0", "direct", "10.0.0.1", "unknown").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := suite.clickRepo.Append(context.Background(), event)

		suite.NoError(err)
	})
}

func (suite *RepositoryTestSuite) TestClickRepository_Query() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM url_clicks`).
			WithArgs("abc123", int64(0), int64(1000), 10).
			WillReturnError(suite.errUnknown)

		events, err := suite.clickRepo.Query(context.Background(), "abc123", 0, 1000, 10)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(events)
	})

	suite.Run("no rows", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM url_clicks`).
			WithArgs("abc123", int64(0), int64(1000), 10).
			WillReturnRows(sqlmock.NewRows(suite.clickColumns))

		events, err := suite.clickRepo.Query(context.Background(), "abc123", 0, 1000, 10)

		suite.NoError(err)
		suite.Empty(events)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.clickColumns).
			AddRow("abc123", 900, "b", "curl/8.0", "siteA", "10.0.0.2", "NL").
			AddRow("abc123", 100, "a", "curl/8.0", "direct", "10.0.0.1", "unknown")

		suite.mock.ExpectQuery(`SELECT (.+) FROM url_clicks (.+) ORDER BY timestamp_ms DESC`).
			WithArgs("abc123", int64(0), int64(1000), 10).
			WillReturnRows(rows)

		events, err := suite.clickRepo.Query(context.Background(), "abc123", 0, 1000, 10)

		suite.NoError(err)
		suite.Equal([]entity.ClickEvent{
			{ShortCode: "abc123", Timestamp: 900, EventID: "b", UserAgent: "curl/8.0", Referrer: "siteA", IPAddress: "10.0.0.2", Country: "NL"},
			{ShortCode: "abc123", Timestamp: 100, EventID: "a", UserAgent: "curl/8.0", Referrer: "direct", IPAddress: "10.0.0.1", Country: "unknown"},
		}, events)
	})
}

func TestRepository(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
