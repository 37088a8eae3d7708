package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

type RedirectUseCaseTestSuite struct {
	suite.Suite
	errUnknown   error
	meta         RequestMeta
	urlRepoMock  *mockURLRepository
	recorderMock *mockClickRecorder
	uc           *RedirectUseCase
}

func (suite *RedirectUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.meta = RequestMeta{UserAgent: "curl/8.0", Referrer: "https://ref.example", IPAddress: "10.0.0.1", Country: "NL"}
}

func (suite *RedirectUseCaseTestSuite) SetupSubTest() {
	suite.urlRepoMock = new(mockURLRepository)
	suite.recorderMock = new(mockClickRecorder)
	suite.uc = NewRedirectUseCase(suite.urlRepoMock, suite.recorderMock, discardLogger)
}

func (suite *RedirectUseCaseTestSuite) TearDownSubTest() {
	suite.urlRepoMock.AssertExpectations(suite.T())
	suite.recorderMock.AssertExpectations(suite.T())
}

func (suite *RedirectUseCaseTestSuite) TestRedirect() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("Get", mock.Anything, "abc123").
			Once().
			Return(nil, entity.ErrURLNotFound)

		res, err := suite.uc.Redirect(context.Background(), "abc123", suite.meta)

		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(res)
		suite.recorderMock.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything)
		suite.urlRepoMock.AssertNotCalled(suite.T(), "IncrementClickCount", mock.Anything, mock.Anything)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("Get", mock.Anything, "abc123").
			Once().
			Return(nil, suite.errUnknown)

		res, err := suite.uc.Redirect(context.Background(), "abc123", suite.meta)

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(res)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("Get", mock.Anything, "abc123").
			Once().
			Return(&entity.URL{ShortCode: "abc123", OriginalURL: "https://example.com"}, nil)
		suite.recorderMock.
			On("Record", mock.Anything, "abc123", suite.meta).
			Once().
			Return(nil)
		suite.urlRepoMock.
			On("IncrementClickCount", mock.Anything, "abc123").
			Once().
			Return(nil)

		res, err := suite.uc.Redirect(context.Background(), "abc123", suite.meta)

		suite.NoError(err)
		suite.Equal(&RedirectResult{OriginalURL: "https://example.com"}, res)
	})

	suite.Run("click recording failure is isolated", func() {
		suite.urlRepoMock.
			On("Get", mock.Anything, "abc123").
			Once().
			Return(&entity.URL{ShortCode: "abc123", OriginalURL: "https://example.com"}, nil)
		suite.recorderMock.
			On("Record", mock.Anything, "abc123", suite.meta).
			Once().
			Return(suite.errUnknown)
		suite.urlRepoMock.
			On("IncrementClickCount", mock.Anything, "abc123").
			Once().
			Return(nil)

		res, err := suite.uc.Redirect(context.Background(), "abc123", suite.meta)

		suite.NoError(err)
		suite.Equal("https://example.com", res.OriginalURL)
		suite.ErrorIs(res.ClickErr, suite.errUnknown)
		suite.NoError(res.IncrementErr)
	})

	suite.Run("increment failure is isolated", func() {
		suite.urlRepoMock.
			On("Get", mock.Anything, "abc123").
			Once().
			Return(&entity.URL{ShortCode: "abc123", OriginalURL: "https://example.com"}, nil)
		suite.recorderMock.
			On("Record", mock.Anything, "abc123", suite.meta).
			Once().
			Return(nil)
		suite.urlRepoMock.
			On("IncrementClickCount", mock.Anything, "abc123").
			Once().
			Return(entity.ErrURLNotFound)

		res, err := suite.uc.Redirect(context.Background(), "abc123", suite.meta)

		suite.NoError(err)
		suite.Equal("https://example.com", res.OriginalURL)
		suite.NoError(res.ClickErr)
		suite.ErrorIs(res.IncrementErr, entity.ErrURLNotFound)
	})

	suite.Run("side effects ignore request cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

		suite.urlRepoMock.
			On("Get", mock.Anything, "abc123").
			Once().
			Return(&entity.URL{ShortCode: "abc123", OriginalURL: "https://example.com"}, nil)
		suite.recorderMock.
			On("Record", live, "abc123", suite.meta).
			Once().
			Return(nil)
		suite.urlRepoMock.
			On("IncrementClickCount", live, "abc123").
			Once().
			Return(nil)

		res, err := suite.uc.Redirect(ctx, "abc123", suite.meta)

		suite.NoError(err)
		suite.Equal(&RedirectResult{OriginalURL: "https://example.com"}, res)
	})
}

func TestRedirectUseCase(t *testing.T) {
	suite.Run(t, new(RedirectUseCaseTestSuite))
}
