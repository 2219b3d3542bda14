package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateOrRenewPass(ctx context.Context, pass models.Pass) (bool, bool, error) {
	args := m.Called(ctx, pass)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *RepoMock) DecrementPassUnits(ctx context.Context, username string, now time.Time) (int, bool, error) {
	args := m.Called(ctx, username, now)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *RepoMock) GetPass(ctx context.Context, username string) (*models.Pass, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pass), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPassService_PurchaseOrRenew(t *testing.T) {
	activePass := &models.Pass{
		Username:       "alice",
		StartDate:      time.Now().UTC().AddDate(0, 0, -5),
		EndDate:        time.Now().UTC().AddDate(0, 0, 25),
		RemainingUnits: 17,
	}

	tests := []struct {
		name        string
		setupMocks  func(r *RepoMock, c *CacheMock)
		wantOutcome models.PurchaseOutcome
		wantUnits   int
		wantErr     bool
	}{
		{
			name: "new pass created with full quota",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateOrRenewPass", mock.Anything, mock.MatchedBy(func(p models.Pass) bool {
					return p.Username == "alice" &&
						p.RemainingUnits == models.PassUnits &&
						p.EndDate.Equal(p.StartDate.AddDate(0, 0, models.PassWindowDays))
				})).Return(true, false, nil).Once()
				c.On("Invalidate", "pass:alice").Return(nil).Once()
			},
			wantOutcome: models.PurchaseCreated,
			wantUnits:   models.PassUnits,
		},
		{
			name: "expired pass renewed, quota reset to full",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateOrRenewPass", mock.Anything, mock.Anything).
					Return(false, true, nil).Once()
				c.On("Invalidate", "pass:alice").Return(nil).Once()
			},
			wantOutcome: models.PurchaseRenewed,
			wantUnits:   models.PassUnits,
		},
		{
			name: "active pass untouched, current units reported",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateOrRenewPass", mock.Anything, mock.Anything).
					Return(false, false, nil).Once()
				r.On("GetPass", mock.Anything, "alice").Return(activePass, nil).Once()
			},
			wantOutcome: models.PurchaseAlreadyActive,
			wantUnits:   17,
		},
		{
			name: "storage failure propagated",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateOrRenewPass", mock.Anything, mock.Anything).
					Return(false, false, errors.New("connection reset")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := NewPassService(repo, cache, newNoopLogger())
			result, err := svc.PurchaseOrRenew(context.Background(), "alice")

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutcome, result.Outcome)
				assert.Equal(t, tt.wantUnits, result.RemainingUnits)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestPassService_PurchaseOrRenew_ActiveIsNoop(t *testing.T) {
	// Повторная покупка при действующем абонементе не должна трогать квоту:
	// репозиторий сообщает (false, false), и сервис только читает текущее состояние.
	repo := new(RepoMock)
	cache := new(CacheMock)

	current := &models.Pass{
		Username:       "bob",
		StartDate:      time.Now().UTC().AddDate(0, 0, -1),
		EndDate:        time.Now().UTC().AddDate(0, 0, 29),
		RemainingUnits: 30,
	}
	repo.On("CreateOrRenewPass", mock.Anything, mock.Anything).Return(false, false, nil).Twice()
	repo.On("GetPass", mock.Anything, "bob").Return(current, nil).Twice()

	svc := NewPassService(repo, cache, newNoopLogger())

	first, err := svc.PurchaseOrRenew(context.Background(), "bob")
	require.NoError(t, err)
	second, err := svc.PurchaseOrRenew(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, models.PurchaseAlreadyActive, first.Outcome)
	assert.Equal(t, first.RemainingUnits, second.RemainingUnits)
	assert.Equal(t, first.EndDate, second.EndDate)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestPassService_ConsumeOne(t *testing.T) {
	expiredPass := &models.Pass{
		Username:       "alice",
		StartDate:      time.Now().UTC().AddDate(0, 0, -40),
		EndDate:        time.Now().UTC().AddDate(0, 0, -10),
		RemainingUnits: 12,
	}
	exhaustedPass := &models.Pass{
		Username:       "alice",
		StartDate:      time.Now().UTC().AddDate(0, 0, -5),
		EndDate:        time.Now().UTC().AddDate(0, 0, 25),
		RemainingUnits: 0,
	}

	tests := []struct {
		name          string
		setupMocks    func(r *RepoMock, c *CacheMock)
		wantRemaining int
		wantErr       error
	}{
		{
			name: "successful decrement returns remaining",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("DecrementPassUnits", mock.Anything, "alice", mock.Anything).
					Return(4, true, nil).Once()
				c.On("Invalidate", "pass:alice").Return(nil).Once()
			},
			wantRemaining: 4,
		},
		{
			name: "no pass record means no active pass",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("DecrementPassUnits", mock.Anything, "alice", mock.Anything).
					Return(0, false, nil).Once()
				r.On("GetPass", mock.Anything, "alice").
					Return(nil, models.ErrPassNotFound).Once()
			},
			wantErr: models.ErrNoActivePass,
		},
		{
			name: "expired window means no active pass even with units left",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("DecrementPassUnits", mock.Anything, "alice", mock.Anything).
					Return(0, false, nil).Once()
				r.On("GetPass", mock.Anything, "alice").
					Return(expiredPass, nil).Once()
			},
			wantErr: models.ErrNoActivePass,
		},
		{
			name: "active window with zero units means quota exhausted",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("DecrementPassUnits", mock.Anything, "alice", mock.Anything).
					Return(0, false, nil).Once()
				r.On("GetPass", mock.Anything, "alice").
					Return(exhaustedPass, nil).Once()
			},
			wantErr: models.ErrQuotaExhausted,
		},
		{
			name: "storage failure propagated",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("DecrementPassUnits", mock.Anything, "alice", mock.Anything).
					Return(0, false, errors.New("connection reset")).Once()
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := NewPassService(repo, cache, newNoopLogger())
			remaining, err := svc.ConsumeOne(context.Background(), "alice")

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, models.ErrNoActivePass) || errors.Is(tt.wantErr, models.ErrQuotaExhausted) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRemaining, remaining)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestPassService_Status(t *testing.T) {
	pass := &models.Pass{
		Username:       "alice",
		StartDate:      time.Now().UTC().AddDate(0, 0, -1),
		EndDate:        time.Now().UTC().AddDate(0, 0, 29),
		RemainingUnits: 21,
	}

	t.Run("cache miss falls back to repository and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "pass:alice", mock.Anything).Return(false, nil).Once()
		repo.On("GetPass", mock.Anything, "alice").Return(pass, nil).Once()
		cache.On("Set", "pass:alice", pass, time.Minute).Return(nil).Once()

		svc := NewPassService(repo, cache, newNoopLogger())
		got, err := svc.Status(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, pass, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "pass:alice", mock.Anything).Return(true, nil).Once()

		svc := NewPassService(repo, cache, newNoopLogger())
		_, err := svc.Status(context.Background(), "alice")

		require.NoError(t, err)
		repo.AssertNotCalled(t, "GetPass", mock.Anything, mock.Anything)
	})

	t.Run("missing pass propagated", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "pass:alice", mock.Anything).Return(false, nil).Once()
		repo.On("GetPass", mock.Anything, "alice").Return(nil, models.ErrPassNotFound).Once()

		svc := NewPassService(repo, cache, newNoopLogger())
		_, err := svc.Status(context.Background(), "alice")

		assert.ErrorIs(t, err, models.ErrPassNotFound)
	})
}
