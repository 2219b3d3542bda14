package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/middlewarectx"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Status(ctx context.Context, username string) (*models.Pass, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pass), args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	startDate := time.Now().UTC().AddDate(0, 0, -5).Truncate(time.Second)
	endDate := startDate.AddDate(0, 0, 30)
	expiredStart := time.Now().UTC().AddDate(0, 0, -40).Truncate(time.Second)
	expiredEnd := expiredStart.AddDate(0, 0, 30)

	tests := []struct {
		name           string
		username       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "действующий абонемент",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "testuser").
					Return(&models.Pass{
						Username:       "testuser",
						StartDate:      startDate,
						EndDate:        endDate,
						RemainingUnits: 17,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: fmt.Sprintf(`{"status":"OK","data":{"username":"testuser","start_date":%q,"end_date":%q,"remaining_coffees":17,"active":true}}`,
				startDate.Format(time.RFC3339), endDate.Format(time.RFC3339)),
		},
		{
			name:     "истёкший абонемент показывается как неактивный",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "testuser").
					Return(&models.Pass{
						Username:       "testuser",
						StartDate:      expiredStart,
						EndDate:        expiredEnd,
						RemainingUnits: 9,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: fmt.Sprintf(`{"status":"OK","data":{"username":"testuser","start_date":%q,"end_date":%q,"remaining_coffees":9,"active":false}}`,
				expiredStart.Format(time.RFC3339), expiredEnd.Format(time.RFC3339)),
		},
		{
			name:     "абонемента нет",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "testuser").
					Return(nil, models.ErrPassNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"no monthly pass, please buy one"}`,
		},
		{
			name:           "отсутствует авторизация",
			username:       "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:     "ошибка сервиса",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "testuser").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read pass status"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/pass", nil)

			ctx := context.WithValue(req.Context(), middlewarectx.User, tt.username)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
