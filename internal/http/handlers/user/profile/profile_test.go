package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetActive(ctx context.Context, userUID string) (*models.SubscriptionSummary, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionSummary), args.Error(1)
}

func TestProfileHandler(t *testing.T) {
	endDate := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(m *ServiceMock)
		expectedStatus int
		wantNull       bool
	}{
		{
			name:    "Действующая подписка",
			userUID: "user-1",
			setupMock: func(m *ServiceMock) {
				m.On("GetActive", mock.Anything, "user-1").
					Return(&models.SubscriptionSummary{
						Plan:    "standard_monthly",
						Status:  models.SubscriptionStatusActive,
						EndDate: endDate,
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Подписки нет",
			userUID: "user-2",
			setupMock: func(m *ServiceMock) {
				m.On("GetActive", mock.Anything, "user-2").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			wantNull:       true,
		},
		{
			name:    "Ошибка хранилища",
			userUID: "user-1",
			setupMock: func(m *ServiceMock) {
				m.On("GetActive", mock.Anything, "user-1").
					Return(nil, errors.New("database unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Нет пользователя в контексте",
			userUID:        "",
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := New(log, serviceMock)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/user/profile", nil)
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp struct {
					Status string `json:"status"`
					Data   struct {
						Subscription *models.SubscriptionSummary `json:"subscription"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "OK", resp.Status)
				if tt.wantNull {
					assert.Nil(t, resp.Data.Subscription)
				} else {
					require.NotNil(t, resp.Data.Subscription)
					assert.Equal(t, "standard_monthly", resp.Data.Subscription.Plan)
				}
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
