package paymentinit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-billing/internal/http/middlewarectx"
	paymentservice "github.com/magabrotheeeer/subscription-billing/internal/services/payment"
	"github.com/magabrotheeeer/subscription-billing/internal/services/pricing"
	"github.com/magabrotheeeer/subscription-billing/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) InitializePayment(ctx context.Context, userUID, planID, discountCode string) (*paymentservice.InitializeResult, error) {
	args := m.Called(ctx, userUID, planID, discountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentservice.InitializeResult), args.Error(1)
}

func TestInitHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(m *ServiceMock)
		expectedStatus int
		expectedError  string
	}{
		{
			name:    "Успешная инициализация",
			body:    `{"plan_id": "standard_monthly", "discount_code": "LAUNCH40"}`,
			userUID: "user-1",
			setupMock: func(m *ServiceMock) {
				m.On("InitializePayment", mock.Anything, "user-1", "standard_monthly", "LAUNCH40").
					Return(&paymentservice.InitializeResult{
						AuthorizationURL: "https://gateway.example/pay/abc",
						Reference:        "ref-123",
						Amount:           700000,
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Неизвестный план",
			body:    `{"plan_id": "enterprise_monthly"}`,
			userUID: "user-1",
			setupMock: func(m *ServiceMock) {
				m.On("InitializePayment", mock.Anything, "user-1", "enterprise_monthly", "").
					Return(nil, pricing.ErrUnknownPlan)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unknown plan",
		},
		{
			name:    "Пользователь не найден",
			body:    `{"plan_id": "standard_monthly"}`,
			userUID: "user-ghost",
			setupMock: func(m *ServiceMock) {
				m.On("InitializePayment", mock.Anything, "user-ghost", "standard_monthly", "").
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "user not found",
		},
		{
			name:    "Ошибка платёжного шлюза",
			body:    `{"plan_id": "standard_monthly"}`,
			userUID: "user-1",
			setupMock: func(m *ServiceMock) {
				m.On("InitializePayment", mock.Anything, "user-1", "standard_monthly", "").
					Return(nil, errors.New("gateway timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "payment provider error",
		},
		{
			name:           "Невалидный JSON",
			body:           `{plan_id: standard_monthly}`,
			userUID:        "user-1",
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "Отсутствует plan_id",
			body:           `{"discount_code": "LAUNCH40"}`,
			userUID:        "user-1",
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "Нет пользователя в контексте",
			body:           `{"plan_id": "standard_monthly"}`,
			userUID:        "",
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := New(log, serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/initialize", bytes.NewBufferString(tt.body))
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "Error", resp["status"])
				assert.Equal(t, tt.expectedError, resp["error"])
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
