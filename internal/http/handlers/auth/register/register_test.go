package register

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

	authservice "github.com/magabrotheeeer/subscription-billing/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, email, rawPassword string) (string, string, error) {
	args := m.Called(ctx, email, rawPassword)
	return args.String(0), args.String(1), args.Error(2)
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *ServiceMock)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Успешная регистрация",
			body: `{"email": "user@example.com", "password": "secret123"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "user@example.com", "secret123").
					Return("user-1", "jwt-token", nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Email уже занят",
			body: `{"email": "taken@example.com", "password": "secret123"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "taken@example.com", "secret123").
					Return("", "", authservice.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "email already registered",
		},
		{
			name: "Внутренняя ошибка",
			body: `{"email": "user@example.com", "password": "secret123"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "user@example.com", "secret123").
					Return("", "", errors.New("database unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to register user",
		},
		{
			name:           "Невалидный JSON",
			body:           `{"email": }`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "Невалидный email",
			body:           `{"email": "not-an-email", "password": "secret123"}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "Слишком короткий пароль",
			body:           `{"email": "user@example.com", "password": "123"}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := New(log, serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedError, resp["error"])
			}
			if tt.expectedStatus == http.StatusCreated {
				var resp struct {
					Status string `json:"status"`
					Data   struct {
						UserUID string `json:"user_uid"`
						Token   string `json:"token"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "OK", resp.Status)
				assert.Equal(t, "user-1", resp.Data.UserUID)
				assert.NotEmpty(t, resp.Data.Token)
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
