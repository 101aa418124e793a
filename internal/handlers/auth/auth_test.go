package auth

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/studyhub/studyhub/internal/domain"
	"github.com/studyhub/studyhub/internal/service/authservice"
	"github.com/studyhub/studyhub/internal/service/cascade"
	pkgauth "github.com/studyhub/studyhub/pkg/auth"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService, *MockCascade) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	coordinator := NewMockCascade(ctrl)
	handler := New(service, coordinator)
	defer ctrl.Finish()
	return handler, service, coordinator
}

func authedRequest(method, target string, body []byte) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	ctx := context.WithValue(r.Context(), pkgauth.UserIDKey, 1)
	ctx = context.WithValue(ctx, pkgauth.RoleKey, domain.RoleUser)
	return r.WithContext(ctx)
}

func TestRegisterHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectToken   bool
	}{
		{
			name: "Successful registration",
			body: `{"login":"student42","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Register(gomock.Any(), "student42", "testpassword").
					Return(&domain.User{ID: 1, Login: "student42", Role: domain.RoleUser}, nil)
				service.EXPECT().
					GenerateToken(1, domain.RoleUser).
					Return("token", nil)
			},
			expectedCode: http.StatusOK,
			expectToken:  true,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Login already taken",
			body: `{"login":"student42","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Register(gomock.Any(), "student42", "testpassword").
					Return(nil, authservice.ErrLoginTaken)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "username already taken",
		},
		{
			name: "Token generation failure",
			body: `{"login":"student42","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Register(gomock.Any(), "student42", "testpassword").
					Return(&domain.User{ID: 1, Login: "student42", Role: domain.RoleUser}, nil)
				service.EXPECT().
					GenerateToken(1, domain.RoleUser).
					Return("", errors.New("sign error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
		{
			name: "Internal server error",
			body: `{"login":"student42","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Register(gomock.Any(), "student42", "testpassword").
					Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Register(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectToken {
				assert.Equal(t, "Bearer token", w.Header().Get("Authorization"))
				assert.Contains(t, w.Body.String(), "User successfully registered")
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectToken   bool
	}{
		{
			name: "Successful login",
			body: `{"login":"student42","password":"testpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(gomock.Any(), "student42", "testpassword").
					Return(&domain.User{ID: 1, Login: "student42", Role: domain.RoleUser}, nil)
				service.EXPECT().
					GenerateToken(1, domain.RoleUser).
					Return("token", nil)
			},
			expectedCode: http.StatusOK,
			expectToken:  true,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Invalid credentials",
			body: `{"login":"student42","password":"wrongpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(gomock.Any(), "student42", "wrongpassword").
					Return(nil, authservice.ErrInvalidCredentials)
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/user/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Login(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectToken {
				assert.Equal(t, "Bearer token", w.Header().Get("Authorization"))
				assert.Contains(t, w.Body.String(), "User successfully authenticated")
			}
		})
	}
}

func TestGetProfileHandler(t *testing.T) {
	handler, service, _ := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Profile returned",
			prepareMock: func() {
				service.EXPECT().GetProfile(gomock.Any(), 1).Return(&domain.User{
					ID:             1,
					Login:          "student42",
					Role:           domain.RoleUser,
					PurchasesCount: 3,
					ReviewsCount:   7,
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "User not found",
			prepareMock: func() {
				service.EXPECT().GetProfile(gomock.Any(), 1).Return(nil, authservice.ErrUserNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "user not found",
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().GetProfile(gomock.Any(), 1).Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodGet, "/api/user/profile", nil)
			w := httptest.NewRecorder()

			handler.GetProfile(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"purchases_count":3`)
				assert.Contains(t, w.Body.String(), `"reviews_count":7`)
			}
		})
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	handler, _, coordinator := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Account deleted",
			prepareMock: func() {
				coordinator.EXPECT().DeleteUser(gomock.Any(), 1).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "User not found",
			prepareMock: func() {
				coordinator.EXPECT().DeleteUser(gomock.Any(), 1).Return(cascade.ErrUserNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "user not found",
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				coordinator.EXPECT().DeleteUser(gomock.Any(), 1).Return(errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodDelete, "/api/user", nil)
			w := httptest.NewRecorder()

			handler.DeleteAccount(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}
