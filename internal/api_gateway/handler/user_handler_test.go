package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/portfolio-ledger/internal/api_gateway/service"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleProfile() service.Profile {
	return service.Profile{
		User:   user.User{ID: "user1", Name: "John Doe", Email: "john@example.com", ImageURL: "/placeholder.svg"},
		Budget: budget.New("user1", decimal.RequireFromString("5231.89"), decimal.RequireFromString("12234.00"), 12),
	}
}

func TestUserHandler_GetProfile(t *testing.T) {
	svc := &MockUserService{}
	svc.On("GetProfile", mock.Anything).Return(sampleProfile(), nil).Once()

	router := setupTestRouter()
	router.GET("/user", NewUserHandler(testLogger(), svc).GetProfile)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var data UserResponse
	decodeResponse(t, rr, &data)
	assert.Equal(t, "John Doe", data.Name)
	assert.Equal(t, 17465.89, data.Budget.TotalBalance)
	assert.Equal(t, 12, data.Budget.ActivePositions)
	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(m *MockUserService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "BudgetFieldsIgnored",
			body: `{"name":"Jane Doe","cash":1000000,"totalBalance":1}`,
			setupMocks: func(m *MockUserService) {
				m.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u user.ProfileUpdate) bool {
					return u.Name != nil && *u.Name == "Jane Doe" && u.Email == nil && u.ImageURL == nil
				})).Return(sampleProfile(), nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "InvalidEmail",
			body:       `{"email":"not-an-email"}`,
			setupMocks: func(m *MockUserService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name: "EmptyName",
			body: `{"name":"  "}`,
			setupMocks: func(m *MockUserService) {
				m.On("UpdateProfile", mock.Anything, mock.Anything).Return(service.Profile{}, user.ErrEmptyName).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
		},
		{
			name: "MissingUser",
			body: `{"name":"Jane"}`,
			setupMocks: func(m *MockUserService) {
				m.On("UpdateProfile", mock.Anything, mock.Anything).Return(service.Profile{}, user.ErrUserNotFound{UserID: "user1"}).Once()
			},
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockUserService{}
			tt.setupMocks(svc)
			router := setupTestRouter()
			router.PUT("/user", NewUserHandler(testLogger(), svc).UpdateProfile)

			req := httptest.NewRequest(http.MethodPut, "/user", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			resp := decodeResponse(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_GetBudget(t *testing.T) {
	svc := &MockUserService{}
	svc.On("GetBudget", mock.Anything).Return(sampleProfile().Budget).Once()

	router := setupTestRouter()
	router.GET("/budget", NewUserHandler(testLogger(), svc).GetBudget)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/budget", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var data BudgetResponse
	decodeResponse(t, rr, &data)
	assert.Equal(t, 5231.89, data.Cash)
	assert.Equal(t, "user1", data.UserID)
	svc.AssertExpectations(t)
}
