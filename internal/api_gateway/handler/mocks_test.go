package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api_gateway/middleware"
	"github.com/portfolio-ledger/internal/api_gateway/service"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/domain/user"
	rsvc "github.com/portfolio-ledger/internal/reconciliation/service"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, request shared.TransactionRequest) (rsvc.Result, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(rsvc.Result), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, id string) (rsvc.Result, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(rsvc.Result), args.Error(1)
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, id string) (ledger.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, query ledger.Query) []ledger.Transaction {
	return m.Called(ctx, query).Get(0).([]ledger.Transaction)
}

func (m *MockTransactionService) Summarize(ctx context.Context, filter ledger.Filter) ledger.Summary {
	return m.Called(ctx, filter).Get(0).(ledger.Summary)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context) (service.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.Profile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, update user.ProfileUpdate) (service.Profile, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(service.Profile), args.Error(1)
}

func (m *MockUserService) GetBudget(ctx context.Context) budget.Budget {
	return m.Called(ctx).Get(0).(budget.Budget)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ListTransactions(ctx context.Context, filter ledger.Filter, includeDeleted bool, page, perPage int) ([]*ledger.Projection, int64, error) {
	args := m.Called(ctx, filter, includeDeleted, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Projection), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportService) LatestSnapshot(ctx context.Context) (*budget.Budget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
	r := gin.New()
	r.Use(middleware.CorrelationID())
	return r
}

// decodeResponse unmarshals the envelope and re-decodes its data into out
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()
	var raw struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return raw.Response
}
