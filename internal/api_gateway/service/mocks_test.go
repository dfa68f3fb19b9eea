package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	rsvc "github.com/portfolio-ledger/internal/reconciliation/service"
	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Process(ctx context.Context, request shared.Request) (rsvc.Result, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(rsvc.Result), args.Error(1)
}

func (m *MockEngine) Delete(ctx context.Context, id string) (rsvc.Result, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(rsvc.Result), args.Error(1)
}

func (m *MockEngine) Budget(ctx context.Context) budget.Budget {
	return m.Called(ctx).Get(0).(budget.Budget)
}

func (m *MockEngine) Transaction(ctx context.Context, id string) (ledger.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.Transaction), args.Error(1)
}

func (m *MockEngine) Transactions(ctx context.Context, query ledger.Query) []ledger.Transaction {
	return m.Called(ctx, query).Get(0).([]ledger.Transaction)
}

func (m *MockEngine) Summary(ctx context.Context, filter ledger.Filter) ledger.Summary {
	return m.Called(ctx, filter).Get(0).(ledger.Summary)
}

type MockProjections struct {
	mock.Mock
}

func (m *MockProjections) Apply(ctx context.Context, evt ledger.Event) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockProjections) GetByID(ctx context.Context, id string) (*ledger.Projection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Projection), args.Error(1)
}

func (m *MockProjections) Find(ctx context.Context, filter ledger.Filter, includeDeleted bool, limit, offset int) ([]*ledger.Projection, error) {
	args := m.Called(ctx, filter, includeDeleted, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Projection), args.Error(1)
}

func (m *MockProjections) Count(ctx context.Context, filter ledger.Filter, includeDeleted bool) (int64, error) {
	args := m.Called(ctx, filter, includeDeleted)
	return args.Get(0).(int64), args.Error(1)
}

type MockSnapshots struct {
	mock.Mock
}

func (m *MockSnapshots) Save(ctx context.Context, b budget.Budget, sequence int64) error {
	return m.Called(ctx, b, sequence).Error(0)
}

func (m *MockSnapshots) GetByUserID(ctx context.Context, userID string) (*budget.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockSnapshots) WithTx(_ pgx.Tx) budget.SnapshotRepository {
	return m
}
