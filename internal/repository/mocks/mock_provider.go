package mocks

import (
	"context"

	"sqlrepo/internal/provider"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) rows(args mock.Arguments) (provider.Rows, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.Rows), args.Error(1)
}

func (m *MockProvider) Has(ctx context.Context, table string, id any) (provider.Rows, error) {
	return m.rows(m.Called(ctx, table, id))
}

func (m *MockProvider) GetOne(ctx context.Context, table string, id any) (provider.Rows, error) {
	return m.rows(m.Called(ctx, table, id))
}

func (m *MockProvider) GetMany(ctx context.Context, table string, ids []any) (provider.Rows, error) {
	return m.rows(m.Called(ctx, table, ids))
}

func (m *MockProvider) Get(ctx context.Context, table string) (provider.Rows, error) {
	return m.rows(m.Called(ctx, table))
}

func (m *MockProvider) Find(ctx context.Context, table string, conds provider.Conditions) (provider.Rows, error) {
	return m.rows(m.Called(ctx, table, conds))
}

func (m *MockProvider) Count(ctx context.Context, table string, conds provider.Conditions) (provider.Rows, error) {
	return m.rows(m.Called(ctx, table, conds))
}

func (m *MockProvider) Create(ctx context.Context, table string, fields provider.Fields) (provider.Result, error) {
	args := m.Called(ctx, table, fields)
	return args.Get(0).(provider.Result), args.Error(1)
}

func (m *MockProvider) CreateMany(ctx context.Context, table string, items []provider.Fields) ([]provider.Result, error) {
	args := m.Called(ctx, table, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Result), args.Error(1)
}

func (m *MockProvider) Update(ctx context.Context, table string, id any, fields provider.Fields) (provider.Result, error) {
	args := m.Called(ctx, table, id, fields)
	return args.Get(0).(provider.Result), args.Error(1)
}

func (m *MockProvider) Delete(ctx context.Context, table string, id any) (provider.Result, error) {
	args := m.Called(ctx, table, id)
	return args.Get(0).(provider.Result), args.Error(1)
}
