package mocks

import (
	"context"

	"sqlrepo/internal/model"
	"sqlrepo/internal/provider"
	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Exists(ctx context.Context, id any) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) GetOne(ctx context.Context, id any) (*model.Item, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Item), args.Bool(1), args.Error(2)
}

func (m *MockItemRepository) Find(ctx context.Context, conds provider.Conditions) ([]*model.Item, error) {
	args := m.Called(ctx, conds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Item), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, conds provider.Conditions) (provider.Rows, error) {
	args := m.Called(ctx, conds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.Rows), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemRepository) CreateMany(ctx context.Context, items []*model.Item) ([]provider.Result, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Result), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *model.Item) (provider.Result, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(provider.Result), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, id any) (provider.Result, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(provider.Result), args.Error(1)
}
