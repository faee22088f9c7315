package mocks

import (
	"context"

	"sqlrepo/internal/model"
	"sqlrepo/internal/provider"
	"sqlrepo/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, in service.ItemInput) (*model.Item, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemService) CreateBatch(ctx context.Context, in []service.ItemInput) ([]provider.Result, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.Result), args.Error(1)
}

func (m *MockItemService) List(ctx context.Context, name string) (*service.ItemListResult, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ItemListResult), args.Error(1)
}

func (m *MockItemService) Count(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemService) Get(ctx context.Context, id int64) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, id int64, in service.ItemInput) (*model.Item, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
