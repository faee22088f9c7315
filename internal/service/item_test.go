package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sqlrepo/internal/model"
	"sqlrepo/internal/provider"
	repoMocks "sqlrepo/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestService(mRepo *repoMocks.MockItemRepository) ItemService {
	svc := NewItemService(mRepo).(*itemService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         ItemInput
		setupMocks func(mRepo *repoMocks.MockItemRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			in:   ItemInput{Name: "widget", Description: "blue"},
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Create", ctx, &model.Item{Name: "widget", Description: "blue", CreatedAt: fixedNow}).
					Return(&model.Item{ID: 1, Name: "widget", Description: "blue", CreatedAt: fixedNow}, nil)
			},
		},
		{
			name:       "validation - missing name",
			in:         ItemInput{Description: "no name"},
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {},
			wantErr:    ErrInvalid,
		},
		{
			name:       "validation - name too long",
			in:         ItemInput{Name: strings.Repeat("x", 256)},
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {},
			wantErr:    ErrInvalid,
		},
		{
			name: "repository error",
			in:   ItemInput{Name: "widget"},
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErrMsg: "create item: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockItemRepository)
			svc := newTestService(mRepo)
			tt.setupMocks(mRepo)

			item, err := svc.Create(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, item)
			} else if tt.wantErrMsg != "" {
				assert.EqualError(t, err, tt.wantErrMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), item.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestItemService_CreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockItemRepository)
		svc := newTestService(mRepo)
		want := []provider.Result{{InsertID: int64(1), RowsAffected: 1}, {InsertID: int64(2), RowsAffected: 1}}

		mRepo.On("CreateMany", ctx, []*model.Item{
			{Name: "a", CreatedAt: fixedNow},
			{Name: "b", CreatedAt: fixedNow},
		}).Return(want, nil)

		got, err := svc.CreateBatch(ctx, []ItemInput{{Name: "a"}, {Name: "b"}})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		mRepo.AssertExpectations(t)
	})

	t.Run("one invalid input rejects the batch", func(t *testing.T) {
		mRepo := new(repoMocks.MockItemRepository)
		svc := newTestService(mRepo)

		_, err := svc.CreateBatch(ctx, []ItemInput{{Name: "a"}, {}})
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "item 1")
		mRepo.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockItemRepository)
		svc := newTestService(mRepo)
		mRepo.On("CreateMany", ctx, mock.Anything).Return(nil, errors.New("duplicate"))

		_, err := svc.CreateBatch(ctx, []ItemInput{{Name: "a"}})
		assert.EqualError(t, err, "create items: duplicate")
	})
}

func TestItemService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		filter     string
		setupMocks func(mRepo *repoMocks.MockItemRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *ItemListResult)
	}{
		{
			name: "no filter",
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Find", ctx, provider.Conditions{}).
					Return([]*model.Item{{ID: 1}, {ID: 2}}, nil)
				mRepo.On("Count", ctx, provider.Conditions{}).
					Return(provider.Rows{{"count": int64(2)}}, nil)
			},
			checkRes: func(t *testing.T, res *ItemListResult) {
				assert.Len(t, res.Items, 2)
				assert.Equal(t, int64(2), res.Total)
			},
		},
		{
			name:   "name filter with no match",
			filter: "ghost",
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Find", ctx, provider.Conditions{"name": "ghost"}).Return(nil, nil)
				mRepo.On("Count", ctx, provider.Conditions{"name": "ghost"}).
					Return(provider.Rows{{"count": "0"}}, nil)
			},
			checkRes: func(t *testing.T, res *ItemListResult) {
				assert.NotNil(t, res.Items)
				assert.Empty(t, res.Items)
				assert.Equal(t, int64(0), res.Total)
			},
		},
		{
			name: "repository error",
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Find", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockItemRepository)
			svc := newTestService(mRepo)
			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				tt.checkRes(t, res)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestItemService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockItemRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   5,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("GetOne", ctx, int64(5)).Return(&model.Item{ID: 5}, true, nil)
			},
		},
		{
			name:       "validation - zero id",
			id:         0,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   404,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("GetOne", ctx, int64(404)).Return(nil, false, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   7,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("GetOne", ctx, int64(7)).Return(nil, false, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockItemRepository)
			svc := newTestService(mRepo)
			tt.setupMocks(mRepo)

			item, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, item.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockItemRepository)
		svc := newTestService(mRepo)

		mRepo.On("GetOne", ctx, int64(3)).Return(&model.Item{ID: 3, Name: "old", CreatedAt: fixedNow}, true, nil)
		mRepo.On("Update", ctx, &model.Item{ID: 3, Name: "new", Description: "d", CreatedAt: fixedNow}).
			Return(provider.Result{RowsAffected: 1}, nil)

		item, err := svc.Update(ctx, 3, ItemInput{Name: "new", Description: "d"})
		require.NoError(t, err)
		assert.Equal(t, "new", item.Name)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockItemRepository)
		svc := newTestService(mRepo)
		mRepo.On("GetOne", ctx, int64(3)).Return(nil, false, nil)

		_, err := svc.Update(ctx, 3, ItemInput{Name: "new"})
		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid input", func(t *testing.T) {
		mRepo := new(repoMocks.MockItemRepository)
		svc := newTestService(mRepo)

		_, err := svc.Update(ctx, 3, ItemInput{})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockItemRepository)
		svc := newTestService(mRepo)
		mRepo.On("GetOne", ctx, int64(3)).Return(&model.Item{ID: 3}, true, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(provider.Result{}, errors.New("db fail"))

		_, err := svc.Update(ctx, 3, ItemInput{Name: "new"})
		assert.EqualError(t, err, "update item: db fail")
	})
}

func TestItemService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         int64
		setupMocks func(mRepo *repoMocks.MockItemRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   5,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Exists", ctx, int64(5)).Return(true, nil)
				mRepo.On("Delete", ctx, int64(5)).Return(provider.Result{RowsAffected: 1}, nil)
			},
		},
		{
			name:       "validation - negative id",
			id:         -1,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   404,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Exists", ctx, int64(404)).Return(false, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "repository delete error",
			id:   6,
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Exists", ctx, int64(6)).Return(true, nil)
				mRepo.On("Delete", ctx, int64(6)).Return(provider.Result{}, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockItemRepository)
			svc := newTestService(mRepo)
			tt.setupMocks(mRepo)

			err := svc.Delete(ctx, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
