package repository

import (
	"context"

	"sqlrepo/internal/model"
	"sqlrepo/internal/provider"
)

// ItemRepository defines data access for items.
type ItemRepository interface {
	Exists(ctx context.Context, id any) (bool, error)
	GetOne(ctx context.Context, id any) (*model.Item, bool, error)
	Find(ctx context.Context, conds provider.Conditions) ([]*model.Item, error)
	Count(ctx context.Context, conds provider.Conditions) (provider.Rows, error)
	Create(ctx context.Context, item *model.Item) (*model.Item, error)
	CreateMany(ctx context.Context, items []*model.Item) ([]provider.Result, error)
	Update(ctx context.Context, item *model.Item) (provider.Result, error)
	Delete(ctx context.Context, id any) (provider.Result, error)
}

// ItemFactory builds items from rows of the items table.
type ItemFactory = StructFactory[model.Item, *model.Item]

// NewItemRepository binds a repository to the items table.
func NewItemRepository(p Provider) *Repository[*model.Item, []*model.Item] {
	return New[*model.Item, []*model.Item](p, ItemFactory{}, model.ItemsTable)
}

var _ ItemRepository = (*Repository[*model.Item, []*model.Item])(nil)
