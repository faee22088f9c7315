package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"sqlrepo/internal/model"
	"sqlrepo/internal/provider"
	"sqlrepo/internal/repository"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("item not found")
	ErrInvalid    = errors.New("invalid item")
)

// ItemInput carries the writable fields of an item.
type ItemInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1024"`
}

// ItemListResult is the service-level DTO for listed items.
type ItemListResult struct {
	Items []*model.Item `json:"data"`
	Total int64         `json:"total"`
}

// ItemService defines the use cases for handling items.
type ItemService interface {
	// Create validates in and stores a new item with a generated id.
	Create(ctx context.Context, in ItemInput) (*model.Item, error)

	// CreateBatch stores all inputs atomically. Either every item is written or none is.
	CreateBatch(ctx context.Context, in []ItemInput) ([]provider.Result, error)

	// List returns items, optionally filtered by exact name, with the matching total.
	List(ctx context.Context, name string) (*ItemListResult, error)

	// Count returns the number of items, optionally filtered by exact name.
	Count(ctx context.Context, name string) (int64, error)

	// Get returns a single item by its ID.
	Get(ctx context.Context, id int64) (*model.Item, error)

	// Update overwrites the writable fields of an existing item.
	Update(ctx context.Context, id int64, in ItemInput) (*model.Item, error)

	// Delete removes an item by ID.
	Delete(ctx context.Context, id int64) error
}

type itemService struct {
	repo     repository.ItemRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewItemService constructs a new ItemService.
func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *itemService) check(in ItemInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (s *itemService) Create(ctx context.Context, in ItemInput) (*model.Item, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	item := &model.Item{Name: in.Name, Description: in.Description, CreatedAt: s.now()}
	stored, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return stored, nil
}

func (s *itemService) CreateBatch(ctx context.Context, in []ItemInput) ([]provider.Result, error) {
	items := make([]*model.Item, 0, len(in))
	now := s.now()
	for i, v := range in {
		if err := s.check(v); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, &model.Item{Name: v.Name, Description: v.Description, CreatedAt: now})
	}
	results, err := s.repo.CreateMany(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("create items: %w", err)
	}
	return results, nil
}

func filter(name string) provider.Conditions {
	if name == "" {
		return provider.Conditions{}
	}
	return provider.Conditions{"name": name}
}

func (s *itemService) List(ctx context.Context, name string) (*ItemListResult, error) {
	conds := filter(name)
	items, err := s.repo.Find(ctx, conds)
	if err != nil {
		return nil, err
	}
	total, err := s.Count(ctx, name)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Item{}
	}
	return &ItemListResult{Items: items, Total: total}, nil
}

func (s *itemService) Count(ctx context.Context, name string) (int64, error) {
	rows, err := s.repo.Count(ctx, filter(name))
	if err != nil {
		return 0, err
	}
	return repository.CountOf(rows)
}

func (s *itemService) Get(ctx context.Context, id int64) (*model.Item, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	item, ok, err := s.repo.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, id int64, in ItemInput) (*model.Item, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Description = in.Description
	if _, err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	_, err = s.repo.Delete(ctx, id)
	return err
}
