// Package repository maps entities of one table to and from provider calls.
// It never builds SQL itself.
package repository

import (
	"context"
	"reflect"

	"sqlrepo/internal/provider"
)

// Entity is a domain object keyed by an identifier.
type Entity interface {
	GetID() any
	SetID(id any)
}

// Factory converts raw rows into entities or collections, and entities back
// into column values.
type Factory[E Entity, C any] interface {
	Create(row provider.Row) (E, error)
	CreateCollection(rows provider.Rows) (C, error)
	Fields(entity E) (provider.Fields, error)
}

// Provider is the part of *provider.Provider a Repository depends on.
type Provider interface {
	Has(ctx context.Context, table string, id any) (provider.Rows, error)
	GetOne(ctx context.Context, table string, id any) (provider.Rows, error)
	GetMany(ctx context.Context, table string, ids []any) (provider.Rows, error)
	Get(ctx context.Context, table string) (provider.Rows, error)
	Find(ctx context.Context, table string, conds provider.Conditions) (provider.Rows, error)
	Count(ctx context.Context, table string, conds provider.Conditions) (provider.Rows, error)
	Create(ctx context.Context, table string, fields provider.Fields) (provider.Result, error)
	CreateMany(ctx context.Context, table string, items []provider.Fields) ([]provider.Result, error)
	Update(ctx context.Context, table string, id any, fields provider.Fields) (provider.Result, error)
	Delete(ctx context.Context, table string, id any) (provider.Result, error)
}

var _ Provider = (*provider.Provider)(nil)

// Repository is bound to a single table for its whole lifetime.
type Repository[E Entity, C any] struct {
	provider Provider
	factory  Factory[E, C]
	table    string
}

// New creates a Repository for table.
func New[E Entity, C any](p Provider, f Factory[E, C], table string) *Repository[E, C] {
	return &Repository[E, C]{provider: p, factory: f, table: table}
}

// Table returns the table the repository is bound to.
func (r *Repository[E, C]) Table() string {
	return r.table
}

// Exists reports whether a row with id is present.
func (r *Repository[E, C]) Exists(ctx context.Context, id any) (bool, error) {
	rows, err := r.provider.Has(ctx, r.table, id)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// GetOne returns the entity with id. ok is false when no such row exists.
func (r *Repository[E, C]) GetOne(ctx context.Context, id any) (entity E, ok bool, err error) {
	rows, err := r.provider.GetOne(ctx, r.table, id)
	if err != nil || len(rows) == 0 {
		return entity, false, err
	}
	entity, err = r.factory.Create(rows[0])
	if err != nil {
		return entity, false, err
	}
	return entity, true, nil
}

// Get returns every row of the table as a collection.
func (r *Repository[E, C]) Get(ctx context.Context) (C, error) {
	return r.collect(r.provider.Get(ctx, r.table))
}

// Find returns the rows matching conds. Empty conds match everything.
func (r *Repository[E, C]) Find(ctx context.Context, conds provider.Conditions) (C, error) {
	return r.collect(r.provider.Find(ctx, r.table, conds))
}

// GetMany returns the rows whose id is in ids.
func (r *Repository[E, C]) GetMany(ctx context.Context, ids []any) (C, error) {
	return r.collect(r.provider.GetMany(ctx, r.table, ids))
}

// Count returns the raw count result; see CountOf.
func (r *Repository[E, C]) Count(ctx context.Context, conds provider.Conditions) (provider.Rows, error) {
	return r.provider.Count(ctx, r.table, conds)
}

// Create inserts entity. When the entity had no id, the generated one is set
// on it before it is returned.
func (r *Repository[E, C]) Create(ctx context.Context, entity E) (E, error) {
	fields, generated, err := r.fields(entity)
	if err != nil {
		return entity, err
	}
	res, err := r.provider.Create(ctx, r.table, fields)
	if err != nil {
		return entity, err
	}
	if generated {
		entity.SetID(res.InsertID)
	}
	return entity, nil
}

// CreateMany inserts items in one transaction and returns the raw per-item results.
func (r *Repository[E, C]) CreateMany(ctx context.Context, items []E) ([]provider.Result, error) {
	batch := make([]provider.Fields, len(items))
	for i, item := range items {
		fields, _, err := r.fields(item)
		if err != nil {
			return nil, err
		}
		batch[i] = fields
	}
	return r.provider.CreateMany(ctx, r.table, batch)
}

// Update writes entity to the row identified by its own id.
func (r *Repository[E, C]) Update(ctx context.Context, entity E) (provider.Result, error) {
	fields, err := r.factory.Fields(entity)
	if err != nil {
		return provider.Result{}, err
	}
	return r.provider.Update(ctx, r.table, entity.GetID(), fields)
}

// Delete removes the row with id.
func (r *Repository[E, C]) Delete(ctx context.Context, id any) (provider.Result, error) {
	return r.provider.Delete(ctx, r.table, id)
}

func (r *Repository[E, C]) collect(rows provider.Rows, err error) (C, error) {
	if err != nil {
		var zero C
		return zero, err
	}
	return r.factory.CreateCollection(rows)
}

// fields encodes entity for an insert. A zero id is left out so the database
// generates one; generated reports whether that happened.
func (r *Repository[E, C]) fields(entity E) (provider.Fields, bool, error) {
	fields, err := r.factory.Fields(entity)
	if err != nil {
		return nil, false, err
	}
	if isZero(entity.GetID()) {
		return fields.Without(provider.IDColumn), true, nil
	}
	return fields, false, nil
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
