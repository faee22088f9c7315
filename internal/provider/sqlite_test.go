package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlrepo/internal/config"
)

func newSQLiteProvider(t *testing.T, opts ...Option) *Provider {
	t.Helper()
	ctx := context.Background()

	p, err := New(ctx, config.DatabaseConfig{
		Driver:       "sqlite3",
		Name:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	_, err = p.Exec(ctx, `CREATE TABLE items (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT NOT NULL UNIQUE,
		owner TEXT
	)`)
	require.NoError(t, err)
	return p
}

func TestSQLite_RoundTrip(t *testing.T) {
	p := newSQLiteProvider(t)
	ctx := context.Background()

	created, err := p.Create(ctx, "items", Fields{"name": "widget", "owner": "bob"})
	require.NoError(t, err)
	require.NotNil(t, created.InsertID)

	rows, err := p.GetOne(ctx, "items", created.InsertID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.InsertID, rows[0]["id"])
	assert.Equal(t, "widget", rows[0]["name"])

	_, err = p.Update(ctx, "items", created.InsertID, Fields{"id": 999, "owner": "alice"})
	require.NoError(t, err)

	rows, err = p.Find(ctx, "items", Conditions{"owner": "alice"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.InsertID, rows[0]["id"], "update must not rewrite the id")

	rows, err = p.Count(ctx, "items", Conditions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows[0]["count"])

	_, err = p.Delete(ctx, "items", created.InsertID)
	require.NoError(t, err)

	rows, err = p.GetOne(ctx, "items", created.InsertID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLite_CreateManyIsAtomic(t *testing.T) {
	p := newSQLiteProvider(t)
	ctx := context.Background()

	results, err := p.CreateMany(ctx, "items", []Fields{{"name": "a"}, {"name": "b"}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	ids := []any{results[0].InsertID, results[1].InsertID}
	rows, err := p.GetMany(ctx, "items", ids)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// "a" violates the unique constraint, so nothing from this batch persists.
	_, err = p.CreateMany(ctx, "items", []Fields{{"name": "c"}, {"name": "a"}, {"name": "d"}})
	require.Error(t, err)

	rows, err = p.Count(ctx, "items", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows[0]["count"])

	res, err := p.DeleteMany(ctx, "items", ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)
}

func TestSQLite_ExpiredDeadlineIsNotFatal(t *testing.T) {
	var fatal error
	p := newSQLiteProvider(t, WithFatalHandler(func(err error) { fatal = err }))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := p.Get(ctx, "items")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoError(t, fatal)

	// The handle is untouched and still serves fresh contexts.
	rows, err := p.Get(context.Background(), "items")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
