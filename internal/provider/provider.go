// Package provider executes table-scoped SQL against a single replaceable
// database handle. Statements are rendered per Dialect with every value
// passed as a bind argument; identifiers are quoted, never interpolated raw.
package provider

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"sqlrepo/internal/config"
	"sqlrepo/internal/database"
)

// Provider owns one connection handle and translates CRUD calls into SQL.
// It is safe for concurrent use; statement interleaving is left to database/sql.
type Provider struct {
	cfg     config.DatabaseConfig
	dialect Dialect
	conn    atomic.Pointer[sqlx.DB]

	reconnectMu sync.Mutex
	open        Opener
	log         zerolog.Logger
	metrics     *Metrics
	onFatal     func(error)
	txLimit     int
}

// New connects with cfg and returns a ready Provider. cfg is retained for reconnects.
func New(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (*Provider, error) {
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		cfg:     cfg,
		dialect: d,
		open:    database.Open,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.onFatal == nil {
		p.onFatal = func(err error) {
			p.log.Fatal().Err(err).Msg("database connection failed")
		}
	}

	if err := p.connect(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Dialect returns the SQL dialect statements are rendered in.
func (p *Provider) Dialect() Dialect {
	return p.dialect
}

// DB returns the current handle. It may be replaced by a later reconnect.
func (p *Provider) DB() *sqlx.DB {
	return p.conn.Load()
}

// Close closes the current handle.
func (p *Provider) Close() error {
	return p.conn.Load().Close()
}

// PingContext verifies the current handle is reachable.
func (p *Provider) PingContext(ctx context.Context) error {
	return p.conn.Load().PingContext(ctx)
}

// Reconnect opens a fresh handle and swaps it in. Statements still running on
// the previous handle are not retried.
func (p *Provider) Reconnect(ctx context.Context) error {
	p.reconnectMu.Lock()
	defer p.reconnectMu.Unlock()
	return p.reconnect(ctx)
}

func (p *Provider) reconnect(ctx context.Context) error {
	if err := p.connect(ctx); err != nil {
		return err
	}
	p.metrics.reconnected()
	p.log.Info().Str("driver", p.cfg.Driver).Msg("database reconnected")
	return nil
}

func (p *Provider) connect(ctx context.Context) error {
	db, err := p.open(ctx, p.cfg)
	if err != nil {
		return err
	}
	if old := p.conn.Swap(db); old != nil {
		go old.Close()
	}
	return nil
}

// reconnectFrom replaces failed unless another caller already did.
func (p *Provider) reconnectFrom(ctx context.Context, failed *sqlx.DB) error {
	p.reconnectMu.Lock()
	defer p.reconnectMu.Unlock()
	if p.conn.Load() != failed {
		return nil
	}
	return p.reconnect(ctx)
}

// handleErr applies the connection error policy and returns err unchanged.
func (p *Provider) handleErr(ctx context.Context, db *sqlx.DB, err error) error {
	switch {
	case err == nil:
		return nil
	case IsConnReset(err):
		p.log.Warn().Err(err).Msg("connection reset, reconnecting")
		if rerr := p.reconnectFrom(context.WithoutCancel(ctx), db); rerr != nil {
			p.onFatal(rerr)
		}
	case IsConnFatal(err):
		p.onFatal(err)
	}
	return err
}

// GetOne selects the row with the given id. The result has zero or one row.
func (p *Provider) GetOne(ctx context.Context, table string, id any) (Rows, error) {
	return p.query(ctx, "get_one", p.dialect.selectByID(table, id))
}

// GetMany selects all rows whose id is in ids.
func (p *Provider) GetMany(ctx context.Context, table string, ids []any) (Rows, error) {
	if len(ids) == 0 {
		return Rows{}, nil
	}
	st, err := p.dialect.selectByIDs(table, ids)
	if err != nil {
		return nil, err
	}
	return p.query(ctx, "get_many", st)
}

// Get selects the whole table.
func (p *Provider) Get(ctx context.Context, table string) (Rows, error) {
	return p.query(ctx, "get", p.dialect.selectAll(table))
}

// Find selects rows matching every condition. No conditions matches all rows.
func (p *Provider) Find(ctx context.Context, table string, conds Conditions) (Rows, error) {
	return p.query(ctx, "find", p.dialect.selectWhere(table, conds))
}

// Has is GetOne under another name; callers test the result for emptiness.
func (p *Provider) Has(ctx context.Context, table string, id any) (Rows, error) {
	return p.GetOne(ctx, table, id)
}

// HasThese is GetMany under another name.
func (p *Provider) HasThese(ctx context.Context, table string, ids []any) (Rows, error) {
	return p.GetMany(ctx, table, ids)
}

// Count returns a single row with a "count" column.
func (p *Provider) Count(ctx context.Context, table string, conds Conditions) (Rows, error) {
	return p.query(ctx, "count", p.dialect.count(table, conds))
}

// Create inserts one row and reports the generated id.
func (p *Provider) Create(ctx context.Context, table string, fields Fields) (Result, error) {
	start := time.Now()
	db := p.conn.Load()
	res, err := p.execStmt(ctx, db, p.dialect.insert(table, fields), true)
	p.metrics.observe("create", start, err)
	return res, p.handleErr(ctx, db, err)
}

// CreateMany inserts every item inside one transaction. Results follow the
// order of items.
func (p *Provider) CreateMany(ctx context.Context, table string, items []Fields) ([]Result, error) {
	stmts := make([]statement, len(items))
	for i, item := range items {
		stmts[i] = p.dialect.insert(table, item)
	}
	start := time.Now()
	res, err := p.executeTransaction(ctx, stmts, true)
	p.metrics.observe("create_many", start, err)
	return res, err
}

// Update writes fields to the row with the given id. An "id" key in fields is ignored.
func (p *Provider) Update(ctx context.Context, table string, id any, fields Fields) (Result, error) {
	if len(fields.Without(IDColumn)) == 0 {
		return Result{}, ErrNoFields
	}
	return p.exec(ctx, "update", p.dialect.update(table, id, fields))
}

// Delete removes the row with the given id.
func (p *Provider) Delete(ctx context.Context, table string, id any) (Result, error) {
	return p.exec(ctx, "delete", p.dialect.deleteByID(table, id))
}

// DeleteMany removes every row whose id is in ids.
func (p *Provider) DeleteMany(ctx context.Context, table string, ids []any) (Result, error) {
	if len(ids) == 0 {
		return Result{}, nil
	}
	st, err := p.dialect.deleteByIDs(table, ids)
	if err != nil {
		return Result{}, err
	}
	return p.exec(ctx, "delete_many", st)
}

// Query runs caller-supplied SQL with '?' placeholders and returns its rows.
// Slice values are expanded into lists. Prefer the typed operations.
func (p *Provider) Query(ctx context.Context, query string, values ...any) (Rows, error) {
	st, err := p.dialect.raw(query, values)
	if err != nil {
		return nil, err
	}
	return p.query(ctx, "query", st)
}

// Exec runs caller-supplied SQL that returns no rows.
func (p *Provider) Exec(ctx context.Context, query string, values ...any) (Result, error) {
	st, err := p.dialect.raw(query, values)
	if err != nil {
		return Result{}, err
	}
	return p.exec(ctx, "exec", st)
}

func (p *Provider) query(ctx context.Context, op string, st statement) (Rows, error) {
	start := time.Now()
	db := p.conn.Load()
	rows, err := queryRows(ctx, db, st)
	p.metrics.observe(op, start, err)
	return rows, p.handleErr(ctx, db, err)
}

func (p *Provider) exec(ctx context.Context, op string, st statement) (Result, error) {
	start := time.Now()
	db := p.conn.Load()
	res, err := p.execStmt(ctx, db, st, false)
	p.metrics.observe(op, start, err)
	return res, p.handleErr(ctx, db, err)
}

func (p *Provider) execStmt(ctx context.Context, ext sqlx.ExtContext, st statement, insert bool) (Result, error) {
	if insert && p.dialect.Returning {
		var id any
		if err := ext.QueryRowxContext(ctx, st.query, st.args...).Scan(&id); err != nil {
			return Result{}, err
		}
		return Result{InsertID: normalize(id), RowsAffected: 1}, nil
	}

	res, err := ext.ExecContext(ctx, st.query, st.args...)
	if err != nil {
		return Result{}, err
	}
	var out Result
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if insert {
		if id, err := res.LastInsertId(); err == nil {
			out.InsertID = id
		}
	}
	return out, nil
}

func queryRows(ctx context.Context, q sqlx.QueryerContext, st statement) (Rows, error) {
	rs, err := q.QueryxContext(ctx, st.query, st.args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	out := Rows{}
	for rs.Next() {
		row := make(map[string]any)
		if err := rs.MapScan(row); err != nil {
			return nil, err
		}
		for k, v := range row {
			row[k] = normalize(v)
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize turns driver text values into strings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
