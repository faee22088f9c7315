package provider

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// executeTransaction runs stmts concurrently inside one transaction and
// commits once all of them succeeded. Completion order between statements is
// not defined; results are returned in the order of stmts.
//
// If any statement fails the transaction is rolled back and the statement's
// error is returned, joined with the rollback error when rollback fails too.
func (p *Provider) executeTransaction(ctx context.Context, stmts []statement, insert bool) ([]Result, error) {
	if len(stmts) == 0 {
		return []Result{}, nil
	}

	db := p.conn.Load()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, p.handleErr(ctx, db, err)
	}

	results := make([]Result, len(stmts))

	// A transaction is bound to one connection; statements take turns on it.
	var connMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if p.txLimit > 0 {
		g.SetLimit(p.txLimit)
	}
	for i, st := range stmts {
		g.Go(func() error {
			connMu.Lock()
			defer connMu.Unlock()
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.execStmt(gctx, tx, st, insert)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, rbErr)
		}
		p.log.Warn().Err(err).Int("statements", len(stmts)).Msg("transaction rolled back")
		return nil, p.handleErr(ctx, db, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, p.handleErr(ctx, db, err)
	}
	return results, nil
}
