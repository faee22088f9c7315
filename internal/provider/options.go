package provider

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"sqlrepo/internal/config"
)

// Opener establishes a verified connection for the given parameters.
type Opener func(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for reconnect and fatal events.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// WithMetrics records statement counts and latency.
func WithMetrics(m *Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// WithFatalHandler replaces the default handler for non-recoverable
// connection errors, which logs at fatal level and exits the process.
func WithFatalHandler(fn func(error)) Option {
	return func(p *Provider) { p.onFatal = fn }
}

// WithTxConcurrency bounds how many statements of one transaction are in
// flight at once. Zero means no limit.
func WithTxConcurrency(n int) Option {
	return func(p *Provider) { p.txLimit = n }
}

// WithOpener replaces database.Open.
func WithOpener(o Opener) Option {
	return func(p *Provider) { p.open = o }
}
