package provider

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"sqlrepo/internal/database"
)

// Dialect describes how statements are rendered for one database flavour.
type Dialect struct {
	Name string
	// Quote wraps identifiers; an embedded quote is doubled.
	Quote byte
	// BindType is the sqlx placeholder style of the driver.
	BindType int
	// Returning makes inserts read the generated id with RETURNING.
	Returning bool
	// EmptyInsert is the VALUES part used when an insert has no columns.
	EmptyInsert string
}

var (
	MySQL = Dialect{
		Name:        database.DriverMySQL,
		Quote:       '`',
		BindType:    sqlx.QUESTION,
		EmptyInsert: "() VALUES ()",
	}
	Postgres = Dialect{
		Name:        database.DriverPostgres,
		Quote:       '"',
		BindType:    sqlx.DOLLAR,
		Returning:   true,
		EmptyInsert: "DEFAULT VALUES",
	}
	SQLite = Dialect{
		Name:        database.DriverSQLite,
		Quote:       '"',
		BindType:    sqlx.QUESTION,
		EmptyInsert: "DEFAULT VALUES",
	}
)

// DialectFor returns the dialect registered for a config driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case database.DriverMySQL:
		return MySQL, nil
	case database.DriverPostgres:
		return Postgres, nil
	case database.DriverSQLite:
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, driver)
}

// Ident quotes a possibly qualified identifier; "db.items" becomes `db`.`items`.
func (d Dialect) Ident(name string) string {
	q := string(d.Quote)
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}
	return strings.Join(parts, ".")
}

// Rebind rewrites '?' placeholders into the dialect's bind style.
func (d Dialect) Rebind(query string) string {
	return sqlx.Rebind(d.BindType, query)
}
